package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/thedeck/mailroom-backend/internal/services"
)

// actorFrom extracts the operator identity forwarded by the review UI.
// Both headers are optional; audit entries tolerate empty values.
func actorFrom(c echo.Context) services.Actor {
	return services.Actor{
		Email: c.Request().Header.Get("X-Operator-Email"),
		Name:  c.Request().Header.Get("X-Operator-Name"),
	}
}
