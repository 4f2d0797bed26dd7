package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/thedeck/mailroom-backend/internal/api/response"
	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
	"github.com/thedeck/mailroom-backend/internal/intake"
	"github.com/thedeck/mailroom-backend/internal/services"
)

// DispatchHandler handles dispatch HTTP requests
type DispatchHandler struct {
	coordinator *services.DispatchCoordinator
}

// NewDispatchHandler creates a new DispatchHandler
func NewDispatchHandler(coordinator *services.DispatchCoordinator) *DispatchHandler {
	return &DispatchHandler{coordinator: coordinator}
}

// DispatchRequest represents the request body for a dispatch. Confirmed
// must be true; the API refuses to send anything the operator has not
// explicitly confirmed.
type DispatchRequest struct {
	Confirmed bool `json:"confirmed"`
}

// DispatchGroup handles POST /api/dispatch/groups/:key
func (h *DispatchHandler) DispatchGroup(c echo.Context) error {
	key := c.Param("key")
	if key == intake.UnassignedKey {
		return response.Error(c, apperrors.ErrUnassignedGroup)
	}

	clientID, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid group key")
	}

	var req DispatchRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	receipt, err := h.coordinator.DispatchGroup(c.Request().Context(), uint(clientID), req.Confirmed, false, actorFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, receipt)
}

// DispatchAll handles POST /api/dispatch/all
func (h *DispatchHandler) DispatchAll(c echo.Context) error {
	var req DispatchRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	report, err := h.coordinator.DispatchAll(c.Request().Context(), req.Confirmed, actorFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}
