package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const devOrigin = "http://localhost:3000"

// parseOrigins splits a comma-separated origin list. In production the
// wildcard is dropped so a sloppy deployment cannot open the API to
// every site.
func parseOrigins(raw, appEnv string) []string {
	if raw == "" {
		return []string{devOrigin}
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if appEnv == "production" && o == "*" {
			continue
		}
		origins = append(origins, o)
	}
	if len(origins) == 0 {
		origins = []string{devOrigin}
	}
	return origins
}

// SecureCORS returns CORS middleware restricted to the configured origins
func SecureCORS(allowedOrigins, appEnv string) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     parseOrigins(allowedOrigins, appEnv),
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
