// Package middleware provides HTTP middleware for the mailroom API.
package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/thedeck/mailroom-backend/internal/logger"
)

// APIKeyAuth validates the API key from the Authorization header.
// Uses constant-time comparison to prevent timing attacks.
func APIKeyAuth(apiKey string, secLog *logger.SecurityLogger) echo.MiddlewareFunc {
	if apiKey == "" && secLog != nil {
		secLog.Warn("API_KEY not set - API is UNSECURED")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()

			// Skip auth for health endpoints and the websocket upgrade
			if strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/ready") ||
				strings.HasPrefix(path, "/ws") {
				return next(c)
			}

			// Skip if API_KEY not configured (development mode)
			if apiKey == "" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if secLog != nil {
					secLog.AuthFailure(c.RealIP(), path, "missing authorization header")
				}
				return echo.NewHTTPError(401, map[string]string{
					"error": "missing authorization header",
					"code":  "UNAUTHORIZED",
				})
			}

			// Extract token from "Bearer <token>" format
			token := strings.TrimPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)

			// Use constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				if secLog != nil {
					secLog.AuthFailure(c.RealIP(), path, "invalid API key")
				}
				return echo.NewHTTPError(401, map[string]string{
					"error": "invalid API key",
					"code":  "UNAUTHORIZED",
				})
			}

			return next(c)
		}
	}
}
