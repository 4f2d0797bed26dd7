package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthHandler reports process liveness and dependency readiness
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// databaseError distinguishes a broken pool handle from a failed ping so
// that /ready can name the actual problem.
func (h *HealthHandler) databaseError() (reason string, err error) {
	sqlDB, err := h.db.DB()
	if err != nil {
		return "database connection failed", err
	}
	if err := sqlDB.Ping(); err != nil {
		return "database ping failed", err
	}
	return "", nil
}

// Health handles GET /health. The overall status degrades to unhealthy
// (503) when any dependency check fails.
func (h *HealthHandler) Health(c echo.Context) error {
	dbState := "healthy"
	if _, err := h.databaseError(); err != nil {
		dbState = "unhealthy"
	}

	resp := HealthResponse{
		Status:   dbState,
		Services: map[string]string{"database": dbState},
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	if reason, err := h.databaseError(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": reason,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}
