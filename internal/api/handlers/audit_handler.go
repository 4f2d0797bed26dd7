package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thedeck/mailroom-backend/internal/api/response"
	"github.com/thedeck/mailroom-backend/internal/models"
	"github.com/thedeck/mailroom-backend/internal/repository"
)

// AuditHandler handles audit trail HTTP requests
type AuditHandler struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditRepo repository.AuditLogRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// CreateAuditRequest represents the request body for a manual audit entry
type CreateAuditRequest struct {
	Action string                 `json:"action"`
	Meta   map[string]interface{} `json:"meta"`
}

// Create handles POST /api/audits. Most entries are recorded server-side;
// this endpoint lets the review UI log actions that never reach another
// API, such as exports.
func (h *AuditHandler) Create(c echo.Context) error {
	var req CreateAuditRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Action) == "" {
		return response.BadRequest(c, "action is required")
	}

	actor := actorFrom(c)
	entry := &models.AuditLog{
		Email:    actor.Email,
		UserName: actor.Name,
		Action:   req.Action,
		Meta:     req.Meta,
	}
	if err := h.auditRepo.Create(c.Request().Context(), entry); err != nil {
		return response.InternalError(c, "failed to record audit entry")
	}
	return response.Created(c, entry)
}

// List handles GET /api/audits
func (h *AuditHandler) List(c echo.Context) error {
	limit := 100
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.auditRepo.List(c.Request().Context(), limit)
	if err != nil {
		return response.InternalError(c, "failed to list audit logs")
	}
	return response.Success(c, entries)
}

// Cleanup handles DELETE /api/audits. Entries older than the given number
// of days are removed; the default retention window is 90 days.
func (h *AuditHandler) Cleanup(c echo.Context) error {
	days := 90
	if d := c.QueryParam("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			return response.BadRequest(c, "days must be a positive integer")
		}
		days = parsed
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := h.auditRepo.DeleteOlderThan(c.Request().Context(), cutoff)
	if err != nil {
		return response.InternalError(c, "failed to clean up audit logs")
	}

	return response.Success(c, map[string]interface{}{
		"removed": removed,
		"cutoff":  cutoff,
	})
}
