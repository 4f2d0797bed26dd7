package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/thedeck/mailroom-backend/internal/api/response"
	"github.com/thedeck/mailroom-backend/internal/audit"
	"github.com/thedeck/mailroom-backend/internal/models"
	"github.com/thedeck/mailroom-backend/internal/repository"
)

// MailHandler handles mail record HTTP requests
type MailHandler struct {
	mailRepo repository.MailRepository
	auditor  *audit.Recorder
}

// NewMailHandler creates a new MailHandler
func NewMailHandler(mailRepo repository.MailRepository, auditor *audit.Recorder) *MailHandler {
	return &MailHandler{
		mailRepo: mailRepo,
		auditor:  auditor,
	}
}

// List handles GET /api/mails
func (h *MailHandler) List(c echo.Context) error {
	clientIDStr := c.QueryParam("client_id")
	if clientIDStr == "" {
		return response.BadRequest(c, "client_id is required")
	}

	clientID, err := strconv.ParseUint(clientIDStr, 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid client_id")
	}

	limit := 20
	offset := 0
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	records, total, err := h.mailRepo.ListByClient(c.Request().Context(), uint(clientID), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list mail records")
	}

	return response.Paginated(c, records, total, limit, offset)
}

// Get handles GET /api/mails/:id
func (h *MailHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid mail record ID")
	}

	record, err := h.mailRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "mail record not found")
		}
		return response.InternalError(c, "failed to get mail record")
	}
	return response.Success(c, record)
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/mails/:id/status
func (h *MailHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid mail record ID")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.Status != models.MailStatusPending && req.Status != models.MailStatusNotified {
		return response.BadRequest(c, "status must be pending or notified")
	}

	if err := h.mailRepo.UpdateStatus(c.Request().Context(), uint(id), req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "mail record not found")
		}
		return response.InternalError(c, "failed to update mail status")
	}

	if h.auditor != nil {
		actor := actorFrom(c)
		h.auditor.Record(context.WithoutCancel(c.Request().Context()), actor.Email, actor.Name, audit.ActionUpdateMailStatus, map[string]interface{}{
			"mail_record_id": uint(id),
			"status":         req.Status,
		})
	}

	return response.Success(c, map[string]interface{}{
		"id":     uint(id),
		"status": req.Status,
	})
}

// Delete handles DELETE /api/mails/:id
func (h *MailHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid mail record ID")
	}

	if err := h.mailRepo.Delete(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "mail record not found")
		}
		return response.InternalError(c, "failed to delete mail record")
	}

	return response.NoContent(c)
}
