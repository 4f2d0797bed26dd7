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
	"github.com/thedeck/mailroom-backend/internal/validator"
)

// ClientHandler handles client roster HTTP requests
type ClientHandler struct {
	clientRepo repository.ClientRepository
	mailRepo   repository.MailRepository
	auditor    *audit.Recorder
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientRepo repository.ClientRepository, mailRepo repository.MailRepository, auditor *audit.Recorder) *ClientHandler {
	return &ClientHandler{
		clientRepo: clientRepo,
		mailRepo:   mailRepo,
		auditor:    auditor,
	}
}

// ClientRequest represents the request body for creating or updating a client
type ClientRequest struct {
	Name            string   `json:"name"`
	PrimaryEmail    string   `json:"primary_email"`
	SecondaryEmails []string `json:"secondary_emails"`
}

// validate checks the request fields
func (r *ClientRequest) validate() error {
	if err := validator.ValidateClientName(r.Name); err != nil {
		return err
	}
	if err := validator.ValidateEmail(r.PrimaryEmail); err != nil {
		return err
	}
	return validator.ValidateEmails(r.SecondaryEmails)
}

// Create handles POST /api/clients
func (h *ClientHandler) Create(c echo.Context) error {
	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return response.BadRequest(c, err.Error())
	}

	client := &models.Client{
		Name:            req.Name,
		PrimaryEmail:    req.PrimaryEmail,
		SecondaryEmails: req.SecondaryEmails,
	}

	if err := h.clientRepo.Create(c.Request().Context(), client); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return response.Conflict(c, "client already exists")
		}
		return response.InternalError(c, "failed to create client")
	}

	h.recordAudit(c, audit.ActionAddClient, client)

	return response.Created(c, client)
}

// List handles GET /api/clients
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.clientRepo.GetAll(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to list clients")
	}
	return response.Success(c, clients)
}

// Get handles GET /api/clients/:id
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid client ID")
	}

	client, err := h.clientRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "client not found")
		}
		return response.InternalError(c, "failed to get client")
	}
	return response.Success(c, client)
}

// Update handles PUT /api/clients/:id
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid client ID")
	}

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return response.BadRequest(c, err.Error())
	}

	client := &models.Client{
		ID:              uint(id),
		Name:            req.Name,
		PrimaryEmail:    req.PrimaryEmail,
		SecondaryEmails: req.SecondaryEmails,
	}

	if err := h.clientRepo.Update(c.Request().Context(), client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "client not found")
		}
		return response.InternalError(c, "failed to update client")
	}

	h.recordAudit(c, audit.ActionEditClient, client)

	return response.Success(c, client)
}

// Delete handles DELETE /api/clients/:id
func (h *ClientHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid client ID")
	}

	client, err := h.clientRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "client not found")
		}
		return response.InternalError(c, "failed to get client")
	}

	if err := h.clientRepo.Delete(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "client not found")
		}
		return response.InternalError(c, "failed to delete client")
	}

	h.recordAudit(c, audit.ActionDeleteClient, client)

	return response.NoContent(c)
}

// ListMail handles GET /api/clients/:id/mails
func (h *ClientHandler) ListMail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid client ID")
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

	records, total, err := h.mailRepo.ListByClient(c.Request().Context(), uint(id), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list mail records")
	}

	return response.Paginated(c, records, total, limit, offset)
}

// recordAudit writes a roster change to the audit trail
func (h *ClientHandler) recordAudit(c echo.Context, action string, client *models.Client) {
	if h.auditor == nil {
		return
	}
	actor := actorFrom(c)
	h.auditor.Record(context.WithoutCancel(c.Request().Context()), actor.Email, actor.Name, action, map[string]interface{}{
		"client_id":   client.ID,
		"client_name": client.Name,
	})
}
