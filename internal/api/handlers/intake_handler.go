package handlers

import (
	"errors"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/thedeck/mailroom-backend/internal/api/response"
	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
	"github.com/thedeck/mailroom-backend/internal/intake"
	"github.com/thedeck/mailroom-backend/internal/repository"
	"github.com/thedeck/mailroom-backend/internal/storage"
	"github.com/thedeck/mailroom-backend/internal/validator"
)

// IntakeHandler handles the intake session HTTP requests: uploads, batch
// processing, review assignments and the image viewer
type IntakeHandler struct {
	store        *intake.Store
	orchestrator *intake.Orchestrator
	clientRepo   repository.ClientRepository
}

// NewIntakeHandler creates a new IntakeHandler
func NewIntakeHandler(store *intake.Store, orchestrator *intake.Orchestrator, clientRepo repository.ClientRepository) *IntakeHandler {
	return &IntakeHandler{
		store:        store,
		orchestrator: orchestrator,
		clientRepo:   clientRepo,
	}
}

// ItemView is the wire representation of one intake item
type ItemView struct {
	ID               string  `json:"id"`
	Filename         string  `json:"filename"`
	Preview          string  `json:"preview"`
	Processed        bool    `json:"processed"`
	ExtractedText    *string `json:"extracted_text,omitempty"`
	AssignedClientID *uint   `json:"assigned_client_id,omitempty"`
	Sent             bool    `json:"sent"`
}

func itemView(it intake.MailItem) ItemView {
	return ItemView{
		ID:               it.ID,
		Filename:         it.Filename,
		Preview:          it.PreviewRef(),
		Processed:        it.Processed(),
		ExtractedText:    it.ExtractedText,
		AssignedClientID: it.AssignedClientID,
		Sent:             it.Sent,
	}
}

func itemViews(items []intake.MailItem) []ItemView {
	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = itemView(it)
	}
	return views
}

// Upload handles POST /api/intake/images. Accepts multipart form uploads
// under the "images" field; every file is validated before any is added,
// so a bad file rejects the whole request.
func (h *IntakeHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "invalid multipart form")
	}

	files := form.File["images"]
	if len(files) == 0 {
		return response.BadRequest(c, "no images uploaded")
	}

	for _, fh := range files {
		if err := storage.ValidateImage(fh.Filename, fh.Size); err != nil {
			return response.BadRequest(c, err.Error())
		}
	}

	added := make([]ItemView, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return response.InternalError(c, "failed to read upload")
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return response.InternalError(c, "failed to read upload")
		}

		item := h.store.Add(fh.Filename, data)
		added = append(added, itemView(item))
	}

	return response.Created(c, added)
}

// ListItems handles GET /api/intake/items
func (h *IntakeHandler) ListItems(c echo.Context) error {
	return response.Success(c, itemViews(h.store.Items()))
}

// Process handles POST /api/intake/process
func (h *IntakeHandler) Process(c echo.Context) error {
	status, err := h.orchestrator.ProcessAll(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, status)
}

// Status handles GET /api/intake/status
func (h *IntakeHandler) Status(c echo.Context) error {
	return response.Success(c, h.orchestrator.Status())
}

// AssignRequest represents the request body for reassigning an item.
// A null client_id moves the item to the unassigned bucket.
type AssignRequest struct {
	ClientID *uint `json:"client_id"`
}

// Assign handles PATCH /api/intake/items/:id/assignment
func (h *IntakeHandler) Assign(c echo.Context) error {
	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.ClientID != nil {
		if _, err := h.clientRepo.GetByID(c.Request().Context(), *req.ClientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return response.NotFound(c, "client not found")
			}
			return response.InternalError(c, "failed to verify client")
		}
	}

	if err := h.store.Reassign(c.Param("id"), req.ClientID); err != nil {
		return response.Error(c, err)
	}

	item, _ := h.store.Get(c.Param("id"))
	return response.Success(c, itemView(item))
}

// RemoveItem handles DELETE /api/intake/items/:id
func (h *IntakeHandler) RemoveItem(c echo.Context) error {
	if err := h.store.Remove(c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// Clear handles DELETE /api/intake/items
func (h *IntakeHandler) Clear(c echo.Context) error {
	h.store.Clear()
	return response.NoContent(c)
}

// ListGroups handles GET /api/intake/groups
func (h *IntakeHandler) ListGroups(c echo.Context) error {
	return response.Success(c, h.store.Groups())
}

// NotesRequest represents the request body for setting group notes
type NotesRequest struct {
	Notes string `json:"notes"`
}

// SetNotes handles PUT /api/intake/groups/:key/notes. Setting notes on an
// unknown bucket succeeds without effect, matching the additive group
// lifecycle.
func (h *IntakeHandler) SetNotes(c echo.Context) error {
	var req NotesRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := validator.ValidateNotes(req.Notes); err != nil {
		return response.BadRequest(c, err.Error())
	}

	h.store.SetNotes(c.Param("key"), req.Notes)
	return response.Success(c, map[string]string{
		"key":   c.Param("key"),
		"notes": req.Notes,
	})
}

// ViewerOpenRequest represents the request body for opening the viewer
type ViewerOpenRequest struct {
	ItemID string `json:"item_id"`
}

// ViewerState is the wire representation of the viewer cursor
type ViewerState struct {
	Open  bool      `json:"open"`
	Index int       `json:"index"`
	Total int       `json:"total"`
	Item  *ItemView `json:"item,omitempty"`
}

// OpenViewer handles POST /api/intake/viewer/open
func (h *IntakeHandler) OpenViewer(c echo.Context) error {
	var req ViewerOpenRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := h.store.OpenViewer(req.ItemID); err != nil {
		return response.Error(c, err)
	}
	return h.Viewer(c)
}

// CloseViewer handles DELETE /api/intake/viewer
func (h *IntakeHandler) CloseViewer(c echo.Context) error {
	h.store.CloseViewer()
	return response.NoContent(c)
}

// Viewer handles GET /api/intake/viewer
func (h *IntakeHandler) Viewer(c echo.Context) error {
	item, idx, ok := h.store.Cursor()
	if !ok {
		return response.Success(c, ViewerState{Open: false, Index: -1, Total: h.store.Len()})
	}
	view := itemView(item)
	return response.Success(c, ViewerState{Open: true, Index: idx, Total: h.store.Len(), Item: &view})
}

// NextItem handles POST /api/intake/viewer/next
func (h *IntakeHandler) NextItem(c echo.Context) error {
	if _, ok := h.store.NextItem(); !ok {
		return response.Error(c, apperrors.ErrItemNotFound)
	}
	return h.Viewer(c)
}

// PrevItem handles POST /api/intake/viewer/prev
func (h *IntakeHandler) PrevItem(c echo.Context) error {
	if _, ok := h.store.PrevItem(); !ok {
		return response.Error(c, apperrors.ErrItemNotFound)
	}
	return h.Viewer(c)
}
