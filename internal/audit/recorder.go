// Package audit records operator actions to the audit trail.
package audit

import (
	"context"
	"log/slog"

	"github.com/thedeck/mailroom-backend/internal/models"
	"github.com/thedeck/mailroom-backend/internal/repository"
)

// Audited actions
const (
	ActionSendEmail        = "SEND_EMAIL"
	ActionAddClient        = "ADD_CLIENT"
	ActionEditClient       = "EDIT_CLIENT"
	ActionDeleteClient     = "DELETE_CLIENT"
	ActionUpdateMailStatus = "UPDATE_MAIL_STATUS"
)

// Recorder writes audit entries. Recording never fails the operation being
// audited: persistence errors are logged and swallowed.
type Recorder struct {
	repo   repository.AuditLogRepository
	logger *slog.Logger
}

// NewRecorder creates a Recorder
func NewRecorder(repo repository.AuditLogRepository, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger}
}

// Record persists one audit entry. meta may be nil.
func (r *Recorder) Record(ctx context.Context, email, userName, action string, meta map[string]interface{}) {
	entry := &models.AuditLog{
		Email:    email,
		UserName: userName,
		Action:   action,
		Meta:     meta,
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("failed to record audit entry",
			slog.String("action", action),
			slog.String("email", email),
			slog.String("error", err.Error()))
	}
}
