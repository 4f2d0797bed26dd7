package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/thedeck/mailroom-backend/internal/models"
	"gorm.io/gorm"
)

// AuditLogRepository defines the interface for audit log data access
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, limit int) ([]models.AuditLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// auditLogRepository implements AuditLogRepository using GORM
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository instance
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create writes a new audit log entry
func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to create audit log: %w", result.Error)
	}
	return nil
}

// List retrieves the most recent audit log entries, newest first
func (r *auditLogRepository) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []models.AuditLog
	result := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", result.Error)
	}
	return entries, nil
}

// DeleteOlderThan removes audit log entries created before the cutoff and
// returns the number of rows removed
func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up audit logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
