package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/thedeck/mailroom-backend/internal/models"
	"gorm.io/gorm"
)

// MailRepository defines the interface for mail record data access
type MailRepository interface {
	Create(ctx context.Context, record *models.MailRecord) error
	GetByID(ctx context.Context, id uint) (*models.MailRecord, error)
	ListByClient(ctx context.Context, clientID uint, limit, offset int) ([]models.MailRecord, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

// mailRepository implements MailRepository using GORM
type mailRepository struct {
	db *gorm.DB
}

// NewMailRepository creates a new MailRepository instance
func NewMailRepository(db *gorm.DB) MailRepository {
	return &mailRepository{db: db}
}

// Create persists a new mail record
func (r *mailRepository) Create(ctx context.Context, record *models.MailRecord) error {
	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		return fmt.Errorf("failed to create mail record: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a mail record by its ID
func (r *mailRepository) GetByID(ctx context.Context, id uint) (*models.MailRecord, error) {
	var record models.MailRecord
	result := r.db.WithContext(ctx).First(&record, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mail record by ID: %w", result.Error)
	}
	return &record, nil
}

// ListByClient retrieves mail records for a client with pagination, ordered
// by received_at descending
func (r *mailRepository) ListByClient(ctx context.Context, clientID uint, limit, offset int) ([]models.MailRecord, int64, error) {
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.MailRecord{}).Where("client_id = ?", clientID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count mail records: %w", err)
	}

	var records []models.MailRecord
	result := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("received_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list mail records: %w", result.Error)
	}

	return records, total, nil
}

// UpdateStatus updates the status field of a mail record
func (r *mailRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.MailRecord{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update mail status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a mail record by its ID
func (r *mailRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MailRecord{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete mail record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
