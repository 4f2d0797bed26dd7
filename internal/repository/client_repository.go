package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/thedeck/mailroom-backend/internal/models"
	"gorm.io/gorm"
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	GetAll(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
}

// clientRepository implements ClientRepository using GORM
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new ClientRepository instance
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	result := r.db.WithContext(ctx).Create(client)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("client %q already exists: %w", client.Name, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create client: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a client by its ID, including current secondary emails
func (r *clientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	result := r.db.WithContext(ctx).First(&client, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", result.Error)
	}
	return &client, nil
}

// GetAll retrieves the full client roster ordered by ID ascending. The
// matcher depends on this ordering: matching is first-match-wins over the
// roster in this exact order.
func (r *clientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	result := r.db.WithContext(ctx).Order("id asc").Find(&clients)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list clients: %w", result.Error)
	}
	return clients, nil
}

// Update updates an existing client's name and contact emails
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	var existing models.Client
	if err := r.db.WithContext(ctx).First(&existing, client.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update client: %w", err)
	}

	existing.Name = client.Name
	existing.PrimaryEmail = client.PrimaryEmail
	existing.SecondaryEmails = client.SecondaryEmails

	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

// Delete deletes a client by its ID (cascade deletes mail records)
func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Client{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
