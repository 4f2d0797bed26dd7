package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/thedeck/mailroom-backend/internal/models"
)

// MockClientRepository implements repository.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

// Create creates a new client
func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// GetByID retrieves a client by its ID
func (m *MockClientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

// GetAll retrieves the full client roster
func (m *MockClientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}

// Update updates an existing client
func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// Delete deletes a client by its ID
func (m *MockClientRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMailRepository implements repository.MailRepository
type MockMailRepository struct {
	mock.Mock
}

// Create persists a new mail record
func (m *MockMailRepository) Create(ctx context.Context, record *models.MailRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// GetByID retrieves a mail record by its ID
func (m *MockMailRepository) GetByID(ctx context.Context, id uint) (*models.MailRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MailRecord), args.Error(1)
}

// ListByClient retrieves mail records for a client
func (m *MockMailRepository) ListByClient(ctx context.Context, clientID uint, limit, offset int) ([]models.MailRecord, int64, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.MailRecord), args.Get(1).(int64), args.Error(2)
}

// UpdateStatus updates the status of a mail record
func (m *MockMailRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// Delete deletes a mail record by its ID
func (m *MockMailRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditLogRepository implements repository.AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

// Create writes a new audit log entry
func (m *MockAuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// List retrieves the most recent audit log entries
func (m *MockAuditLogRepository) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

// DeleteOlderThan removes audit log entries created before the cutoff
func (m *MockAuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
