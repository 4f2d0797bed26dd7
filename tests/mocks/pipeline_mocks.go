package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/thedeck/mailroom-backend/internal/mailer"
)

// MockTextExtractor implements ocr.TextExtractor
type MockTextExtractor struct {
	mock.Mock
}

// ExtractText submits an image data URI and returns recognized text
func (m *MockTextExtractor) ExtractText(ctx context.Context, imageDataURI string) (string, error) {
	args := m.Called(ctx, imageDataURI)
	return args.String(0), args.Error(1)
}

// MockMailer implements mailer.Mailer and records every message sent
type MockMailer struct {
	mock.Mock

	mu   sync.Mutex
	sent []mailer.Message
}

// Send delivers a message
func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.sent = append(m.sent, msg)
		m.mu.Unlock()
	}
	return args.Error(0)
}

// Sent returns the messages delivered so far
func (m *MockMailer) Sent() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mailer.Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// MockFileStorage implements storage.FileStorage
type MockFileStorage struct {
	mock.Mock
}

// Save stores a file and returns its path
func (m *MockFileStorage) Save(filename string, content io.Reader) (string, error) {
	args := m.Called(filename, content)
	return args.String(0), args.Error(1)
}

// Get retrieves a file by its path
func (m *MockFileStorage) Get(filePath string) (io.ReadCloser, error) {
	args := m.Called(filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Delete removes a file by its path
func (m *MockFileStorage) Delete(filePath string) error {
	args := m.Called(filePath)
	return args.Error(0)
}

// RecordingEventSink implements services.EventSink and records events
type RecordingEventSink struct {
	mu      sync.Mutex
	results []DispatchEvent
}

// DispatchEvent is one recorded dispatch outcome event
type DispatchEvent struct {
	ClientID uint
	Success  bool
	Error    string
}

// DispatchResult records a dispatch outcome
func (s *RecordingEventSink) DispatchResult(clientID uint, success bool, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, DispatchEvent{ClientID: clientID, Success: success, Error: errMsg})
}

// Events returns the recorded events
func (s *RecordingEventSink) Events() []DispatchEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DispatchEvent, len(s.results))
	copy(out, s.results)
	return out
}
