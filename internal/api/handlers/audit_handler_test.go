package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/thedeck/mailroom-backend/internal/audit"
	"github.com/thedeck/mailroom-backend/internal/models"
	"github.com/thedeck/mailroom-backend/tests/mocks"
)

// AuditHandlerTestSuite is the test suite for AuditHandler
type AuditHandlerTestSuite struct {
	suite.Suite
	echo          *echo.Echo
	handler       *AuditHandler
	mockAuditRepo *mocks.MockAuditLogRepository
}

// SetupTest runs before each test
func (s *AuditHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockAuditRepo = new(mocks.MockAuditLogRepository)
	s.handler = NewAuditHandler(s.mockAuditRepo)
}

// TearDownTest runs after each test
func (s *AuditHandlerTestSuite) TearDownTest() {
	s.mockAuditRepo.AssertExpectations(s.T())
}

// TestAuditHandlerTestSuite runs the test suite
func TestAuditHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerTestSuite))
}

func (s *AuditHandlerTestSuite) createContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

func (s *AuditHandlerTestSuite) createJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

// ==================== Create Tests ====================

func (s *AuditHandlerTestSuite) TestCreate_Success() {
	// Arrange
	s.mockAuditRepo.On("Create", mock.Anything, mock.MatchedBy(func(entry *models.AuditLog) bool {
		return entry.Action == "EXPORT_CSV" && entry.Email == "staff@thedeck.example"
	})).Return(nil).Once()

	c, rec := s.createJSONContext(http.MethodPost, "/api/audits", `{"action": "EXPORT_CSV", "meta": {"rows": 12}}`)
	c.Request().Header.Set("X-Operator-Email", "staff@thedeck.example")

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *AuditHandlerTestSuite) TestCreate_MissingAction() {
	// Arrange
	c, rec := s.createJSONContext(http.MethodPost, "/api/audits", `{"action": "  "}`)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// ==================== List Tests ====================

func (s *AuditHandlerTestSuite) TestList_DefaultLimit() {
	// Arrange
	entries := []models.AuditLog{
		{ID: 1, Email: "staff@thedeck.example", Action: audit.ActionSendEmail},
	}
	s.mockAuditRepo.On("List", mock.Anything, 100).Return(entries, nil)

	c, rec := s.createContext(http.MethodGet, "/api/audits")

	// Act
	err := s.handler.List(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    []models.AuditLog `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Success)
	s.Len(resp.Data, 1)
	s.Equal(audit.ActionSendEmail, resp.Data[0].Action)
}

func (s *AuditHandlerTestSuite) TestList_CustomLimit() {
	// Arrange
	s.mockAuditRepo.On("List", mock.Anything, 10).Return([]models.AuditLog{}, nil)

	c, rec := s.createContext(http.MethodGet, "/api/audits?limit=10")

	// Act
	err := s.handler.List(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuditHandlerTestSuite) TestList_InvalidLimitFallsBack() {
	// Arrange
	s.mockAuditRepo.On("List", mock.Anything, 100).Return([]models.AuditLog{}, nil)

	c, rec := s.createContext(http.MethodGet, "/api/audits?limit=-5")

	// Act
	err := s.handler.List(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

// ==================== Cleanup Tests ====================

func (s *AuditHandlerTestSuite) TestCleanup_DefaultRetention() {
	// Arrange: default cutoff is 90 days back
	s.mockAuditRepo.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().AddDate(0, 0, -90)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(3), nil)

	c, rec := s.createContext(http.MethodDelete, "/api/audits")

	// Act
	err := s.handler.Cleanup(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Removed int64 `json:"removed"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(int64(3), resp.Data.Removed)
}

func (s *AuditHandlerTestSuite) TestCleanup_CustomRetention() {
	// Arrange
	s.mockAuditRepo.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().AddDate(0, 0, -30)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(0), nil)

	c, rec := s.createContext(http.MethodDelete, "/api/audits?days=30")

	// Act
	err := s.handler.Cleanup(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuditHandlerTestSuite) TestCleanup_InvalidDays() {
	// Arrange
	c, rec := s.createContext(http.MethodDelete, "/api/audits?days=0")

	// Act
	err := s.handler.Cleanup(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}
