package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
)

const defaultResendBaseURL = "https://api.resend.com"

// ResendConfig holds settings for the Resend API provider
type ResendConfig struct {
	APIKey  string
	BaseURL string // defaults to the public Resend endpoint
	From    string
	Timeout time.Duration
}

// resendMailer implements Mailer over the Resend HTTP API
type resendMailer struct {
	config ResendConfig
	client *http.Client
}

// NewResendMailer creates a Mailer backed by the Resend API
func NewResendMailer(config ResendConfig) Mailer {
	if config.BaseURL == "" {
		config.BaseURL = defaultResendBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &resendMailer{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

// resendAttachment is the Resend wire format for one attachment
type resendAttachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

// resendRequest is the Resend send-email payload
type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	CC          []string           `json:"cc,omitempty"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

// resendError is the Resend error response shape
type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send delivers the message through the Resend API. CC recipients are
// omitted from the payload entirely when the list is empty.
func (m *resendMailer) Send(ctx context.Context, msg Message) error {
	payload := resendRequest{
		From:    m.config.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    HTMLBody(msg),
	}
	if len(msg.CC) > 0 {
		payload.CC = msg.CC
	}
	for _, att := range msg.Attachments {
		payload.Attachments = append(payload.Attachments, resendAttachment{
			Filename:    att.Filename,
			Content:     base64.StdEncoding.EncodeToString(att.Data),
			ContentType: att.ContentType,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrEmailSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr resendError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%w: %s", apperrors.ErrEmailSendFailed, apiErr.Message)
		}
		return fmt.Errorf("%w: provider returned status %d", apperrors.ErrEmailSendFailed, resp.StatusCode)
	}
	return nil
}
