// Package ocr provides the text extraction adapter over the external OCR
// service. The engine itself (tesseract behind an HTTP bridge in the default
// deployment) is a black box: images go in as data URIs, text comes out.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
)

// TextExtractor defines the interface for the OCR collaborator
type TextExtractor interface {
	// ExtractText submits an image data URI and returns the recognized
	// text. An empty string is a valid result (no text found).
	ExtractText(ctx context.Context, imageDataURI string) (string, error)
}

// Config holds configuration for the HTTP extractor
type Config struct {
	ServiceURL string        // OCR bridge endpoint
	Languages  string        // tesseract language spec, e.g. "eng+jpn"
	Timeout    time.Duration // per-request timeout (0 = 60s)
}

// extractRequest is the wire format sent to the OCR service
type extractRequest struct {
	Image     string `json:"image"`
	Languages string `json:"languages,omitempty"`
}

// extractResponse is the wire format returned by the OCR service
type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// httpExtractor implements TextExtractor over HTTP
type httpExtractor struct {
	config Config
	client *http.Client
}

// NewHTTPExtractor creates a TextExtractor talking to the configured
// OCR service endpoint
func NewHTTPExtractor(config Config) TextExtractor {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &httpExtractor{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

// ExtractText submits the image and returns the recognized text. Non-2xx
// responses surface the upstream error message when the service provides
// one, otherwise a status-derived message. No retries happen at this layer;
// the orchestrator handles failures per item.
func (e *httpExtractor) ExtractText(ctx context.Context, imageDataURI string) (string, error) {
	if !strings.HasPrefix(imageDataURI, "data:image") {
		return "", fmt.Errorf("%w: input is not an image data URI", apperrors.ErrInvalidInput)
	}

	body, err := json.Marshal(extractRequest{
		Image:     imageDataURI,
		Languages: e.config.Languages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.ServiceURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", apperrors.ErrExtractionFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the upstream error message when present
		var errResp extractResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("%w: %s", apperrors.ErrExtractionFailed, errResp.Error)
		}
		return "", fmt.Errorf("%w: OCR service returned status %d", apperrors.ErrExtractionFailed, resp.StatusCode)
	}

	var result extractResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", apperrors.ErrExtractionFailed, err)
	}

	return result.Text, nil
}
