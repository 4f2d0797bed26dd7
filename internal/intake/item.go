// Package intake holds the in-process state of an intake session: the
// uploaded mail items, their processing results, and the per-client review
// groups derived from them.
package intake

import (
	"github.com/google/uuid"

	"github.com/thedeck/mailroom-backend/internal/images"
)

// MailItem is one uploaded piece of mail tracked through the pipeline.
// Fields are filled in as the item moves through normalization, extraction
// and matching; they are added, never removed.
type MailItem struct {
	ID              string             `json:"id"`
	Filename        string             `json:"filename"`
	OriginalData    []byte             `json:"-"`
	OriginalPreview string             `json:"original_preview"`
	Normalized      *images.Normalized `json:"normalized,omitempty"`
	// ExtractedText is nil until extraction completes. An empty string is
	// a valid completed result (no text found).
	ExtractedText    *string `json:"extracted_text,omitempty"`
	AssignedClientID *uint   `json:"assigned_client_id,omitempty"`
	Sent             bool    `json:"sent"`
}

// newMailItem creates a MailItem for a freshly uploaded image
func newMailItem(filename string, data []byte) MailItem {
	return MailItem{
		ID:              uuid.New().String(),
		Filename:        filename,
		OriginalData:    data,
		OriginalPreview: images.DataURI(images.SniffContentType(filename), data),
	}
}

// Processed reports whether the item has completed text extraction
func (it MailItem) Processed() bool {
	return it.ExtractedText != nil
}

// DispatchEligible reports whether the item can be included in a dispatch
func (it MailItem) DispatchEligible() bool {
	return it.AssignedClientID != nil && !it.Sent
}

// AttachmentData returns the bytes and filename to attach when dispatching:
// the normalized rendition when available, otherwise the original upload
func (it MailItem) AttachmentData() ([]byte, string) {
	if it.Normalized != nil {
		return it.Normalized.Data, it.Normalized.Filename
	}
	return it.OriginalData, it.Filename
}

// PreviewRef returns the display preview reference for the item
func (it MailItem) PreviewRef() string {
	if it.Normalized != nil {
		return it.Normalized.Preview
	}
	return it.OriginalPreview
}
