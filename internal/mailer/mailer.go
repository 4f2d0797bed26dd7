// Package mailer sends client notification emails with the mail photos
// attached. Two providers are supported: the Resend HTTP API and plain
// SMTP with MIME composition.
package mailer

import "context"

// Attachment is one image file attached to a notification
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a fully addressed notification ready to send
type Message struct {
	To          string
	CC          []string
	Subject     string
	Notes       string
	Attachments []Attachment
}

// Mailer defines the interface for the outbound email provider
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
