package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"

	"github.com/emersion/go-smtp"
	"github.com/jhillyerd/enmime"

	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
)

// SMTPConfig holds settings for the SMTP provider. No authentication is
// performed; the relay is expected to accept submissions from this host.
type SMTPConfig struct {
	Host string
	Port int
	From string // display form, e.g. "Mailroom <mail@example.com>"
}

// smtpMailer implements Mailer by composing a MIME message and handing it
// to an SMTP relay
type smtpMailer struct {
	config SMTPConfig
}

// NewSMTPMailer creates a Mailer backed by an SMTP relay
func NewSMTPMailer(config SMTPConfig) Mailer {
	return &smtpMailer{config: config}
}

// Send composes the notification as a multipart MIME message and submits
// it. The context only gates entry; the SMTP exchange itself is bounded by
// the library's defaults.
func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, err := mail.ParseAddress(m.config.From)
	if err != nil {
		return fmt.Errorf("invalid sender address %q: %w", m.config.From, err)
	}

	builder := enmime.Builder().
		From(from.Name, from.Address).
		To("", msg.To).
		Subject(msg.Subject).
		HTML([]byte(HTMLBody(msg)))

	rcpts := []string{msg.To}
	for _, cc := range msg.CC {
		builder = builder.CC("", cc)
		rcpts = append(rcpts, cc)
	}
	for _, att := range msg.Attachments {
		builder = builder.AddAttachment(att.Data, att.ContentType, att.Filename)
	}

	part, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build MIME message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode MIME message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	if err := smtp.SendMail(addr, nil, from.Address, rcpts, &buf); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrEmailSendFailed, err)
	}
	return nil
}
