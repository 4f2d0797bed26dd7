// Package services implements the dispatch workflow: turning reviewed
// intake groups into persisted mail records and outbound notification
// emails.
package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thedeck/mailroom-backend/internal/audit"
	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
	"github.com/thedeck/mailroom-backend/internal/images"
	"github.com/thedeck/mailroom-backend/internal/intake"
	"github.com/thedeck/mailroom-backend/internal/mailer"
	"github.com/thedeck/mailroom-backend/internal/models"
	"github.com/thedeck/mailroom-backend/internal/repository"
	"github.com/thedeck/mailroom-backend/internal/storage"
)

// EventSink receives dispatch outcome events, typically the websocket hub
type EventSink interface {
	DispatchResult(clientID uint, success bool, errMsg string)
}

// nopSink discards events
type nopSink struct{}

func (nopSink) DispatchResult(clientID uint, success bool, errMsg string) {}

// Actor identifies the operator performing a dispatch, for the audit trail
type Actor struct {
	Email string
	Name  string
}

// Receipt summarizes one successful client dispatch
type Receipt struct {
	ClientID     uint     `json:"client_id"`
	MailRecordID uint     `json:"mail_record_id"`
	Recipient    string   `json:"recipient"`
	CC           []string `json:"cc,omitempty"`
	Attachments  int      `json:"attachments"`
}

// Outcome is one entry of a bulk dispatch report
type Outcome struct {
	ClientID uint     `json:"client_id"`
	Success  bool     `json:"success"`
	Receipt  *Receipt `json:"receipt,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// BulkReport summarizes a dispatch-all run
type BulkReport struct {
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// DispatchCoordinator sends one client's reviewed mail: it persists the
// record, addresses the notification from the client's current roster
// entry and delivers the email with the photos attached.
type DispatchCoordinator struct {
	store   *intake.Store
	clients repository.ClientRepository
	mails   repository.MailRepository
	files   storage.FileStorage
	mailer  mailer.Mailer
	auditor *audit.Recorder
	events  EventSink
	subject string
	delay   time.Duration
	logger  *slog.Logger
}

// NewDispatchCoordinator creates a DispatchCoordinator. A nil events sink
// falls back to a no-op.
func NewDispatchCoordinator(
	store *intake.Store,
	clients repository.ClientRepository,
	mails repository.MailRepository,
	files storage.FileStorage,
	m mailer.Mailer,
	auditor *audit.Recorder,
	events EventSink,
	subject string,
	delay time.Duration,
	logger *slog.Logger,
) *DispatchCoordinator {
	if events == nil {
		events = nopSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatchCoordinator{
		store:   store,
		clients: clients,
		mails:   mails,
		files:   files,
		mailer:  m,
		auditor: auditor,
		events:  events,
		subject: subject,
		delay:   delay,
		logger:  logger,
	}
}

// DispatchGroup sends the undispatched items assigned to one client. The
// order is fixed: persist the mail record first, then fetch the client
// fresh from the roster, then send the email. A failure at any step leaves
// the group unsent so the operator can retry. silent suppresses the
// per-dispatch event; bulk runs report outcomes themselves.
func (c *DispatchCoordinator) DispatchGroup(ctx context.Context, clientID uint, confirmed, silent bool, actor Actor) (*Receipt, error) {
	if !confirmed {
		return nil, apperrors.ErrConfirmationRequired
	}

	items := c.store.UnsentAssignedItems(clientID)
	if len(items) == 0 {
		return nil, apperrors.ErrNoImagesAssigned
	}

	key := intake.GroupKeyFor(&clientID)
	var notes string
	if g, ok := c.store.GroupByKey(key); ok {
		notes = g.Notes
	}

	attachments := make([]mailer.Attachment, 0, len(items))
	imageURLs := make([]string, 0, len(items))
	for _, it := range items {
		data, filename := it.AttachmentData()
		path, err := c.files.Save(filename, bytes.NewReader(data))
		if err != nil {
			return nil, c.fail(apperrors.StepPersist, clientID, err, silent)
		}
		imageURLs = append(imageURLs, path)
		attachments = append(attachments, mailer.Attachment{
			Filename:    filename,
			ContentType: images.SniffContentType(filename),
			Data:        data,
		})
	}

	record := &models.MailRecord{
		ClientID:  clientID,
		ImageURLs: imageURLs,
		Notes:     notes,
		Status:    models.MailStatusPending,
		Urgency:   1,
	}
	if err := c.mails.Create(ctx, record); err != nil {
		return nil, c.fail(apperrors.StepPersist, clientID, err, silent)
	}

	// The roster entry is fetched fresh at send time: an email edited
	// after the items were matched must win over anything cached.
	client, err := c.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = apperrors.ErrClientNotFound
		}
		return nil, c.fail(apperrors.StepFetchClient, clientID, err, silent)
	}

	cc := dedupeCC(client.PrimaryEmail, client.SecondaryEmails)

	msg := mailer.Message{
		To:          client.PrimaryEmail,
		CC:          cc,
		Subject:     c.subject,
		Notes:       notes,
		Attachments: attachments,
	}
	if err := c.mailer.Send(ctx, msg); err != nil {
		return nil, c.fail(apperrors.StepSendEmail, clientID, err, silent)
	}

	if err := c.mails.UpdateStatus(ctx, record.ID, models.MailStatusNotified); err != nil {
		c.logger.Error("failed to mark mail record notified",
			slog.Uint64("mail_record_id", uint64(record.ID)),
			slog.String("error", err.Error()))
	}

	c.store.MarkSent(clientID)

	c.auditor.Record(ctx, actor.Email, actor.Name, audit.ActionSendEmail, map[string]interface{}{
		"client_id":      clientID,
		"client_name":    client.Name,
		"mail_record_id": record.ID,
		"attachments":    len(attachments),
	})

	if !silent {
		c.events.DispatchResult(clientID, true, "")
	}

	c.logger.Info("mail dispatched",
		slog.Uint64("client_id", uint64(clientID)),
		slog.String("recipient", client.PrimaryEmail),
		slog.Int("attachments", len(attachments)))

	return &Receipt{
		ClientID:     clientID,
		MailRecordID: record.ID,
		Recipient:    client.PrimaryEmail,
		CC:           cc,
		Attachments:  len(attachments),
	}, nil
}

// DispatchAll sends every eligible group sequentially. The run is gated on
// a fully assigned session: any unassigned item aborts before the first
// send. Failures do not stop the run; each group's outcome lands in the
// report and on the event sink.
func (c *DispatchCoordinator) DispatchAll(ctx context.Context, confirmed bool, actor Actor) (*BulkReport, error) {
	if !confirmed {
		return nil, apperrors.ErrConfirmationRequired
	}
	if c.store.HasUnassigned() {
		return nil, apperrors.ErrUnassignedItems
	}

	clientIDs := c.store.EligibleClientIDs()
	if len(clientIDs) == 0 {
		return nil, apperrors.ErrNothingToDispatch
	}

	report := &BulkReport{Total: len(clientIDs)}
	for i, clientID := range clientIDs {
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		receipt, err := c.DispatchGroup(ctx, clientID, true, true, actor)
		if err != nil {
			report.Failed++
			report.Outcomes = append(report.Outcomes, Outcome{
				ClientID: clientID,
				Error:    err.Error(),
			})
			c.events.DispatchResult(clientID, false, err.Error())
			continue
		}

		report.Succeeded++
		report.Outcomes = append(report.Outcomes, Outcome{
			ClientID: clientID,
			Success:  true,
			Receipt:  receipt,
		})
		c.events.DispatchResult(clientID, true, "")
	}

	c.logger.Info("bulk dispatch finished",
		slog.Int("total", report.Total),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed))

	return report, nil
}

// fail wraps a step failure and reports it on the event sink
func (c *DispatchCoordinator) fail(step string, clientID uint, err error, silent bool) error {
	dispatchErr := apperrors.NewDispatchError(step, clientID, err)
	c.logger.Error("dispatch failed",
		slog.Uint64("client_id", uint64(clientID)),
		slog.String("step", step),
		slog.String("error", dispatchErr.Message))
	if !silent {
		c.events.DispatchResult(clientID, false, dispatchErr.Message)
	}
	return dispatchErr
}

// dedupeCC filters the CC list: duplicates and the primary recipient are
// dropped, first appearance wins
func dedupeCC(primary string, secondary []string) []string {
	seen := map[string]bool{primary: true}
	var out []string
	for _, addr := range secondary {
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}
