package intake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/thedeck/mailroom-backend/internal/images"
	"github.com/thedeck/mailroom-backend/internal/matcher"
	"github.com/thedeck/mailroom-backend/internal/ocr"
	"github.com/thedeck/mailroom-backend/internal/repository"
)

// ProgressNotifier receives batch processing events, typically fanned out
// to connected review clients over websocket
type ProgressNotifier interface {
	BatchProgress(processed, total int)
	BatchComplete(total int)
}

// NopNotifier discards all events
type NopNotifier struct{}

func (NopNotifier) BatchProgress(processed, total int) {}
func (NopNotifier) BatchComplete(total int)            {}

// BatchStatus summarizes a processing run
type BatchStatus struct {
	Total     int  `json:"total"`
	Processed int  `json:"processed"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	Skipped   int  `json:"skipped"`
	Complete  bool `json:"complete"`
}

// Orchestrator runs the intake pipeline over the session's items:
// normalization, text extraction and client matching, fanned out per item.
type Orchestrator struct {
	store      *Store
	normalizer *images.Normalizer
	extractor  ocr.TextExtractor
	clients    repository.ClientRepository
	notifier   ProgressNotifier
	logger     *slog.Logger
}

// NewOrchestrator creates an Orchestrator. A nil notifier falls back to
// NopNotifier.
func NewOrchestrator(
	store *Store,
	normalizer *images.Normalizer,
	extractor ocr.TextExtractor,
	clients repository.ClientRepository,
	notifier ProgressNotifier,
	logger *slog.Logger,
) *Orchestrator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:      store,
		normalizer: normalizer,
		extractor:  extractor,
		clients:    clients,
		notifier:   notifier,
		logger:     logger,
	}
}

// itemResult carries one item's pipeline output back to the commit
type itemResult struct {
	normalized *images.Normalized
	text       string
	clientID   *uint
}

// ProcessAll runs the pipeline over every item that has not already been
// matched. Items that carry both extracted text and an assignment are
// skipped, so re-triggering after adding more uploads only processes the
// new ones. Failures are isolated per item: a bad image or a failed
// extraction logs a warning and leaves that item unprocessed while the
// rest continue. All results land in a single commit merged against the
// latest store state, so assignments made by a reviewer while the batch
// was running are preserved.
func (o *Orchestrator) ProcessAll(ctx context.Context) (*BatchStatus, error) {
	items := o.store.Items()
	status := &BatchStatus{Total: len(items)}
	if len(items) == 0 {
		return status, nil
	}

	roster, err := o.clients.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load client roster: %w", err)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]itemResult)
		done    atomic.Int64
	)
	total := len(items)

	for _, item := range items {
		if item.Processed() && item.AssignedClientID != nil {
			status.Skipped++
			n := int(done.Add(1))
			o.notifier.BatchProgress(n, total)
			continue
		}

		wg.Add(1)
		go func(it MailItem) {
			defer wg.Done()
			defer func() {
				n := int(done.Add(1))
				o.notifier.BatchProgress(n, total)
			}()

			norm, err := o.normalizer.Normalize(it.Filename, it.OriginalData)
			if err != nil {
				o.logger.Warn("image normalization failed",
					slog.String("item_id", it.ID),
					slog.String("filename", it.Filename),
					slog.String("error", err.Error()))
				return
			}

			text, err := o.extractor.ExtractText(ctx, norm.Preview)
			if err != nil {
				o.logger.Warn("text extraction failed",
					slog.String("item_id", it.ID),
					slog.String("filename", it.Filename),
					slog.String("error", err.Error()))
				return
			}

			clientID := matcher.Match(text, roster)

			mu.Lock()
			results[it.ID] = itemResult{normalized: norm, text: text, clientID: clientID}
			mu.Unlock()
		}(item)
	}

	wg.Wait()

	// Single atomic commit. Merging against the latest items (not the
	// snapshot taken at the start) means a manual reassignment made while
	// the batch ran wins over the matcher's suggestion.
	o.store.Update(func(current []MailItem) []MailItem {
		for i := range current {
			res, ok := results[current[i].ID]
			if !ok {
				continue
			}
			current[i].Normalized = res.normalized
			text := res.text
			current[i].ExtractedText = &text
			if current[i].AssignedClientID == nil {
				current[i].AssignedClientID = res.clientID
			}
		}
		return current
	})

	status.Succeeded = len(results)
	status.Failed = total - status.Skipped - status.Succeeded
	status.Processed, _ = o.store.Progress()
	status.Complete = status.Processed == status.Total

	if o.store.TryCompleteBatch() {
		o.notifier.BatchComplete(total)
	}

	o.logger.Info("intake batch processed",
		slog.Int("total", status.Total),
		slog.Int("succeeded", status.Succeeded),
		slog.Int("failed", status.Failed),
		slog.Int("skipped", status.Skipped))

	return status, nil
}

// Status reports current session progress without running the pipeline
func (o *Orchestrator) Status() *BatchStatus {
	processed, total := o.store.Progress()
	return &BatchStatus{
		Total:     total,
		Processed: processed,
		Complete:  total > 0 && processed == total,
	}
}
