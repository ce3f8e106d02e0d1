package outbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"villafinder/internal/domain/shared/events"
)

const (
	defaultInterval = 500 * time.Millisecond
	defaultBatch    = 50
	defaultSource   = "app://villafinder"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker relays stored records to the broker, one topic per event kind.
type Worker struct {
	Store       RecordStore
	Producer    Producer
	Interval    time.Duration
	Batch       int
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
	Logger      *slog.Logger
}

// Run drains the store every interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger().Warn("outbox drain failed", "worker", w.ID, "error", err)
			}
		}
	}
}

// Drain relays up to one batch of records and reports how many were sent.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	sent := 0
	for i := 0; i < w.batch(); i++ {
		ok, err := w.processOnce(ctx)
		if err != nil {
			return sent, err
		}
		if !ok {
			return sent, nil
		}
		sent++
	}
	return sent, nil
}

// processOnce reports false when nothing was claimable. Publish failures
// reschedule the record and count as processed.
func (w *Worker) processOnce(ctx context.Context) (bool, error) {
	doc, err := w.Store.Claim(ctx, w.ID)
	if err != nil || doc == nil {
		return false, err
	}
	payload, err := Encode(doc, w.source())
	if err != nil {
		return true, w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
	}
	headers := map[string]string{"content-type": cloudEventsMedia}
	for k, v := range doc.Headers {
		headers[k] = v
	}
	if err := w.Producer.Publish(ctx, w.TopicFor(doc.Name), doc.Aggregate, payload, headers); err != nil {
		w.logger().Warn("outbox publish failed", "event_id", doc.ID, "name", doc.Name, "attempts", doc.Attempts+1, "error", err)
		return true, w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
	}
	return true, w.Store.MarkSent(ctx, doc.ID)
}

// TopicFor maps "villa.viewed" to "<prefix>villa.events.v1".
func (w *Worker) TopicFor(name string) string {
	return w.TopicPrefix + events.Kind(name) + ".events.v1"
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return defaultInterval
	}
	return w.Interval
}

func (w *Worker) batch() int {
	if w.Batch <= 0 {
		return defaultBatch
	}
	return w.Batch
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if attempts < len(w.Backoff) {
		return time.Now().Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return time.Now().Add(w.Backoff[len(w.Backoff)-1])
	}
	return time.Now().Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return defaultSource
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")
