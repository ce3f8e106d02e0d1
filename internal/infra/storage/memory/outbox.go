package memory

import (
	"context"
	"sync"

	appoutbox "villafinder/internal/app/outbox"
)

// DeliverFunc receives flushed records when no broker is configured.
type DeliverFunc func(ctx context.Context, record appoutbox.EventRecord) error

// Outbox keeps staged events per process until flushed. With a deliver func
// set, Flush hands every record to it in order and keeps the ones that failed.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
	deliver DeliverFunc
}

func NewOutbox(deliver DeliverFunc) *Outbox {
	return &Outbox{deliver: deliver}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

// Flush delivers pending records. The first delivery error is returned after
// every record has been attempted.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	pending := o.records
	o.records = nil
	o.mu.Unlock()
	if o.deliver == nil || len(pending) == 0 {
		return nil
	}

	var failed []appoutbox.EventRecord
	var firstErr error
	for _, rec := range pending {
		if err := o.deliver(ctx, rec); err != nil {
			failed = append(failed, rec)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if len(failed) > 0 {
		o.mu.Lock()
		o.records = append(failed, o.records...)
		o.mu.Unlock()
	}
	return firstErr
}

// Pending returns a copy of the staged records.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]appoutbox.EventRecord(nil), o.records...)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
