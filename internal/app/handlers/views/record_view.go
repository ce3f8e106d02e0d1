package views

import (
	"context"
	"errors"
	"strings"
	"time"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/dto"
	"villafinder/internal/app/outbox"
	"villafinder/internal/domain/scoops"
	"villafinder/internal/domain/shared/events"
	"villafinder/internal/domain/villas"
)

const (
	recordViewKey = "views.record"

	KindVilla = "villa"
	KindScoop = "scoop"
)

var (
	ErrUnknownKind = errors.New("views: unknown page kind")
	ErrIDRequired  = errors.New("views: page id is required")
)

// RecordViewCommand stages a page view for asynchronous counting.
type RecordViewCommand struct {
	Kind string
	ID   string
	Slug string
}

func (c RecordViewCommand) Key() string { return recordViewKey }

func (c RecordViewCommand) Validate() error {
	if err := validKind(c.Kind); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrIDRequired
	}
	return nil
}

// RecordViewHandler writes the viewed event to the outbox. The counter is
// updated by ApplyViewHandler once the event is delivered.
type RecordViewHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *RecordViewHandler) Handle(ctx context.Context, cmd RecordViewCommand) (*dto.ViewAck, error) {
	if h.Outbox == nil {
		return nil, errors.New("views: outbox not configured")
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	at := now().UTC()

	var ev events.DomainEvent
	switch cmd.Kind {
	case KindVilla:
		ev = villas.ViewedEvent{VillaID: villas.VillaID(cmd.ID), Slug: cmd.Slug, At: at}
	case KindScoop:
		ev = scoops.ViewedEvent{ScoopID: scoops.ScoopID(cmd.ID), Slug: cmd.Slug, At: at}
	default:
		return nil, ErrUnknownKind
	}

	encoder := h.Encoder
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	rec, err := encoder.Encode(ev)
	if err != nil {
		return nil, err
	}
	if err := h.Outbox.Add(ctx, rec); err != nil {
		return nil, err
	}
	return &dto.ViewAck{EventID: rec.ID, Kind: cmd.Kind, ID: cmd.ID}, nil
}

func validKind(kind string) error {
	switch kind {
	case KindVilla, KindScoop:
		return nil
	default:
		return ErrUnknownKind
	}
}

var _ commands.Handler[RecordViewCommand, *dto.ViewAck] = (*RecordViewHandler)(nil)
