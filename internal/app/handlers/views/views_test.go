package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/dto"
	"villafinder/internal/app/middleware"
	"villafinder/internal/app/outbox"
	domainscoops "villafinder/internal/domain/scoops"
	domainvillas "villafinder/internal/domain/villas"
	"villafinder/internal/infra/storage/memory"
)

type viewCounter struct{ kinds []string }

func (c *viewCounter) ViewApplied(kind string) { c.kinds = append(c.kinds, kind) }

func TestRecordViewStagesEvent(t *testing.T) {
	box := memory.NewOutbox(nil)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	h := &RecordViewHandler{
		Outbox:  box,
		Encoder: outbox.JSONEventEncoder{IDGenerator: func() string { return "evt-1" }},
		Now:     func() time.Time { return at },
	}

	ack, err := h.Handle(context.Background(), RecordViewCommand{Kind: KindVilla, ID: "42", Slug: "villa-42"})
	require.NoError(t, err)
	assert.Equal(t, &dto.ViewAck{EventID: "evt-1", Kind: KindVilla, ID: "42"}, ack)

	pending := box.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "villa.viewed", pending[0].Name)
	assert.Equal(t, "42", pending[0].Aggregate)
	assert.Equal(t, at, pending[0].OccurredAt)
	assert.JSONEq(t, `{"villa_id":"42","slug":"villa-42","at":"2024-06-01T10:00:00Z"}`, string(pending[0].Payload))
}

func TestRecordViewRejectsUnknownKind(t *testing.T) {
	h := &RecordViewHandler{Outbox: memory.NewOutbox(nil)}
	_, err := h.Handle(context.Background(), RecordViewCommand{Kind: "page", ID: "1"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	assert.ErrorIs(t, RecordViewCommand{Kind: KindScoop}.Validate(), ErrIDRequired)
	assert.NoError(t, RecordViewCommand{Kind: KindScoop, ID: "s"}.Validate())
}

func TestApplyCommandFromRecord(t *testing.T) {
	cmd, err := ApplyCommandFromRecord(outbox.EventRecord{ID: "e1", Name: "scoop.viewed", Aggregate: "s1"})
	require.NoError(t, err)
	assert.Equal(t, ApplyViewCommand{EventID: "e1", Kind: KindScoop, ID: "s1", Delta: 1}, cmd)
	assert.Equal(t, "view:e1", cmd.IdempotencyKey())

	cmd, err = ApplyCommandFromRecord(outbox.EventRecord{ID: "e2", Name: "villa.viewed", Payload: []byte(`{"villa_id":"7"}`)})
	require.NoError(t, err)
	assert.Equal(t, "7", cmd.ID)

	_, err = ApplyCommandFromRecord(outbox.EventRecord{ID: "e3", Name: "booking.created", Aggregate: "x"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = ApplyCommandFromRecord(outbox.EventRecord{ID: "e4", Name: "villa.viewed"})
	assert.ErrorIs(t, err, ErrIDRequired)

	_, err = ApplyCommandFromRecord(outbox.EventRecord{ID: "e5", Name: "villa.viewed", Payload: []byte(`{`)})
	assert.Error(t, err)
}

func TestApplyViewIncrementsCounters(t *testing.T) {
	villas := memory.NewVillaRepository(&domainvillas.Villa{ID: "1", Slug: "v", Title: "V", Active: true})
	scoops := memory.NewScoopRepository(&domainscoops.Scoop{ID: "s1", Slug: "s"})
	observer := &viewCounter{}
	h := &ApplyViewHandler{UoWFactory: memory.Factory{VillasRepo: villas, ScoopsRepo: scoops}, Observer: observer}
	ctx := context.Background()

	_, err := h.Handle(ctx, ApplyViewCommand{Kind: KindVilla, ID: "1", Delta: 3})
	require.NoError(t, err)
	_, err = h.Handle(ctx, ApplyViewCommand{Kind: KindScoop, ID: "s1"})
	require.NoError(t, err)

	v, err := villas.ByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.ViewCount)
	s, err := scoops.BySlug(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ViewCount)
	assert.Equal(t, []string{KindVilla, KindScoop}, observer.kinds)

	_, err = h.Handle(ctx, ApplyViewCommand{Kind: KindVilla, ID: "missing"})
	assert.ErrorIs(t, err, domainvillas.ErrNotFound)
	assert.Len(t, observer.kinds, 2)
}

// newViewBus mirrors the in-process wiring: recorded views are flushed after
// the command and applied once per event id.
func newViewBus(t *testing.T, villas *memory.VillaRepository, scoops *memory.ScoopRepository) (commands.Bus, *memory.Outbox) {
	t.Helper()
	factory := memory.Factory{VillasRepo: villas, ScoopsRepo: scoops}
	base := commands.NewInMemoryBus()
	var bus commands.Bus
	box := memory.NewOutbox(func(ctx context.Context, rec outbox.EventRecord) error {
		cmd, err := ApplyCommandFromRecord(rec)
		if err != nil {
			return err
		}
		_, err = commands.Dispatch[ApplyViewCommand, *dto.ViewAck](ctx, bus, cmd)
		return err
	})
	commands.RegisterHandler[RecordViewCommand, *dto.ViewAck](base, recordViewKey, &RecordViewHandler{Outbox: box})
	commands.RegisterHandler[ApplyViewCommand, *dto.ViewAck](base, applyViewKey, &ApplyViewHandler{UoWFactory: factory})
	bus = middleware.ChainCommands(base,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(memory.NewIdempotencyStore(), nil),
		middleware.OutboxFlush(box),
		middleware.Transaction(factory, nil),
	)
	return bus, box
}

func TestRecordedViewIsAppliedAfterFlush(t *testing.T) {
	villas := memory.NewVillaRepository(&domainvillas.Villa{ID: "1", Slug: "v", Title: "V", Active: true})
	scoops := memory.NewScoopRepository()
	bus, box := newViewBus(t, villas, scoops)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := commands.Dispatch[RecordViewCommand, *dto.ViewAck](ctx, bus, RecordViewCommand{Kind: KindVilla, ID: "1"})
		require.NoError(t, err)
	}
	assert.Empty(t, box.Pending())

	v, err := villas.ByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.ViewCount)
}

func TestRedeliveredViewCountsOnce(t *testing.T) {
	villas := memory.NewVillaRepository(&domainvillas.Villa{ID: "1", Slug: "v", Title: "V", Active: true})
	bus, _ := newViewBus(t, villas, memory.NewScoopRepository())
	ctx := context.Background()
	cmd := ApplyViewCommand{EventID: "evt-9", Kind: KindVilla, ID: "1", Delta: 1}

	first, err := commands.Dispatch[ApplyViewCommand, *dto.ViewAck](ctx, bus, cmd)
	require.NoError(t, err)
	replayed, err := commands.Dispatch[ApplyViewCommand, *dto.ViewAck](ctx, bus, cmd)
	require.NoError(t, err)
	assert.Equal(t, first, replayed)

	v, err := villas.ByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ViewCount)
}

func TestFailedDeliveryStaysPending(t *testing.T) {
	villas := memory.NewVillaRepository()
	bus, box := newViewBus(t, villas, memory.NewScoopRepository())

	_, err := commands.Dispatch[RecordViewCommand, *dto.ViewAck](context.Background(), bus, RecordViewCommand{Kind: KindVilla, ID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainvillas.ErrNotFound))
	assert.Len(t, box.Pending(), 1)
}
