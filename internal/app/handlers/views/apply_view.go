package views

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/dto"
	"villafinder/internal/app/handlers/support"
	"villafinder/internal/app/outbox"
	"villafinder/internal/app/policies"
	"villafinder/internal/app/uow"
	"villafinder/internal/domain/scoops"
	"villafinder/internal/domain/villas"
)

const applyViewKey = "views.apply"

// ApplyViewCommand adds a delivered view event to the page counter. It is
// idempotent per event id so redelivered messages count once.
type ApplyViewCommand struct {
	EventID string
	Kind    string
	ID      string
	Delta   int64
}

func (c ApplyViewCommand) Key() string { return applyViewKey }

func (c ApplyViewCommand) IdempotencyKey() string {
	if c.EventID == "" {
		return ""
	}
	return "view:" + c.EventID
}

func (c ApplyViewCommand) ResultPrototype() any { return &dto.ViewAck{} }

func (c ApplyViewCommand) Validate() error {
	if err := validKind(c.Kind); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrIDRequired
	}
	return nil
}

// ApplyCommandFromRecord converts a delivered outbox record into the
// counter update. The aggregate id wins over the payload.
func ApplyCommandFromRecord(rec outbox.EventRecord) (ApplyViewCommand, error) {
	cmd := ApplyViewCommand{EventID: rec.ID, Kind: rec.Kind(), ID: rec.Aggregate, Delta: 1}
	if err := validKind(cmd.Kind); err != nil {
		return ApplyViewCommand{}, fmt.Errorf("%w: %q", err, rec.Name)
	}
	if cmd.ID == "" && len(rec.Payload) > 0 {
		var payload struct {
			VillaID string `json:"villa_id"`
			ScoopID string `json:"scoop_id"`
		}
		if err := json.Unmarshal(rec.Payload, &payload); err != nil {
			return ApplyViewCommand{}, fmt.Errorf("views: decode %s payload: %w", rec.Name, err)
		}
		cmd.ID = payload.VillaID
		if cmd.Kind == KindScoop {
			cmd.ID = payload.ScoopID
		}
	}
	if cmd.ID == "" {
		return ApplyViewCommand{}, ErrIDRequired
	}
	return cmd, nil
}

// ApplyViewHandler increments view counters.
type ApplyViewHandler struct {
	UoWFactory uow.UoWFactory
	Observer   policies.ViewObserver
}

func (h *ApplyViewHandler) Handle(ctx context.Context, cmd ApplyViewCommand) (*dto.ViewAck, error) {
	unit, ctx, cleanup, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	owned := cleanup != nil
	if owned {
		defer cleanup()
	}

	delta := cmd.Delta
	if delta <= 0 {
		delta = 1
	}
	switch cmd.Kind {
	case KindVilla:
		err = unit.Villas().IncrementViews(ctx, villas.VillaID(cmd.ID), delta)
	case KindScoop:
		err = unit.Scoops().IncrementViews(ctx, scoops.ScoopID(cmd.ID), delta)
	default:
		err = ErrUnknownKind
	}
	if err != nil {
		return nil, err
	}
	if owned {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
	}
	if h.Observer != nil {
		h.Observer.ViewApplied(cmd.Kind)
	}
	return &dto.ViewAck{EventID: cmd.EventID, Kind: cmd.Kind, ID: cmd.ID}, nil
}

var _ commands.Handler[ApplyViewCommand, *dto.ViewAck] = (*ApplyViewHandler)(nil)
