package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/IBM/sarama"

	"villafinder/internal/app/commands"
	"villafinder/internal/app/dto"
	"villafinder/internal/app/handlers/views"
	"villafinder/internal/infra/outbox"
)

// ViewTopics are the topics the view counter consumes without a prefix.
var ViewTopics = []string{"villa.events.v1", "scoop.events.v1"}

// ViewHandler applies viewed events to the page counters. Envelopes that
// cannot be decoded are logged and acknowledged so they do not block the
// partition.
type ViewHandler struct {
	Bus    commands.Bus
	Logger *slog.Logger
}

func (h *ViewHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	rec, err := outbox.Decode(msg.Value)
	if err != nil {
		h.logger().Warn("dropping malformed view event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}
	cmd, err := views.ApplyCommandFromRecord(rec)
	if err != nil {
		if errors.Is(err, views.ErrUnknownKind) {
			return nil
		}
		h.logger().Warn("dropping unusable view event", "event_id", rec.ID, "name", rec.Name, "error", err)
		return nil
	}
	_, err = commands.Dispatch[views.ApplyViewCommand, *dto.ViewAck](ctx, h.Bus, cmd)
	return err
}

func (h *ViewHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

var _ MessageHandler = (*ViewHandler)(nil)
