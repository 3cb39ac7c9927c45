package services

import (
	"context"
	"log/slog"

	"finance/internal/amqp"
	"finance/internal/core"
)

// EventPublisher is the outbound side of the ledger event stream. The amqp
// Client implements it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
}

// publish sends an event when a publisher is configured. Failures are only
// logged: the write already committed.
func publish(ctx context.Context, p EventPublisher, kind core.EntryKind, op string, entryID, userID int64) {
	if p == nil {
		return
	}
	event := amqp.NewLedgerEvent(kind, op, entryID, userID)
	if err := p.PublishLedgerEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"event", event.Type(),
			"entry_id", entryID,
			"error", err)
	}
}
