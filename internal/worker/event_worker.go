package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finance/internal/amqp"
)

// EventHandler reacts to a single ledger event. services.Notifier
// implements it.
type EventHandler interface {
	Handle(ctx context.Context, event *amqp.LedgerEvent) error
}

// ReminderRunner performs one reminder scan. services.ReminderProcessor
// implements it.
type ReminderRunner interface {
	Run(ctx context.Context) (int, error)
}

// EventWorker processes ledger events delivered over AMQP and runs the
// reminder scan on demand.
type EventWorker struct {
	handler   EventHandler
	reminders ReminderRunner
}

func NewEventWorker(handler EventHandler, reminders ReminderRunner) *EventWorker {
	return &EventWorker{handler: handler, reminders: reminders}
}

// HandleLedgerEvent processes one event from the queue. A returned error
// makes the consumer requeue the delivery once.
func (w *EventWorker) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"event_id", event.ID,
		"type", event.Type(),
		"entry_id", event.EntryID,
		"user_id", event.UserID)

	if w.handler == nil {
		return nil
	}
	if err := w.handler.Handle(ctx, event); err != nil {
		return fmt.Errorf("handle %s: %w", event.Type(), err)
	}
	return nil
}

// StartupReminderCheck runs one reminder scan when the worker boots so that
// a worker that was down at the scheduled time still catches up.
func (w *EventWorker) StartupReminderCheck(ctx context.Context) error {
	if w.reminders == nil {
		return nil
	}
	created, err := w.reminders.Run(ctx)
	if err != nil {
		return fmt.Errorf("startup reminder check: %w", err)
	}
	slog.InfoContext(ctx, "Startup reminder check completed", "created", created)
	return nil
}
