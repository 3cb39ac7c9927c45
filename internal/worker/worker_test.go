package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finance/internal/amqp"
	"finance/internal/core"
)

type handlerFunc func(ctx context.Context, event *amqp.LedgerEvent) error

func (f handlerFunc) Handle(ctx context.Context, event *amqp.LedgerEvent) error {
	return f(ctx, event)
}

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(context.Context) (int, error) {
	r.calls.Add(1)
	return 2, r.err
}

func TestEventWorker_HandleLedgerEvent(t *testing.T) {
	var seen []string
	w := NewEventWorker(handlerFunc(func(_ context.Context, e *amqp.LedgerEvent) error {
		seen = append(seen, e.Type())
		return nil
	}), nil)

	event := amqp.NewLedgerEvent(core.KindGoal, amqp.OpCompleted, 3, 1)
	require.NoError(t, w.HandleLedgerEvent(context.Background(), event))
	require.Equal(t, []string{"goal.completed"}, seen)
}

func TestEventWorker_HandlerErrorIsWrapped(t *testing.T) {
	boom := errors.New("store offline")
	w := NewEventWorker(handlerFunc(func(context.Context, *amqp.LedgerEvent) error { return boom }), nil)

	err := w.HandleLedgerEvent(context.Background(), amqp.NewLedgerEvent(core.KindExpense, amqp.OpCreated, 1, 1))
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "expense.created")
}

func TestEventWorker_NilCollaborators(t *testing.T) {
	w := NewEventWorker(nil, nil)
	require.NoError(t, w.HandleLedgerEvent(context.Background(), amqp.NewLedgerEvent(core.KindIncome, amqp.OpCreated, 1, 1)))
	require.NoError(t, w.StartupReminderCheck(context.Background()))
}

func TestEventWorker_StartupReminderCheck(t *testing.T) {
	r := &countingRunner{}
	w := NewEventWorker(nil, r)
	require.NoError(t, w.StartupReminderCheck(context.Background()))
	require.EqualValues(t, 1, r.calls.Load())

	r.err = errors.New("list users failed")
	require.Error(t, w.StartupReminderCheck(context.Background()))
}

func TestReminderScheduler_InvalidSchedule(t *testing.T) {
	s := NewReminderScheduler(&countingRunner{}, "not a schedule", time.UTC)
	require.Error(t, s.Start(context.Background()))
	require.False(t, s.IsRunning())
}

func TestReminderScheduler_Lifecycle(t *testing.T) {
	r := &countingRunner{}
	s := NewReminderScheduler(r, "@every 1s", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Stop(ctx), "stopping an idle scheduler is a no-op")
	require.NoError(t, s.Start(ctx))
	require.True(t, s.IsRunning())
	require.Error(t, s.Start(ctx), "second start must fail")

	require.Eventually(t, func() bool { return r.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, s.Stop(ctx))
	require.False(t, s.IsRunning())
}

func TestReminderScheduler_RunStopsOnCancel(t *testing.T) {
	s := NewReminderScheduler(&countingRunner{}, "@daily", time.UTC)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, s.IsRunning, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.False(t, s.IsRunning())
}
