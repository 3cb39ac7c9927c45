package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finance/internal/amqp"
	"finance/internal/core"
	"finance/internal/ledger/memory"
)

// recordingPublisher captures events; err makes every publish fail.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.LedgerEvent
	err    error
	closed bool
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, e *amqp.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type())
	}
	return out
}

var errBrokerDown = errors.New("broker down")

// fixedCalendar pins "now" to noon UTC on the given day.
func fixedCalendar(y int, m time.Month, d int) Calendar {
	at := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return Calendar{Now: func() time.Time { return at }, Location: time.UTC}
}

func newUser(t *testing.T, store *memory.Store, email string) int64 {
	t.Helper()
	id, err := store.CreateUser(context.Background(), core.User{Name: "Test", Email: email, Currency: "$"})
	require.NoError(t, err)
	return id
}
