package backend

import (
	"context"

	"finance/internal/amqp"
	"finance/internal/ledger"
)

// Pinger reports whether a backend still answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventClient is the broker side of a backend: publishing for the API and
// consuming for the worker. *amqp.Client implements it.
type EventClient interface {
	PublishLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error
	ConsumeLedgerEvents(ctx context.Context, handler func(context.Context, *amqp.LedgerEvent) error) error
	Close() error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store, its optional broker client and a
// cleanup that releases both.
type BackendResult struct {
	Store ledger.Store
	// Pinger is nil for backends without a health probe.
	Pinger Pinger
	// Events is nil when no broker is configured.
	Events  EventClient
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	PostgresURL  string

	// Empty AMQPURL disables ledger events.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	// RequireEvents turns a broker connection failure into an error instead
	// of a warning.
	RequireEvents bool
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
