package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finance/internal/amqp"
	"finance/internal/ledger"
	"finance/internal/ledger/memory"
	"finance/internal/storage"
	"finance/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	// dial is swapped in tests.
	dial func(url, exchange, queue string) (EventClient, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger, dial: dialAMQP}
}

func dialAMQP(url, exchange, queue string) (EventClient, error) {
	c, err := amqp.NewClient(url, exchange, queue)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store  ledger.Store
		pinger Pinger
	)
	switch config.Type {
	case MemoryBackend:
		store = memory.New()
		f.logger.Info("Initialized memory backend")
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		store, pinger = repo, repo
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case PostgresBackend:
		pg, err := postgres.Open(ctx, config.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		store, pinger = pg, pg
		f.logger.Info("Initialized Postgres backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	events, err := f.connectEvents(config)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &BackendResult{
		Store:  store,
		Pinger: pinger,
		Events: events,
		Cleanup: func() error {
			var errs []error
			if events != nil {
				if err := events.Close(); err != nil {
					errs = append(errs, fmt.Errorf("amqp: %w", err))
				}
			}
			if err := store.Close(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
			return errors.Join(errs...)
		},
	}, nil
}

// connectEvents dials the broker when configured. Unless events are
// required, a failed dial only disables them.
func (f *DefaultFactory) connectEvents(config Config) (EventClient, error) {
	if config.AMQPURL == "" {
		return nil, nil
	}
	client, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		if config.RequireEvents {
			return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
		}
		f.logger.Warn("Failed to initialize AMQP client, continuing without ledger events", "error", err)
		return nil, nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client, nil
}
