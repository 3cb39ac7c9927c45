// Package cli provides common CLI initialization utilities shared by
// cmd/finance, cmd/finance-worker and cmd/finance-seed.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"finance/internal/backend"
	"finance/internal/config"
	"finance/internal/log"
	"finance/internal/services"
)

// SetupLogger builds the process logger for component and installs it as
// the slog default. An unknown level falls back to info.
func SetupLogger(component, level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	if level != "" {
		_ = cfg.Level.UnmarshalText([]byte(level))
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", log.FieldError, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Calendar resolves the configured time zone; Validate already checked it.
func Calendar(cfg *config.Config) services.Calendar {
	loc, err := cfg.Location()
	if err != nil {
		loc = nil
	}
	return services.NewCalendar(loc)
}

// InitBackend opens the configured store and broker client, or exits the
// process on failure.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config, requireEvents bool) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	bcfg.RequireEvents = requireEvents

	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", bcfg.Type.String())
		os.Exit(1)
	}
	return res
}

// Publisher adapts the optional broker client for the services, keeping a
// missing client a true nil interface.
func Publisher(res *backend.BackendResult) services.EventPublisher {
	if res == nil || res.Events == nil {
		return nil
	}
	return res.Events
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
