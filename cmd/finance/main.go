package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"finance/internal/cli"
	"finance/internal/demo"
	apphttp "finance/internal/http"
	"finance/internal/log"
	"finance/internal/services"
)

func main() {
	logger := cli.SetupLogger(log.ComponentApp, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(log.ComponentApp, cfg.LogLevel)

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	res := cli.InitBackend(ctx, logger, cfg, false)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	cal := cli.Calendar(cfg)
	publisher := cli.Publisher(res)
	ledgerSvc := services.NewLedgerService(res.Store, publisher, cal, services.WithDefaultCurrency(cfg.DefaultCurrency))

	if cfg.SeedDemo {
		seedLogger := logger.WithComponent(log.ComponentSeed)
		uid, seeded, err := demo.SeedSample(ctx, ledgerSvc, cal.Today())
		switch {
		case err != nil:
			seedLogger.Error("Demo seed failed", log.FieldError, err)
		case seeded:
			seedLogger.Info("Demo data seeded", log.FieldUserID, uid)
		default:
			seedLogger.Info("Ledger not empty, skipping demo seed")
		}
	}

	deps := apphttp.Deps{
		Ledger:   ledgerSvc,
		Reporter: services.NewReporter(res.Store, cal, cfg.TrendMonths),
		Goals:    services.NewGoalTracker(res.Store, publisher),
		Calendar: cal,
		Logger:   logger.WithComponent(log.ComponentHTTP),
	}
	if res.Pinger != nil {
		deps.Pinger = res.Pinger
	}
	opts := apphttp.DefaultOptions()
	opts.CacheTTL = cfg.CacheTTL

	srv := apphttp.NewServer(":"+cfg.Port, deps, opts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	}()

	logger.Info("Starting finance server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", res.Events != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		cancel()
	}

	<-stopped
	logger.Info("Server stopped gracefully")
}
