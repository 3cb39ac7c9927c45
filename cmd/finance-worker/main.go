package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"finance/internal/cli"
	"finance/internal/log"
	"finance/internal/services"
	"finance/internal/worker"
)

func main() {
	logger := cli.SetupLogger(log.ComponentWorker, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(log.ComponentWorker, cfg.LogLevel)

	logger.Info("Starting finance-worker")

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	// The worker exists to consume ledger events, so a broker is mandatory.
	res := cli.InitBackend(ctx, logger, cfg, true)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	cal := cli.Calendar(cfg)
	reminders := services.NewReminderProcessor(res.Store, cal, cfg.ReminderWindowDays)
	eventWorker := worker.NewEventWorker(services.NewNotifier(res.Store, cal), reminders)

	// Catch up on reminders missed while the worker was down.
	if err := eventWorker.StartupReminderCheck(ctx); err != nil {
		logger.Error("Startup reminder check failed", log.FieldError, err)
	}

	loc, _ := cfg.Location()
	scheduler := worker.NewReminderScheduler(reminders, cfg.ReminderSchedule, loc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return res.Events.ConsumeLedgerEvents(gctx, eventWorker.HandleLedgerEvent)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		cancel()
		return
	}
	logger.Info("Worker stopped gracefully")
}
