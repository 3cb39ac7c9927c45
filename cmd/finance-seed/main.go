package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"finance/internal/cli"
	"finance/internal/demo"
	"finance/internal/ledger"
	"finance/internal/log"
	"finance/internal/services"
)

func main() {
	var (
		entries = pflag.IntP("entries", "n", 0, "number of random incomes and expenses to generate")
		days    = pflag.Int("days", 180, "spread generated entries over this many past days")
		userID  = pflag.Int64("user", 0, "user to generate entries for (default: demo or first user)")
		seed    = pflag.Int64("seed", time.Now().UnixNano(), "random seed for generated entries")
	)
	pflag.Parse()

	logger := cli.SetupLogger(log.ComponentSeed, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	res := cli.InitBackend(ctx, logger, cfg, false)
	if err := run(ctx, logger, res.Store, cli.Publisher(res), cli.Calendar(cfg), cfg.DefaultCurrency, *entries, *days, *userID, *seed); err != nil {
		logger.Error("Seeding failed", log.FieldError, err)
		_ = res.Cleanup()
		os.Exit(1)
	}
	if err := res.Cleanup(); err != nil {
		logger.Error("Backend cleanup failed", log.FieldError, err)
	}
}

func run(ctx context.Context, logger *log.Logger, store ledger.Store, publisher services.EventPublisher, cal services.Calendar, currency string, entries, days int, userID, seed int64) error {
	svc := services.NewLedgerService(store, publisher, cal, services.WithDefaultCurrency(currency))

	uid, seeded, err := demo.SeedSample(ctx, svc, cal.Today())
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("Demo data seeded", log.FieldUserID, uid)
	} else {
		logger.Info("Ledger not empty, skipping demo seed")
	}

	if entries <= 0 {
		return nil
	}
	if userID == 0 {
		userID = uid
	}
	if userID == 0 {
		users, err := svc.ListUsers(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return fmt.Errorf("no user to generate entries for")
		}
		userID = users[0].ID
	}
	if _, err := svc.GetUser(ctx, userID); err != nil {
		return fmt.Errorf("user %d: %w", userID, err)
	}

	n, err := demo.Generate(ctx, svc, userID, cal.Today(), entries, days, seed)
	logger.Info("Generated entries", log.FieldUserID, userID, "created", n, "seed", seed)
	return err
}
