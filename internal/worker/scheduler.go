package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ReminderScheduler runs a ReminderRunner on a cron schedule.
type ReminderScheduler struct {
	runner   ReminderRunner
	schedule string
	loc      *time.Location

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewReminderScheduler accepts standard five-field cron specs and
// descriptors such as "@daily". A nil location means Local.
func NewReminderScheduler(runner ReminderRunner, schedule string, loc *time.Location) *ReminderScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderScheduler{runner: runner, schedule: schedule, loc: loc}
}

// Start registers the job and starts the cron loop. Returns an error if
// already running or if the schedule does not parse.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("reminder scheduler is already running")
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.schedule, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("parse reminder schedule %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	s.running = true

	slog.InfoContext(ctx, "Reminder scheduler started", "schedule", s.schedule, "location", s.loc.String())
	return nil
}

// Stop halts the schedule and waits for a scan in progress, or for ctx.
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	c := s.cron
	s.running = false
	s.cron = nil
	s.mu.Unlock()

	select {
	case <-c.Stop().Done():
		slog.InfoContext(ctx, "Reminder scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Reminder scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *ReminderScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *ReminderScheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Stop(stopCtx)
}

func (s *ReminderScheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	created, err := s.runner.Run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Scheduled reminder scan failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Scheduled reminder scan completed",
		"created", created,
		"duration", time.Since(start))
}
