package services

import (
	"context"
	"fmt"
	"log/slog"

	"finance/internal/core"
	"finance/internal/ledger"
)

// ReminderProcessor scans every user for debts falling due and goals whose
// target date has passed, and leaves one notification per subject per day.
type ReminderProcessor struct {
	store      ledger.Store
	cal        Calendar
	windowDays int
}

func NewReminderProcessor(store ledger.Store, cal Calendar, windowDays int) *ReminderProcessor {
	if windowDays < 0 {
		windowDays = 0
	}
	return &ReminderProcessor{store: store, cal: cal, windowDays: windowDays}
}

// Run performs one scan and returns how many notifications it created.
// A failure for one user is logged and does not stop the others.
func (p *ReminderProcessor) Run(ctx context.Context) (int, error) {
	users, err := p.store.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	today := p.cal.Today()
	created := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		n, err := p.remindUser(ctx, u, today)
		created += n
		if err != nil {
			slog.ErrorContext(ctx, "Reminder scan failed for user", "user_id", u.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Reminder scan completed", "users", len(users), "created", created)
	return created, nil
}

// reminder pairs a notification with the message prefix naming its subject.
// The rest of the message carries amounts that may change during the day.
type reminder struct {
	n       core.Notification
	subject string
}

func (p *ReminderProcessor) remindUser(ctx context.Context, u core.User, today core.Date) (int, error) {
	var pending []reminder

	debts, err := p.store.ListDebts(ctx, u.ID)
	if err != nil {
		return 0, err
	}
	horizon := today.AddDays(p.windowDays)
	for _, d := range debts {
		if d.DueDate.IsZero() || !d.CurrentAmount.IsPositive() || !d.DueDate.Within(today, horizon) {
			continue
		}
		subject := fmt.Sprintf("%s is due on %s", d.Name, d.DueDate)
		pending = append(pending, reminder{subject: subject, n: core.Notification{
			UserID:  u.ID,
			Title:   TitleDebtDueSoon,
			Message: fmt.Sprintf("%s with %s outstanding.", subject, d.CurrentAmount.Format(u.Currency)),
			Date:    today,
		}})
	}

	goals, err := p.store.ListGoals(ctx, u.ID)
	if err != nil {
		return 0, err
	}
	for _, g := range core.ActiveGoals(goals) {
		if g.TargetDate.IsZero() || !g.TargetDate.Before(today.Time) {
			continue
		}
		subject := fmt.Sprintf("%s was due on %s", g.Title, g.TargetDate)
		pending = append(pending, reminder{subject: subject, n: core.Notification{
			UserID: u.ID,
			Title:  TitleGoalPastTarget,
			Message: fmt.Sprintf("%s and is at %s%% (%s to go).",
				subject, g.Progress().StringFixed(0), g.Remaining().Format(u.Currency)),
			Date: today,
		}})
	}

	created := 0
	for _, r := range pending {
		ok, err := notifyOnce(ctx, p.store, r.n, r.subject)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}
