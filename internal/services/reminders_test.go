package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finance/internal/core"
	"finance/internal/ledger/memory"
)

func TestReminderProcessor_Run(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cal := fixedCalendar(2024, time.March, 10)
	svc := NewLedgerService(store, nil, cal)
	uid := newUser(t, store, "remind@example.com")
	other := newUser(t, store, "quiet@example.com")

	debt := func(name string, due core.Date, current string) {
		_, err := svc.AddDebt(ctx, core.Debt{
			UserID: uid, Name: name, Type: "Loan",
			InitialAmount: core.MustParseMoney("1000"), CurrentAmount: core.MustParseMoney(current),
			DueDate: due,
		})
		require.NoError(t, err)
	}
	debt("Due today", core.NewDate(2024, 3, 10), "100")
	debt("Due at horizon", core.NewDate(2024, 3, 17), "100")
	debt("Due too late", core.NewDate(2024, 3, 18), "100")
	debt("Already overdue", core.NewDate(2024, 3, 9), "100")
	debt("Paid off", core.NewDate(2024, 3, 12), "0")
	debt("No due date", core.Date{}, "100")

	goal := func(title string, target core.Date) int64 {
		id, err := svc.AddGoal(ctx, core.Goal{
			UserID: uid, Title: title, CurrentAmount: core.MustParseMoney("250"),
			TargetAmount: core.MustParseMoney("1000"), TargetDate: target,
		})
		require.NoError(t, err)
		return id
	}
	goal("Past target", core.NewDate(2024, 3, 1))
	goal("Target today", core.NewDate(2024, 3, 10))
	doneID := goal("Completed past target", core.NewDate(2024, 2, 1))
	require.NoError(t, NewGoalTracker(store, nil).Complete(ctx, doneID))

	p := NewReminderProcessor(store, cal, 7)
	created, err := p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, created)

	ns, err := store.ListNotifications(ctx, uid)
	require.NoError(t, err)
	titles := map[string]int{}
	for _, n := range ns {
		titles[n.Title]++
	}
	require.Equal(t, 2, titles[TitleDebtDueSoon])
	require.Equal(t, 1, titles[TitleGoalPastTarget])

	var pastTarget core.Notification
	for _, n := range ns {
		if n.Title == TitleGoalPastTarget {
			pastTarget = n
		}
	}
	require.Contains(t, pastTarget.Message, "Past target")
	require.Contains(t, pastTarget.Message, "25%")
	require.Contains(t, pastTarget.Message, "$750.00")

	again, err := p.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, again, "same-day rerun creates nothing")

	quiet, err := store.ListNotifications(ctx, other)
	require.NoError(t, err)
	require.Empty(t, quiet)
}

func TestReminderProcessor_NextDayRemindsAgain(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	day := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	cal := Calendar{Now: func() time.Time { return day }, Location: time.UTC}
	svc := NewLedgerService(store, nil, cal)
	uid := newUser(t, store, "daily@example.com")

	_, err := svc.AddDebt(ctx, core.Debt{
		UserID: uid, Name: "Rent loan", Type: "Loan",
		InitialAmount: core.MustParseMoney("500"), CurrentAmount: core.MustParseMoney("500"),
		DueDate: core.NewDate(2024, 3, 12),
	})
	require.NoError(t, err)

	p := NewReminderProcessor(store, cal, 7)
	n, err := p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	day = day.AddDate(0, 0, 1)
	n, err = p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestReminderProcessor_CancelledContext(t *testing.T) {
	store := memory.New()
	newUser(t, store, "c@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReminderProcessor(store, fixedCalendar(2024, 1, 1), 7).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReminderProcessor_OnePerSubjectPerDay(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cal := fixedCalendar(2024, time.March, 10)
	svc := NewLedgerService(store, nil, cal)
	uid := newUser(t, store, "subject@example.com")
	due := core.NewDate(2024, 3, 12)

	addDebt := func(name, current string) int64 {
		id, err := svc.AddDebt(ctx, core.Debt{
			UserID: uid, Name: name, Type: "Loan",
			InitialAmount: core.MustParseMoney("1000"), CurrentAmount: core.MustParseMoney(current),
			DueDate: due,
		})
		require.NoError(t, err)
		return id
	}

	p := NewReminderProcessor(store, cal, 7)
	carID := addDebt("Car", "500")
	n, err := p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Re-entering the debt with a new balance keeps the same subject.
	require.NoError(t, svc.DeleteEntry(ctx, core.KindDebt, carID))
	addDebt("Car", "450")
	n, err = p.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, n, "amount change alone must not remind again")

	addDebt("Car Loan", "300")
	n, err = p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n, "a different debt is a different subject")

	ns, err := store.ListNotifications(ctx, uid)
	require.NoError(t, err)
	require.Len(t, ns, 2)
}
