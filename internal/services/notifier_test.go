package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finance/internal/amqp"
	"finance/internal/core"
	"finance/internal/ledger/memory"
)

func TestNotifier_GoalCompleted(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cal := fixedCalendar(2024, time.January, 20)
	svc := NewLedgerService(store, nil, cal)
	n := NewNotifier(store, cal)
	uid := newUser(t, store, "notify@example.com")

	gid, err := svc.AddGoal(ctx, core.Goal{UserID: uid, Title: "Emergency Fund", TargetAmount: core.MustParseMoney("5000")})
	require.NoError(t, err)

	event := amqp.NewLedgerEvent(core.KindGoal, amqp.OpCompleted, gid, uid)
	require.NoError(t, n.Handle(ctx, event))
	require.NoError(t, n.Handle(ctx, event), "redelivery must not duplicate")

	ns, err := store.ListNotifications(ctx, uid)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	require.Equal(t, TitleGoalCompleted, ns[0].Title)
	require.Contains(t, ns[0].Message, "Emergency Fund")
	require.True(t, ns[0].Date.Equal(core.NewDate(2024, 1, 20).Time))
}

func TestNotifier_GoalDeletedBeforeHandling(t *testing.T) {
	n := NewNotifier(memory.New(), fixedCalendar(2024, 1, 20))
	require.NoError(t, n.Handle(context.Background(), amqp.NewLedgerEvent(core.KindGoal, amqp.OpCompleted, 77, 1)))
}

func TestNotifier_Overspending(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cal := fixedCalendar(2024, time.January, 20)
	svc := NewLedgerService(store, nil, cal)
	n := NewNotifier(store, cal)
	uid := newUser(t, store, "spend@example.com")

	_, err := svc.AddIncome(ctx, core.Income{UserID: uid, Type: "Salary", Amount: core.MustParseMoney("1000"), Date: core.NewDate(2024, 1, 2)})
	require.NoError(t, err)
	// Last month's spending does not count against this month's income.
	_, err = svc.AddExpense(ctx, core.Expense{UserID: uid, Category: core.Food, Amount: core.MustParseMoney("5000"), Date: core.NewDate(2023, 12, 28)})
	require.NoError(t, err)

	expenseCreated := amqp.NewLedgerEvent(core.KindExpense, amqp.OpCreated, 1, uid)
	require.NoError(t, n.Handle(ctx, expenseCreated))
	ns, err := store.ListNotifications(ctx, uid)
	require.NoError(t, err)
	require.Empty(t, ns)

	_, err = svc.AddExpense(ctx, core.Expense{UserID: uid, Category: core.Housing, Amount: core.MustParseMoney("1000.01"), Date: core.NewDate(2024, 1, 5)})
	require.NoError(t, err)
	require.NoError(t, n.Handle(ctx, expenseCreated))

	_, err = svc.AddExpense(ctx, core.Expense{UserID: uid, Category: core.Food, Amount: core.MustParseMoney("20"), Date: core.NewDate(2024, 1, 6)})
	require.NoError(t, err)
	require.NoError(t, n.Handle(ctx, expenseCreated))

	ns, err = store.ListNotifications(ctx, uid)
	require.NoError(t, err)
	require.Len(t, ns, 1, "one warning per day")
	require.Equal(t, TitleOverspending, ns[0].Title)
	require.Contains(t, ns[0].Message, "$1,000.01")
}

func TestNotifier_IgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	n := NewNotifier(store, fixedCalendar(2024, 1, 20))
	uid := newUser(t, store, "ignore@example.com")

	for _, e := range []*amqp.LedgerEvent{
		amqp.NewLedgerEvent(core.KindIncome, amqp.OpCreated, 1, uid),
		amqp.NewLedgerEvent(core.KindExpense, amqp.OpDeleted, 1, uid),
		amqp.NewLedgerEvent(core.KindExpense, amqp.OpCreated, 1, 0),
	} {
		require.NoError(t, n.Handle(ctx, e))
	}

	ns, err := store.ListNotifications(ctx, uid)
	require.NoError(t, err)
	require.Empty(t, ns)
}
