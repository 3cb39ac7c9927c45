package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"finance/internal/core"
	"finance/internal/ledger/memory"
)

func TestGoalTracker_CompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewLedgerService(store, nil, fixedCalendar(2024, time.January, 20))
	tracker := NewGoalTracker(store, pub)
	uid := newUser(t, store, "goals@example.com")

	keep, err := svc.AddGoal(ctx, core.Goal{UserID: uid, Title: "Vacation", Type: "vacation", TargetAmount: core.MustParseMoney("2000")})
	require.NoError(t, err)
	gid, err := svc.AddGoal(ctx, core.Goal{UserID: uid, Title: "Laptop", TargetAmount: core.MustParseMoney("1500")})
	require.NoError(t, err)

	require.NoError(t, tracker.Complete(ctx, gid))
	once, err := store.GetGoal(ctx, gid)
	require.NoError(t, err)

	require.NoError(t, tracker.Complete(ctx, gid))
	twice, err := store.GetGoal(ctx, gid)
	require.NoError(t, err)
	require.Equal(t, once, twice)
	require.True(t, twice.Completed)

	active, err := tracker.ActiveGoals(ctx, uid)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, keep, active[0].Goal.ID)
	require.Equal(t, core.GoalVacation, active[0].Goal.Type)

	require.Equal(t, []string{"goal.completed"}, pub.types(), "only the first completion is announced")
	require.Equal(t, uid, pub.events[0].UserID)
}

func TestGoalTracker_CompleteUnknownGoal(t *testing.T) {
	tracker := NewGoalTracker(memory.New(), nil)
	require.NoError(t, tracker.Complete(context.Background(), 404))
}

func TestGoalTracker_ActiveGoalsProgress(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewLedgerService(store, nil, fixedCalendar(2024, time.January, 20))
	uid := newUser(t, store, "progress@example.com")

	goals := []struct {
		current, target string
		want            int64
	}{
		{"500", "5000", 10},
		{"10000", "5000", 100},
		{"5", "0", 0},
	}
	for _, g := range goals {
		_, err := svc.AddGoal(ctx, core.Goal{
			UserID: uid, Title: "G", CurrentAmount: core.MustParseMoney(g.current), TargetAmount: core.MustParseMoney(g.target),
		})
		require.NoError(t, err)
	}

	active, err := NewGoalTracker(store, nil).ActiveGoals(ctx, uid)
	require.NoError(t, err)
	require.Len(t, active, len(goals))
	for i, g := range goals {
		require.True(t, active[i].Progress.Equal(decimal.NewFromInt(g.want)), "goal %d: %s", i, active[i].Progress)
	}
}
