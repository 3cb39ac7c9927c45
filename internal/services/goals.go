package services

import (
	"context"
	"errors"
	"fmt"

	"finance/internal/amqp"
	"finance/internal/core"
	"finance/internal/ledger"
)

// GoalTracker reports goal progress and drives the Active -> Completed
// transition.
type GoalTracker struct {
	store     ledger.Store
	publisher EventPublisher
}

func NewGoalTracker(store ledger.Store, publisher EventPublisher) *GoalTracker {
	return &GoalTracker{store: store, publisher: publisher}
}

// ActiveGoals lists the user's uncompleted goals in insertion order, each
// with its progress percentage.
func (t *GoalTracker) ActiveGoals(ctx context.Context, userID int64) ([]core.GoalProgress, error) {
	goals, err := t.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	active := core.ActiveGoals(goals)
	out := make([]core.GoalProgress, 0, len(active))
	for _, g := range active {
		out = append(out, core.GoalProgress{Goal: g, Progress: g.Progress()})
	}
	return out, nil
}

// Complete marks a goal completed. Completing an unknown or already
// completed goal is a no-op; only the first completion emits an event.
func (t *GoalTracker) Complete(ctx context.Context, goalID int64) error {
	g, err := t.store.GetGoal(ctx, goalID)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("complete goal: %w", err)
	}
	if !g.Complete() {
		return nil
	}
	if err := t.store.SetGoalCompleted(ctx, goalID); err != nil {
		return fmt.Errorf("complete goal: %w", err)
	}
	publish(ctx, t.publisher, core.KindGoal, amqp.OpCompleted, goalID, g.UserID)
	return nil
}
