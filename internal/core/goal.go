package core

import "github.com/shopspring/decimal"

// GoalState is the lifecycle of a savings goal: Active -> Completed, never back.
type GoalState string

const (
	GoalActive    GoalState = "active"
	GoalCompleted GoalState = "completed"
)

var hundred = decimal.NewFromInt(100)

// State derives the lifecycle state from the completed flag.
func (g Goal) State() GoalState {
	if g.Completed {
		return GoalCompleted
	}
	return GoalActive
}

// Complete moves the goal to GoalCompleted. It reports whether the state
// changed; completing twice is a no-op.
func (g *Goal) Complete() bool {
	if g.Completed {
		return false
	}
	g.Completed = true
	return true
}

// Progress returns current/target as a percentage clamped to [0, 100].
// A goal without a positive target has no meaningful progress and reports 0.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Amount.Div(g.TargetAmount.Amount).Mul(hundred)
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// Reached reports whether current savings meet the target.
func (g Goal) Reached() bool {
	return g.TargetAmount.IsPositive() && !g.CurrentAmount.Amount.LessThan(g.TargetAmount.Amount)
}

// Remaining is the amount still missing, never negative.
func (g Goal) Remaining() Money {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return Money{}
	}
	return r
}
