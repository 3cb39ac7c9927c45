package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func goalWith(current, target string) Goal {
	return Goal{CurrentAmount: MustParseMoney(current), TargetAmount: MustParseMoney(target)}
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		current, target string
		want            string
	}{
		{"500", "5000", "10"},
		{"0", "5000", "0"},
		{"5000", "5000", "100"},
		{"10000", "5000", "100"}, // clamped
		{"100", "0", "0"},        // no target
		{"-5", "100", "0"},
		{"250", "1000", "25"},
	}
	for _, tc := range cases {
		got := goalWith(tc.current, tc.target).Progress()
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("progress(%s/%s) = %s, want %s", tc.current, tc.target, got, tc.want)
		}
	}
}

func TestGoalProgressMonotonic(t *testing.T) {
	prev := decimal.NewFromInt(-1)
	for cents := int64(0); cents <= 1200000; cents += 25000 {
		g := Goal{CurrentAmount: MoneyFromCents(cents), TargetAmount: MustParseMoney("5000")}
		p := g.Progress()
		if p.LessThan(prev) {
			t.Fatalf("progress decreased at %d cents: %s < %s", cents, p, prev)
		}
		if p.GreaterThan(hundred) || p.IsNegative() {
			t.Fatalf("progress out of range: %s", p)
		}
		prev = p
	}
}

func TestGoalCompleteIsOneWay(t *testing.T) {
	g := goalWith("10", "100")
	if g.State() != GoalActive {
		t.Fatalf("new goal should be active")
	}
	if !g.Complete() {
		t.Fatalf("first complete should change state")
	}
	if g.Complete() {
		t.Fatalf("second complete should be a no-op")
	}
	if g.State() != GoalCompleted {
		t.Fatalf("expected completed, got %s", g.State())
	}
}

func TestGoalRemainingAndReached(t *testing.T) {
	if r := goalWith("500", "5000").Remaining(); !r.Equal(MustParseMoney("4500")) {
		t.Fatalf("remaining = %s", r)
	}
	over := goalWith("6000", "5000")
	if !over.Remaining().IsZero() || !over.Reached() {
		t.Fatalf("over-funded goal should be reached with nothing remaining")
	}
	if goalWith("0", "0").Reached() {
		t.Fatalf("goal without target is never reached")
	}
}
