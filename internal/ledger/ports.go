package ledger

import (
	"context"
	"fmt"
	"strings"

	"finance/internal/core"
)

// Order selects how dated entries are returned.
type Order string

const (
	// NewestFirst orders by date descending, then id descending.
	NewestFirst Order = "desc"
	// OldestFirst orders by date ascending, then id ascending.
	OldestFirst Order = "asc"
)

// ParseOrder maps "asc"/"desc" (case-insensitive); blank means NewestFirst.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", NewestFirst:
		return NewestFirst, nil
	case OldestFirst:
		return OldestFirst, nil
	}
	return "", fmt.Errorf("%w: unknown order %q", core.ErrInvalidInput, s)
}

// Query narrows a dated listing. Zero bounds are open; both bounds are
// inclusive.
type Query struct {
	From  core.Date
	To    core.Date
	Order Order
}

// Ports for outbound adapters.
type (
	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (int64, error)
		// GetUser returns core.ErrNotFound for an unknown id.
		GetUser(ctx context.Context, id int64) (core.User, error)
		ListUsers(ctx context.Context) ([]core.User, error)
	}

	IncomeStore interface {
		AddIncome(ctx context.Context, in core.Income) (int64, error)
		ListIncomes(ctx context.Context, userID int64, q Query) ([]core.Income, error)
	}

	ExpenseStore interface {
		AddExpense(ctx context.Context, e core.Expense) (int64, error)
		ListExpenses(ctx context.Context, userID int64, q Query) ([]core.Expense, error)
	}

	DebtStore interface {
		AddDebt(ctx context.Context, d core.Debt) (int64, error)
		ListDebts(ctx context.Context, userID int64) ([]core.Debt, error)
	}

	GoalStore interface {
		AddGoal(ctx context.Context, g core.Goal) (int64, error)
		// GetGoal returns core.ErrNotFound for an unknown id.
		GetGoal(ctx context.Context, id int64) (core.Goal, error)
		// ListGoals returns goals in insertion order.
		ListGoals(ctx context.Context, userID int64) ([]core.Goal, error)
		// SetGoalCompleted is a no-op for a missing id.
		SetGoalCompleted(ctx context.Context, id int64) error
	}

	NotificationStore interface {
		AddNotification(ctx context.Context, n core.Notification) (int64, error)
		ListNotifications(ctx context.Context, userID int64) ([]core.Notification, error)
		MarkNotificationRead(ctx context.Context, id int64) error
	}

	EntryDeleter interface {
		// DeleteEntry removes one row. A missing id is a silent no-op; an
		// unknown kind yields core.ErrInvalidInput.
		DeleteEntry(ctx context.Context, kind core.EntryKind, id int64) error
	}

	// Store is the full ledger surface every backend implements.
	Store interface {
		UserStore
		IncomeStore
		ExpenseStore
		DebtStore
		GoalStore
		NotificationStore
		EntryDeleter
		Close() error
	}
)
