package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance/internal/amqp"
	"finance/internal/core"
	"finance/internal/ledger"
)

// Notification titles produced by the notifier and the reminder processor.
const (
	TitleGoalCompleted  = "Goal completed"
	TitleOverspending   = "Spending above income"
	TitleDebtDueSoon    = "Debt due soon"
	TitleGoalPastTarget = "Goal past target date"
)

// Notifier turns ledger events into notifications for the user.
type Notifier struct {
	store ledger.Store
	cal   Calendar
}

func NewNotifier(store ledger.Store, cal Calendar) *Notifier {
	return &Notifier{store: store, cal: cal}
}

// Handle reacts to one event. Events it does not care about are ignored.
func (n *Notifier) Handle(ctx context.Context, event *amqp.LedgerEvent) error {
	switch event.Type() {
	case "goal.completed":
		return n.goalCompleted(ctx, event.EntryID)
	case "expense.created":
		return n.checkSpending(ctx, event.UserID)
	}
	return nil
}

func (n *Notifier) goalCompleted(ctx context.Context, goalID int64) error {
	g, err := n.store.GetGoal(ctx, goalID)
	if errors.Is(err, core.ErrNotFound) {
		slog.DebugContext(ctx, "Completed goal no longer exists", "goal_id", goalID)
		return nil
	}
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Congratulations! You completed your goal %q.", g.Title)
	_, err = notifyOnce(ctx, n.store, core.Notification{
		UserID:  g.UserID,
		Title:   TitleGoalCompleted,
		Message: msg,
		Date:    n.cal.Today(),
	}, msg)
	return err
}

// checkSpending warns once per day when this month's expenses exceed its
// income.
func (n *Notifier) checkSpending(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return nil
	}
	today := n.cal.Today()
	q := ledger.Query{From: today.MonthStart(), To: today.MonthEnd()}
	incomes, err := n.store.ListIncomes(ctx, userID, q)
	if err != nil {
		return err
	}
	expenses, err := n.store.ListExpenses(ctx, userID, q)
	if err != nil {
		return err
	}
	income, spent := core.SumIncomes(incomes), core.SumExpenses(expenses)
	if !spent.GreaterThan(income) {
		return nil
	}
	user, err := n.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	// Amounts change with every expense, so one warning per day is enough.
	_, err = notifyOnce(ctx, n.store, core.Notification{
		UserID: userID,
		Title:  TitleOverspending,
		Message: fmt.Sprintf("Your expenses this month (%s) are above your income (%s).",
			spent.Format(user.Currency), income.Format(user.Currency)),
		Date: today,
	}, "")
	return err
}

// notifyOnce stores n unless the user already has a notification with the
// same title on the same day whose message starts with subject. An empty
// subject allows one notification per title per day. It reports whether a
// notification was created.
func notifyOnce(ctx context.Context, store ledger.Store, n core.Notification, subject string) (bool, error) {
	existing, err := store.ListNotifications(ctx, n.UserID)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.Title == n.Title && e.Date.Equal(n.Date.Time) && strings.HasPrefix(e.Message, subject) {
			return false, nil
		}
	}
	if _, err := store.AddNotification(ctx, n); err != nil {
		return false, fmt.Errorf("add notification: %w", err)
	}
	slog.InfoContext(ctx, "Notification created", "user_id", n.UserID, "title", n.Title)
	return true, nil
}
