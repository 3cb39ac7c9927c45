// Package memory is an in-process ledger.Store used for tests and for
// running without a database.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"finance/internal/core"
	"finance/internal/ledger"
)

// Store keeps every table in slices guarded by one mutex.
type Store struct {
	mu     sync.Mutex
	nextID map[string]int64

	users         []core.User
	incomes       []core.Income
	expenses      []core.Expense
	debts         []core.Debt
	goals         []core.Goal
	notifications []core.Notification
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextID: map[string]int64{}}
}

func (s *Store) Close() error { return nil }

// next returns the following id for table; callers hold s.mu.
func (s *Store) next(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// requireUser mirrors the foreign key the SQL backends enforce.
func (s *Store) requireUser(id int64) error {
	for _, u := range s.users {
		if u.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: user %d does not exist", core.ErrWriteRejected, id)
}

func (s *Store) CreateUser(_ context.Context, u core.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return 0, fmt.Errorf("%w: email %q already registered", core.ErrWriteRejected, u.Email)
		}
	}
	if u.Currency == "" {
		u.Currency = core.DefaultCurrency
	}
	u.ID = s.next("users")
	s.users = append(s.users, u)
	return u.ID, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return core.User{}, fmt.Errorf("user %d: %w", id, core.ErrNotFound)
}

func (s *Store) ListUsers(_ context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.User(nil), s.users...), nil
}

func (s *Store) AddIncome(_ context.Context, in core.Income) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUser(in.UserID); err != nil {
		return 0, err
	}
	in.ID = s.next("incomes")
	s.incomes = append(s.incomes, in)
	return in.ID, nil
}

func (s *Store) ListIncomes(_ context.Context, userID int64, q ledger.Query) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Income
	for _, in := range s.incomes {
		if in.UserID == userID && in.Date.Within(q.From, q.To) {
			out = append(out, in)
		}
	}
	ledger.SortIncomes(out, q.Order)
	return out, nil
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUser(e.UserID); err != nil {
		return 0, err
	}
	e.ID = s.next("expenses")
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) ListExpenses(_ context.Context, userID int64, q ledger.Query) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && e.Date.Within(q.From, q.To) {
			out = append(out, e)
		}
	}
	ledger.SortExpenses(out, q.Order)
	return out, nil
}

func (s *Store) AddDebt(_ context.Context, d core.Debt) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUser(d.UserID); err != nil {
		return 0, err
	}
	d.ID = s.next("debts")
	s.debts = append(s.debts, d)
	return d.ID, nil
}

func (s *Store) ListDebts(_ context.Context, userID int64) ([]core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Debt
	for _, d := range s.debts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) AddGoal(_ context.Context, g core.Goal) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUser(g.UserID); err != nil {
		return 0, err
	}
	g.ID = s.next("goals")
	s.goals = append(s.goals, g)
	return g.ID, nil
}

func (s *Store) GetGoal(_ context.Context, id int64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, fmt.Errorf("goal %d: %w", id, core.ErrNotFound)
}

func (s *Store) ListGoals(_ context.Context, userID int64) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Store) SetGoalCompleted(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals[i].Complete()
			return nil
		}
	}
	return nil
}

func (s *Store) AddNotification(_ context.Context, n core.Notification) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUser(n.UserID); err != nil {
		return 0, err
	}
	n.ID = s.next("notifications")
	s.notifications = append(s.notifications, n)
	return n.ID, nil
}

// ListNotifications returns the newest notifications first.
func (s *Store) ListNotifications(_ context.Context, userID int64) ([]core.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if n := s.notifications[i]; n.UserID == userID {
			out = append(out, n)
		}
	}
	sortNotifications(out)
	return out, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
		}
	}
	return nil
}

func (s *Store) DeleteEntry(_ context.Context, kind core.EntryKind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case core.KindIncome:
		s.incomes = remove(s.incomes, func(v core.Income) bool { return v.ID == id })
	case core.KindExpense:
		s.expenses = remove(s.expenses, func(v core.Expense) bool { return v.ID == id })
	case core.KindDebt:
		s.debts = remove(s.debts, func(v core.Debt) bool { return v.ID == id })
	case core.KindGoal:
		s.goals = remove(s.goals, func(v core.Goal) bool { return v.ID == id })
	case core.KindNotification:
		s.notifications = remove(s.notifications, func(v core.Notification) bool { return v.ID == id })
	default:
		return fmt.Errorf("%w: %q", core.ErrInvalidEntryKind, kind)
	}
	return nil
}

func remove[T any](items []T, match func(T) bool) []T {
	out := items[:0]
	for _, v := range items {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out
}
