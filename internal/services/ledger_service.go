package services

import (
	"context"
	"fmt"
	"strings"

	"finance/internal/amqp"
	"finance/internal/core"
	"finance/internal/ledger"
)

// LedgerService is the write boundary in front of the ledger store. It
// normalizes and validates input, persists it and announces the change.
type LedgerService struct {
	store     ledger.Store
	publisher EventPublisher
	cal       Calendar
	currency  string
}

// Option adjusts a LedgerService at construction.
type Option func(*LedgerService)

// WithDefaultCurrency sets the currency given to users created without one.
// Blank keeps the built-in default.
func WithDefaultCurrency(currency string) Option {
	return func(s *LedgerService) {
		if c := strings.TrimSpace(currency); c != "" {
			s.currency = c
		}
	}
}

// NewLedgerService wires a store and an optional publisher (nil disables
// events).
func NewLedgerService(store ledger.Store, publisher EventPublisher, cal Calendar, opts ...Option) *LedgerService {
	s := &LedgerService{store: store, publisher: publisher, cal: cal, currency: core.DefaultCurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) CreateUser(ctx context.Context, u core.User) (int64, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Currency = strings.TrimSpace(u.Currency)
	if u.Currency == "" {
		u.Currency = s.currency
	}
	if err := u.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return 0, fmt.Errorf("save user: %w", err)
	}
	return id, nil
}

func (s *LedgerService) GetUser(ctx context.Context, id int64) (core.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *LedgerService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *LedgerService) AddIncome(ctx context.Context, in core.Income) (int64, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Description = strings.TrimSpace(in.Description)
	if err := in.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.AddIncome(ctx, in)
	if err != nil {
		return 0, fmt.Errorf("save income: %w", err)
	}
	publish(ctx, s.publisher, core.KindIncome, amqp.OpCreated, id, in.UserID)
	return id, nil
}

func (s *LedgerService) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	if c, err := core.ParseExpenseCategory(string(e.Category)); err == nil {
		e.Category = c
	}
	e.Kind = strings.TrimSpace(e.Kind)
	if e.Kind == "" {
		e.Kind = core.ExpenseKindVariable
	}
	e.Description = strings.TrimSpace(e.Description)
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.AddExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	publish(ctx, s.publisher, core.KindExpense, amqp.OpCreated, id, e.UserID)
	return id, nil
}

func (s *LedgerService) AddDebt(ctx context.Context, d core.Debt) (int64, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.TrimSpace(d.Type)
	if err := d.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.AddDebt(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("save debt: %w", err)
	}
	publish(ctx, s.publisher, core.KindDebt, amqp.OpCreated, id, d.UserID)
	return id, nil
}

// AddGoal stores a new, active goal. A missing created date means today.
func (s *LedgerService) AddGoal(ctx context.Context, g core.Goal) (int64, error) {
	g.Title = strings.TrimSpace(g.Title)
	t, err := core.ParseGoalType(string(g.Type))
	if err != nil {
		return 0, err
	}
	g.Type = t
	if g.CreatedDate.IsZero() {
		g.CreatedDate = s.cal.Today()
	}
	g.Completed = false
	if err := g.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.AddGoal(ctx, g)
	if err != nil {
		return 0, fmt.Errorf("save goal: %w", err)
	}
	publish(ctx, s.publisher, core.KindGoal, amqp.OpCreated, id, g.UserID)
	return id, nil
}

func (s *LedgerService) AddNotification(ctx context.Context, n core.Notification) (int64, error) {
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)
	if n.Date.IsZero() {
		n.Date = s.cal.Today()
	}
	if err := n.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.AddNotification(ctx, n)
	if err != nil {
		return 0, fmt.Errorf("save notification: %w", err)
	}
	return id, nil
}

// DeleteEntry removes one entry. Unknown ids are a no-op.
func (s *LedgerService) DeleteEntry(ctx context.Context, kind core.EntryKind, id int64) error {
	kind, err := core.ParseEntryKind(string(kind))
	if err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: invalid id %d", core.ErrInvalidInput, id)
	}
	if err := s.store.DeleteEntry(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	publish(ctx, s.publisher, kind, amqp.OpDeleted, id, 0)
	return nil
}

func (s *LedgerService) MarkNotificationRead(ctx context.Context, id int64) error {
	if err := s.store.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *LedgerService) ListIncomes(ctx context.Context, userID int64, q ledger.Query) ([]core.Income, error) {
	if err := checkQuery(q); err != nil {
		return nil, err
	}
	return s.store.ListIncomes(ctx, userID, q)
}

func (s *LedgerService) ListExpenses(ctx context.Context, userID int64, q ledger.Query) ([]core.Expense, error) {
	if err := checkQuery(q); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, userID, q)
}

func (s *LedgerService) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	return s.store.ListDebts(ctx, userID)
}

func (s *LedgerService) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *LedgerService) ListNotifications(ctx context.Context, userID int64) ([]core.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

func checkQuery(q ledger.Query) error {
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To.Time) {
		return fmt.Errorf("%w: range starts after it ends (%s > %s)", core.ErrInvalidInput, q.From, q.To)
	}
	return nil
}

// Close releases the store and, when it owns one, the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
