package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finance/internal/core"
	"finance/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the default durable ledger.Store.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ ledger.Store = (*SQLiteRepository)(nil)

// dsn enables foreign keys and waits on a busy database instead of failing.
func dsn(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies migrations. Any failure is reported as core.ErrStorageUnavailable.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %w", core.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", core.ErrStorageUnavailable, err)
	}
	// One writer at a time; SQLite serializes mutations anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", core.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(dsn(dbPath)); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database still answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (int64, error) {
	if u.Currency == "" {
		u.Currency = core.DefaultCurrency
	}
	id, err := r.queries.CreateUser(ctx, u.Name, u.Email, u.Currency)
	if err != nil {
		return 0, mapError("create user", err)
	}
	slog.InfoContext(ctx, "User saved to SQLite", "id", id)
	return id, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	u, err := r.queries.GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, mapError("get user", err)
	}
	return UserFromRow(u), nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.queries.ListUsers(ctx)
	if err != nil {
		return nil, mapError("list users", err)
	}
	out := make([]core.User, len(rows))
	for i, u := range rows {
		out[i] = UserFromRow(u)
	}
	return out, nil
}

func (r *SQLiteRepository) AddIncome(ctx context.Context, in core.Income) (int64, error) {
	id, err := r.queries.CreateIncome(ctx, CreateIncomeParams{
		UserID:      in.UserID,
		Type:        in.Type,
		Amount:      in.Amount.Amount,
		Date:        in.Date.String(),
		Description: in.Description,
	})
	if err != nil {
		return 0, mapError("create income", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite",
		"id", id,
		"user_id", in.UserID,
		"amount", in.Amount.String(),
		"date", in.Date.String())

	return id, nil
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID int64, q ledger.Query) ([]core.Income, error) {
	from, to := Bounds(q.From, q.To)
	rows, err := r.queries.ListIncomes(ctx, userID, from, to, q.Order != ledger.OldestFirst)
	if err != nil {
		return nil, mapError("list incomes", err)
	}
	out := make([]core.Income, 0, len(rows))
	for _, row := range rows {
		in, err := IncomeFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	id, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		UserID:      e.UserID,
		Category:    string(e.Category),
		Kind:        e.Kind,
		Amount:      e.Amount.Amount,
		Date:        e.Date.String(),
		Description: e.Description,
	})
	if err != nil {
		return 0, mapError("create expense", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"user_id", e.UserID,
		"category", e.Category,
		"amount", e.Amount.String(),
		"date", e.Date.String())

	return id, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64, q ledger.Query) ([]core.Expense, error) {
	from, to := Bounds(q.From, q.To)
	rows, err := r.queries.ListExpenses(ctx, userID, from, to, q.Order != ledger.OldestFirst)
	if err != nil {
		return nil, mapError("list expenses", err)
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := ExpenseFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *SQLiteRepository) AddDebt(ctx context.Context, d core.Debt) (int64, error) {
	id, err := r.queries.CreateDebt(ctx, CreateDebtParams{
		UserID:        d.UserID,
		Name:          d.Name,
		Type:          d.Type,
		InitialAmount: d.InitialAmount.Amount,
		CurrentAmount: d.CurrentAmount.Amount,
		InterestRate:  d.InterestRate,
		StartDate:     NullDate(d.StartDate),
		DueDate:       NullDate(d.DueDate),
	})
	if err != nil {
		return 0, mapError("create debt", err)
	}
	slog.InfoContext(ctx, "Debt saved to SQLite", "id", id, "user_id", d.UserID)
	return id, nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	rows, err := r.queries.ListDebts(ctx, userID)
	if err != nil {
		return nil, mapError("list debts", err)
	}
	out := make([]core.Debt, 0, len(rows))
	for _, row := range rows {
		d, err := DebtFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *SQLiteRepository) AddGoal(ctx context.Context, g core.Goal) (int64, error) {
	id, err := r.queries.CreateGoal(ctx, CreateGoalParams{
		UserID:        g.UserID,
		Title:         g.Title,
		Type:          string(g.Type),
		CurrentAmount: g.CurrentAmount.Amount,
		TargetAmount:  g.TargetAmount.Amount,
		CreatedDate:   g.CreatedDate.String(),
		TargetDate:    NullDate(g.TargetDate),
		Completed:     g.Completed,
	})
	if err != nil {
		return 0, mapError("create goal", err)
	}
	slog.InfoContext(ctx, "Goal saved to SQLite", "id", id, "user_id", g.UserID, "title", g.Title)
	return id, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row, err := r.queries.GetGoal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, mapError("get goal", err)
	}
	return GoalFromRow(row)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.queries.ListGoals(ctx, userID)
	if err != nil {
		return nil, mapError("list goals", err)
	}
	out := make([]core.Goal, 0, len(rows))
	for _, row := range rows {
		g, err := GoalFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *SQLiteRepository) SetGoalCompleted(ctx context.Context, id int64) error {
	if err := r.queries.SetGoalCompleted(ctx, id); err != nil {
		return mapError("complete goal", err)
	}
	return nil
}

func (r *SQLiteRepository) AddNotification(ctx context.Context, n core.Notification) (int64, error) {
	id, err := r.queries.CreateNotification(ctx, CreateNotificationParams{
		UserID:  n.UserID,
		Title:   n.Title,
		Message: n.Message,
		Date:    n.Date.String(),
		Read:    n.Read,
	})
	if err != nil {
		return 0, mapError("create notification", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context, userID int64) ([]core.Notification, error) {
	rows, err := r.queries.ListNotifications(ctx, userID)
	if err != nil {
		return nil, mapError("list notifications", err)
	}
	out := make([]core.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := NotificationFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkNotificationRead(ctx context.Context, id int64) error {
	if err := r.queries.MarkNotificationRead(ctx, id); err != nil {
		return mapError("mark notification read", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, kind core.EntryKind, id int64) error {
	table, err := TableFor(kind)
	if err != nil {
		return err
	}
	if err := r.queries.DeleteRow(ctx, table, id); err != nil {
		return mapError("delete "+string(kind), err)
	}
	slog.InfoContext(ctx, "Entry deleted from SQLite", "kind", kind, "id", id)
	return nil
}
