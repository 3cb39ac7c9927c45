// Package postgres is a ledger.Store backed by PostgreSQL through a pgx
// connection pool. Amounts live in NUMERIC columns and travel as text so
// no precision is lost.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"finance/internal/core"
	"finance/internal/ledger"
	"finance/internal/storage"
)

type Store struct {
	pool *pgxpool.Pool
}

var _ ledger.Store = (*Store)(nil)

// Open connects, pings and migrates. Failures are core.ErrStorageUnavailable.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", core.ErrStorageUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping database: %w", core.ErrStorageUnavailable, err)
	}
	if err := RunMigrations(url); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}
	return nil
}

func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503": // unique_violation, foreign_key_violation
			return fmt.Errorf("%s: %w: %s", op, core.ErrWriteRejected, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) CreateUser(ctx context.Context, u core.User) (int64, error) {
	if u.Currency == "" {
		u.Currency = core.DefaultCurrency
	}
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, currency) VALUES ($1, $2, $3) RETURNING id`,
		u.Name, u.Email, u.Currency).Scan(&id)
	if err != nil {
		return 0, mapError("create user", err)
	}
	return id, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	var u storage.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, currency FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, mapError("get user", err)
	}
	return storage.UserFromRow(u), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, email, currency FROM users ORDER BY id`)
	if err != nil {
		return nil, mapError("list users", err)
	}
	defer rows.Close()
	var out []core.User
	for rows.Next() {
		var u storage.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Currency); err != nil {
			return nil, err
		}
		out = append(out, storage.UserFromRow(u))
	}
	return out, rows.Err()
}

func (s *Store) AddIncome(ctx context.Context, in core.Income) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO incomes (user_id, type, amount, date, description)
		 VALUES ($1, $2, $3::text::numeric, $4::text::date, $5) RETURNING id`,
		in.UserID, in.Type, in.Amount.String(), in.Date.String(), in.Description).Scan(&id)
	if err != nil {
		return 0, mapError("create income", err)
	}
	slog.InfoContext(ctx, "Income saved to Postgres", "id", id, "user_id", in.UserID)
	return id, nil
}

func (s *Store) ListIncomes(ctx context.Context, userID int64, q ledger.Query) ([]core.Income, error) {
	from, to := rangeArgs(q)
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, type, amount::text, to_char(date, 'YYYY-MM-DD'), description
		 FROM incomes WHERE user_id = $1`+dateRange+orderBy(q.Order),
		userID, from, to)
	if err != nil {
		return nil, mapError("list incomes", err)
	}
	defer rows.Close()
	var out []core.Income
	for rows.Next() {
		var r storage.Income
		var amount string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Type, &amount, &r.Date, &r.Description); err != nil {
			return nil, err
		}
		if r.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		in, err := storage.IncomeFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (s *Store) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO expenses (user_id, category, kind, amount, date, description)
		 VALUES ($1, $2, $3, $4::text::numeric, $5::text::date, $6) RETURNING id`,
		e.UserID, string(e.Category), e.Kind, e.Amount.String(), e.Date.String(), e.Description).Scan(&id)
	if err != nil {
		return 0, mapError("create expense", err)
	}
	slog.InfoContext(ctx, "Expense saved to Postgres", "id", id, "user_id", e.UserID)
	return id, nil
}

func (s *Store) ListExpenses(ctx context.Context, userID int64, q ledger.Query) ([]core.Expense, error) {
	from, to := rangeArgs(q)
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, category, kind, amount::text, to_char(date, 'YYYY-MM-DD'), description
		 FROM expenses WHERE user_id = $1`+dateRange+orderBy(q.Order),
		userID, from, to)
	if err != nil {
		return nil, mapError("list expenses", err)
	}
	defer rows.Close()
	var out []core.Expense
	for rows.Next() {
		var r storage.Expense
		var amount string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Category, &r.Kind, &amount, &r.Date, &r.Description); err != nil {
			return nil, err
		}
		if r.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		e, err := storage.ExpenseFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) AddDebt(ctx context.Context, d core.Debt) (int64, error) {
	var rate *string
	if d.InterestRate.Valid {
		v := d.InterestRate.Decimal.String()
		rate = &v
	}
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO debts (user_id, name, type, initial_amount, current_amount, interest_rate, start_date, due_date)
		 VALUES ($1, $2, $3, $4::text::numeric, $5::text::numeric, $6::text::numeric, $7::text::date, $8::text::date)
		 RETURNING id`,
		d.UserID, d.Name, d.Type, d.InitialAmount.String(), d.CurrentAmount.String(), rate,
		optionalDate(d.StartDate), optionalDate(d.DueDate)).Scan(&id)
	if err != nil {
		return 0, mapError("create debt", err)
	}
	return id, nil
}

func (s *Store) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, type, initial_amount::text, current_amount::text, interest_rate::text,
		        to_char(start_date, 'YYYY-MM-DD'), to_char(due_date, 'YYYY-MM-DD')
		 FROM debts WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, mapError("list debts", err)
	}
	defer rows.Close()
	var out []core.Debt
	for rows.Next() {
		var r storage.Debt
		var initial, current string
		var rate, start, due *string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Type, &initial, &current, &rate, &start, &due); err != nil {
			return nil, err
		}
		if r.InitialAmount, err = parseDecimal(initial); err != nil {
			return nil, err
		}
		if r.CurrentAmount, err = parseDecimal(current); err != nil {
			return nil, err
		}
		if rate != nil {
			v, err := parseDecimal(*rate)
			if err != nil {
				return nil, err
			}
			r.InterestRate.Decimal, r.InterestRate.Valid = v, true
		}
		r.StartDate, r.DueDate = nullString(start), nullString(due)
		d, err := storage.DebtFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) AddGoal(ctx context.Context, g core.Goal) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO goals (user_id, title, type, current_amount, target_amount, created_date, target_date, completed)
		 VALUES ($1, $2, $3, $4::text::numeric, $5::text::numeric, $6::text::date, $7::text::date, $8)
		 RETURNING id`,
		g.UserID, g.Title, string(g.Type), g.CurrentAmount.String(), g.TargetAmount.String(),
		g.CreatedDate.String(), optionalDate(g.TargetDate), g.Completed).Scan(&id)
	if err != nil {
		return 0, mapError("create goal", err)
	}
	return id, nil
}

const goalColumns = `id, user_id, title, type, current_amount::text, target_amount::text,
	to_char(created_date, 'YYYY-MM-DD'), to_char(target_date, 'YYYY-MM-DD'), completed`

func scanGoal(row pgx.Row) (core.Goal, error) {
	var r storage.Goal
	var current, target string
	var targetDate *string
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Type, &current, &target,
		&r.CreatedDate, &targetDate, &r.Completed); err != nil {
		return core.Goal{}, err
	}
	var err error
	if r.CurrentAmount, err = parseDecimal(current); err != nil {
		return core.Goal{}, err
	}
	if r.TargetAmount, err = parseDecimal(target); err != nil {
		return core.Goal{}, err
	}
	r.TargetDate = nullString(targetDate)
	return storage.GoalFromRow(r)
}

func (s *Store) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	g, err := scanGoal(s.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, mapError("get goal", err)
	}
	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, mapError("list goals", err)
	}
	defer rows.Close()
	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) SetGoalCompleted(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `UPDATE goals SET completed = TRUE WHERE id = $1`, id); err != nil {
		return mapError("complete goal", err)
	}
	return nil
}

func (s *Store) AddNotification(ctx context.Context, n core.Notification) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, title, message, date, read)
		 VALUES ($1, $2, $3, $4::text::date, $5) RETURNING id`,
		n.UserID, n.Title, n.Message, n.Date.String(), n.Read).Scan(&id)
	if err != nil {
		return 0, mapError("create notification", err)
	}
	return id, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID int64) ([]core.Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, message, to_char(date, 'YYYY-MM-DD'), read
		 FROM notifications WHERE user_id = $1 ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, mapError("list notifications", err)
	}
	defer rows.Close()
	var out []core.Notification
	for rows.Next() {
		var r storage.Notification
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Message, &r.Date, &r.Read); err != nil {
			return nil, err
		}
		n, err := storage.NotificationFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id); err != nil {
		return mapError("mark notification read", err)
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, kind core.EntryKind, id int64) error {
	table, err := storage.TableFor(kind)
	if err != nil {
		return err
	}
	// table comes from a fixed set
	if _, err := s.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id); err != nil {
		return mapError("delete "+string(kind), err)
	}
	return nil
}
