package storage

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

const createUser = `INSERT INTO users (name, email, currency) VALUES (?, ?, ?) RETURNING id`

func (q *Queries) CreateUser(ctx context.Context, name, email, currency string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createUser, name, email, currency).Scan(&id)
	return id, err
}

const getUser = `SELECT id, name, email, currency FROM users WHERE id = ?`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUser, id).Scan(&u.ID, &u.Name, &u.Email, &u.Currency)
	return u, err
}

const listUsers = `SELECT id, name, email, currency FROM users ORDER BY id`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Currency); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

const createIncome = `INSERT INTO incomes (user_id, type, amount, date, description)
VALUES (?, ?, ?, ?, ?) RETURNING id`

type CreateIncomeParams struct {
	UserID      int64
	Type        string
	Amount      decimal.Decimal
	Date        string
	Description string
}

func (q *Queries) CreateIncome(ctx context.Context, arg CreateIncomeParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createIncome,
		arg.UserID, arg.Type, arg.Amount.String(), arg.Date, arg.Description,
	).Scan(&id)
	return id, err
}

const listIncomes = `SELECT id, user_id, type, amount, date, description FROM incomes
WHERE user_id = ? AND date >= ? AND date <= ?`

func (q *Queries) ListIncomes(ctx context.Context, userID int64, from, to string, desc bool) ([]Income, error) {
	rows, err := q.db.QueryContext(ctx, listIncomes+orderBy(desc), userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Income
	for rows.Next() {
		var i Income
		if err := rows.Scan(&i.ID, &i.UserID, &i.Type, &i.Amount, &i.Date, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createExpense = `INSERT INTO expenses (user_id, category, kind, amount, date, description)
VALUES (?, ?, ?, ?, ?, ?) RETURNING id`

type CreateExpenseParams struct {
	UserID      int64
	Category    string
	Kind        string
	Amount      decimal.Decimal
	Date        string
	Description string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createExpense,
		arg.UserID, arg.Category, arg.Kind, arg.Amount.String(), arg.Date, arg.Description,
	).Scan(&id)
	return id, err
}

const listExpenses = `SELECT id, user_id, category, kind, amount, date, description FROM expenses
WHERE user_id = ? AND date >= ? AND date <= ?`

func (q *Queries) ListExpenses(ctx context.Context, userID int64, from, to string, desc bool) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses+orderBy(desc), userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Category, &e.Kind, &e.Amount, &e.Date, &e.Description); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const createDebt = `INSERT INTO debts (user_id, name, type, initial_amount, current_amount, interest_rate, start_date, due_date)
VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

type CreateDebtParams struct {
	UserID        int64
	Name          string
	Type          string
	InitialAmount decimal.Decimal
	CurrentAmount decimal.Decimal
	InterestRate  decimal.NullDecimal
	StartDate     sql.NullString
	DueDate       sql.NullString
}

func (q *Queries) CreateDebt(ctx context.Context, arg CreateDebtParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createDebt,
		arg.UserID, arg.Name, arg.Type, arg.InitialAmount.String(), arg.CurrentAmount.String(),
		arg.InterestRate, arg.StartDate, arg.DueDate,
	).Scan(&id)
	return id, err
}

const listDebts = `SELECT id, user_id, name, type, initial_amount, current_amount, interest_rate, start_date, due_date
FROM debts WHERE user_id = ? ORDER BY id`

func (q *Queries) ListDebts(ctx context.Context, userID int64) ([]Debt, error) {
	rows, err := q.db.QueryContext(ctx, listDebts, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Debt
	for rows.Next() {
		var d Debt
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Type, &d.InitialAmount, &d.CurrentAmount,
			&d.InterestRate, &d.StartDate, &d.DueDate); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const createGoal = `INSERT INTO goals (user_id, title, type, current_amount, target_amount, created_date, target_date, completed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

type CreateGoalParams struct {
	UserID        int64
	Title         string
	Type          string
	CurrentAmount decimal.Decimal
	TargetAmount  decimal.Decimal
	CreatedDate   string
	TargetDate    sql.NullString
	Completed     bool
}

func (q *Queries) CreateGoal(ctx context.Context, arg CreateGoalParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createGoal,
		arg.UserID, arg.Title, arg.Type, arg.CurrentAmount.String(), arg.TargetAmount.String(),
		arg.CreatedDate, arg.TargetDate, arg.Completed,
	).Scan(&id)
	return id, err
}

const listGoals = `SELECT id, user_id, title, type, current_amount, target_amount, created_date, target_date, completed
FROM goals WHERE user_id = ? ORDER BY id`

func (q *Queries) ListGoals(ctx context.Context, userID int64) ([]Goal, error) {
	rows, err := q.db.QueryContext(ctx, listGoals, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Type, &g.CurrentAmount, &g.TargetAmount,
			&g.CreatedDate, &g.TargetDate, &g.Completed); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const getGoal = `SELECT id, user_id, title, type, current_amount, target_amount, created_date, target_date, completed
FROM goals WHERE id = ?`

func (q *Queries) GetGoal(ctx context.Context, id int64) (Goal, error) {
	var g Goal
	err := q.db.QueryRowContext(ctx, getGoal, id).Scan(&g.ID, &g.UserID, &g.Title, &g.Type, &g.CurrentAmount,
		&g.TargetAmount, &g.CreatedDate, &g.TargetDate, &g.Completed)
	return g, err
}

const setGoalCompleted = `UPDATE goals SET completed = 1 WHERE id = ?`

func (q *Queries) SetGoalCompleted(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, setGoalCompleted, id)
	return err
}

const createNotification = `INSERT INTO notifications (user_id, title, message, date, read)
VALUES (?, ?, ?, ?, ?) RETURNING id`

type CreateNotificationParams struct {
	UserID  int64
	Title   string
	Message string
	Date    string
	Read    bool
}

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createNotification,
		arg.UserID, arg.Title, arg.Message, arg.Date, arg.Read,
	).Scan(&id)
	return id, err
}

const listNotifications = `SELECT id, user_id, title, message, date, read FROM notifications
WHERE user_id = ? ORDER BY date DESC, id DESC`

func (q *Queries) ListNotifications(ctx context.Context, userID int64) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Date, &n.Read); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

const markNotificationRead = `UPDATE notifications SET read = 1 WHERE id = ?`

func (q *Queries) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markNotificationRead, id)
	return err
}

// Table names come from a fixed map, never from input.
var deleteByTable = map[string]string{
	"incomes":       `DELETE FROM incomes WHERE id = ?`,
	"expenses":      `DELETE FROM expenses WHERE id = ?`,
	"debts":         `DELETE FROM debts WHERE id = ?`,
	"goals":         `DELETE FROM goals WHERE id = ?`,
	"notifications": `DELETE FROM notifications WHERE id = ?`,
}

func (q *Queries) DeleteRow(ctx context.Context, table string, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteByTable[table], id)
	return err
}

func orderBy(desc bool) string {
	if desc {
		return ` ORDER BY date DESC, id DESC`
	}
	return ` ORDER BY date ASC, id ASC`
}
