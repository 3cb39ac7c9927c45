package storage

import (
	"database/sql"
	"fmt"

	"finance/internal/core"
)

const (
	minDate = "0001-01-01"
	maxDate = "9999-12-31"
)

func NullDate(d core.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(s sql.NullString) (core.Date, error) {
	if !s.Valid || s.String == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s.String)
}

// Bounds turns open query bounds into ISO strings usable in BETWEEN-style
// comparisons.
func Bounds(from, to core.Date) (string, string) {
	lo, hi := minDate, maxDate
	if !from.IsZero() {
		lo = from.String()
	}
	if !to.IsZero() {
		hi = to.String()
	}
	return lo, hi
}

func UserFromRow(u User) core.User {
	return core.User{ID: u.ID, Name: u.Name, Email: u.Email, Currency: u.Currency}
}

func IncomeFromRow(r Income) (core.Income, error) {
	d, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Income{}, fmt.Errorf("income %d: %w", r.ID, err)
	}
	return core.Income{
		ID: r.ID, UserID: r.UserID, Type: r.Type,
		Amount: core.NewMoney(r.Amount), Date: d, Description: r.Description,
	}, nil
}

func ExpenseFromRow(r Expense) (core.Expense, error) {
	d, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", r.ID, err)
	}
	return core.Expense{
		ID: r.ID, UserID: r.UserID, Category: core.ExpenseCategory(r.Category), Kind: r.Kind,
		Amount: core.NewMoney(r.Amount), Date: d, Description: r.Description,
	}, nil
}

func DebtFromRow(r Debt) (core.Debt, error) {
	start, err := parseNullDate(r.StartDate)
	if err != nil {
		return core.Debt{}, fmt.Errorf("debt %d: %w", r.ID, err)
	}
	due, err := parseNullDate(r.DueDate)
	if err != nil {
		return core.Debt{}, fmt.Errorf("debt %d: %w", r.ID, err)
	}
	return core.Debt{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Type: r.Type,
		InitialAmount: core.NewMoney(r.InitialAmount),
		CurrentAmount: core.NewMoney(r.CurrentAmount),
		InterestRate:  r.InterestRate,
		StartDate:     start,
		DueDate:       due,
	}, nil
}

func GoalFromRow(r Goal) (core.Goal, error) {
	created, err := core.ParseDate(r.CreatedDate)
	if err != nil {
		return core.Goal{}, fmt.Errorf("goal %d: %w", r.ID, err)
	}
	target, err := parseNullDate(r.TargetDate)
	if err != nil {
		return core.Goal{}, fmt.Errorf("goal %d: %w", r.ID, err)
	}
	return core.Goal{
		ID: r.ID, UserID: r.UserID, Title: r.Title, Type: core.GoalType(r.Type),
		CurrentAmount: core.NewMoney(r.CurrentAmount),
		TargetAmount:  core.NewMoney(r.TargetAmount),
		CreatedDate:   created,
		TargetDate:    target,
		Completed:     r.Completed,
	}, nil
}

func NotificationFromRow(r Notification) (core.Notification, error) {
	d, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Notification{}, fmt.Errorf("notification %d: %w", r.ID, err)
	}
	return core.Notification{
		ID: r.ID, UserID: r.UserID, Title: r.Title, Message: r.Message, Date: d, Read: r.Read,
	}, nil
}

// TableFor maps an entry kind onto its table.
func TableFor(kind core.EntryKind) (string, error) {
	switch kind {
	case core.KindIncome:
		return "incomes", nil
	case core.KindExpense:
		return "expenses", nil
	case core.KindDebt:
		return "debts", nil
	case core.KindGoal:
		return "goals", nil
	case core.KindNotification:
		return "notifications", nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidEntryKind, kind)
}
