package storage

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Row types mirror the tables one to one.

type User struct {
	ID       int64
	Name     string
	Email    string
	Currency string
}

type Income struct {
	ID          int64
	UserID      int64
	Type        string
	Amount      decimal.Decimal
	Date        string
	Description string
}

type Expense struct {
	ID          int64
	UserID      int64
	Category    string
	Kind        string
	Amount      decimal.Decimal
	Date        string
	Description string
}

type Debt struct {
	ID            int64
	UserID        int64
	Name          string
	Type          string
	InitialAmount decimal.Decimal
	CurrentAmount decimal.Decimal
	InterestRate  decimal.NullDecimal
	StartDate     sql.NullString
	DueDate       sql.NullString
}

type Goal struct {
	ID            int64
	UserID        int64
	Title         string
	Type          string
	CurrentAmount decimal.Decimal
	TargetAmount  decimal.Decimal
	CreatedDate   string
	TargetDate    sql.NullString
	Completed     bool
}

type Notification struct {
	ID      int64
	UserID  int64
	Title   string
	Message string
	Date    string
	Read    bool
}
