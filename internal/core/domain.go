package core

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

const (
	KindIncome       EntryKind = "income"
	KindExpense      EntryKind = "expense"
	KindDebt         EntryKind = "debt"
	KindGoal         EntryKind = "goal"
	KindNotification EntryKind = "notification"
)

const (
	Housing       ExpenseCategory = "Housing"
	Food          ExpenseCategory = "Food"
	Transport     ExpenseCategory = "Transport"
	Entertainment ExpenseCategory = "Entertainment"
	Health        ExpenseCategory = "Health"
	Education     ExpenseCategory = "Education"
	OtherExpense  ExpenseCategory = "Other"
)

const (
	GoalEmergency  GoalType = "Emergency"
	GoalVacation   GoalType = "Vacation"
	GoalEducation  GoalType = "Education"
	GoalRetirement GoalType = "Retirement"
	GoalOther      GoalType = "Other"
)

const (
	// ExpenseKindVariable is the only kind the entry forms produce.
	ExpenseKindVariable = "Variable"
	ExpenseKindFixed    = "Fixed"

	DefaultCurrency = "$"
	maxTextLength   = 200
)

// IncomeTypes are the suggested income types; any non-blank text is accepted.
var IncomeTypes = []string{"Salary", "Freelance", "Investments", "Royalties", "Other"}

// ExpenseCategories is the fixed set an expense may be filed under.
var ExpenseCategories = []ExpenseCategory{Housing, Food, Transport, Entertainment, Health, Education, OtherExpense}

// GoalTypes lists the accepted goal types.
var GoalTypes = []GoalType{GoalEmergency, GoalVacation, GoalEducation, GoalRetirement, GoalOther}

type (
	EntryKind       string
	ExpenseCategory string
	GoalType        string

	User struct {
		ID       int64
		Name     string
		Email    string
		Currency string
	}

	Income struct {
		ID          int64
		UserID      int64
		Type        string
		Amount      Money
		Date        Date
		Description string
	}

	Expense struct {
		ID          int64
		UserID      int64
		Category    ExpenseCategory
		Kind        string
		Amount      Money
		Date        Date
		Description string
	}

	Debt struct {
		ID            int64
		UserID        int64
		Name          string
		Type          string
		InitialAmount Money
		CurrentAmount Money
		InterestRate  decimal.NullDecimal
		StartDate     Date // optional
		DueDate       Date // optional
	}

	Goal struct {
		ID            int64
		UserID        int64
		Title         string
		Type          GoalType
		CurrentAmount Money
		TargetAmount  Money
		CreatedDate   Date
		TargetDate    Date // optional
		Completed     bool
	}

	Notification struct {
		ID      int64
		UserID  int64
		Title   string
		Message string
		Date    Date
		Read    bool
	}
)

// EntryKinds lists every kind DeleteEntry understands.
var EntryKinds = []EntryKind{KindIncome, KindExpense, KindDebt, KindGoal, KindNotification}

// ParseEntryKind accepts both singular and plural forms ("income", "incomes").
func ParseEntryKind(s string) (EntryKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "s")
	for _, k := range EntryKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntryKind, s)
}

// ParseExpenseCategory matches case-insensitively against the fixed set.
// Unknown input yields an error suggesting the closest valid category.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	s = strings.TrimSpace(s)
	best, bestDist := OtherExpense, -1
	for _, c := range ExpenseCategories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
		d := levenshtein.ComputeDistance(strings.ToLower(s), strings.ToLower(string(c)))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if s != "" && bestDist <= 3 {
		return "", fmt.Errorf("%w: %q (did you mean %q?)", ErrInvalidCategory, s, best)
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c ExpenseCategory) Valid() bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ParseGoalType matches case-insensitively; blank input means GoalOther.
func ParseGoalType(s string) (GoalType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return GoalOther, nil
	}
	for _, t := range GoalTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGoalType, s)
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, u.Email)
	}
	return nil
}

func (i Income) Validate() error {
	if i.UserID <= 0 {
		return ErrInvalidUser
	}
	if strings.TrimSpace(i.Type) == "" {
		return ErrEmptyType
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	return validateDescription(i.Description)
}

func (e Expense) Validate() error {
	if e.UserID <= 0 {
		return ErrInvalidUser
	}
	if !e.Category.Valid() {
		if _, err := ParseExpenseCategory(string(e.Category)); err != nil {
			return err
		}
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if strings.TrimSpace(e.Kind) == "" {
		return ErrEmptyType
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return validateDescription(e.Description)
}

func (d Debt) Validate() error {
	if d.UserID <= 0 {
		return ErrInvalidUser
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(d.Type) == "" {
		return ErrEmptyType
	}
	if err := d.InitialAmount.Validate(); err != nil {
		return fmt.Errorf("initial amount: %w", err)
	}
	if err := d.CurrentAmount.Validate(); err != nil {
		return fmt.Errorf("current amount: %w", err)
	}
	if d.InterestRate.Valid && d.InterestRate.Decimal.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative", ErrInvalidInput)
	}
	return nil
}

func (g Goal) Validate() error {
	if g.UserID <= 0 {
		return ErrInvalidUser
	}
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if len(g.Title) > maxTextLength {
		return fmt.Errorf("%w: title too long (max %d characters)", ErrInvalidInput, maxTextLength)
	}
	if _, err := ParseGoalType(string(g.Type)); err != nil {
		return err
	}
	if err := g.CurrentAmount.Validate(); err != nil {
		return fmt.Errorf("current amount: %w", err)
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return fmt.Errorf("target amount: %w", err)
	}
	if err := g.CreatedDate.Validate(); err != nil {
		return err
	}
	return nil
}

func (n Notification) Validate() error {
	if n.UserID <= 0 {
		return ErrInvalidUser
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(n.Message) == "" {
		return ErrEmptyMessage
	}
	return n.Date.Validate()
}

func validateDescription(s string) error {
	if len(s) > maxTextLength {
		return fmt.Errorf("%w: description too long (max %d characters)", ErrInvalidInput, maxTextLength)
	}
	return nil
}

// Date is a calendar date stored as midnight UTC.
type Date struct {
	time.Time
}

const isoDate = "2006-01-02"

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf takes the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoDate, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD; the zero date is empty.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(isoDate)
}

// MonthStart returns the first day of d's month.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// MonthEnd returns the last day of d's month.
func (d Date) MonthEnd() Date {
	return NewDate(d.Year(), d.Month()+1, 0)
}

// AddMonths shifts by whole calendar months, anchored at the first of the month
// so that no day overflow occurs.
func (d Date) AddMonths(n int) Date {
	return NewDate(d.Year(), d.Month()+time.Month(n), 1)
}

// AddDays shifts by whole days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Within reports whether d lies in [from, to], both inclusive. A zero bound
// is open.
func (d Date) Within(from, to Date) bool {
	if !from.IsZero() && d.Before(from.Time) {
		return false
	}
	if !to.IsZero() && d.After(to.Time) {
		return false
	}
	return true
}
