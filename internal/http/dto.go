package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"finance/internal/core"
)

// decimalText accepts a JSON string or number and keeps its exact text, so
// amounts never pass through float64.
type decimalText string

func (d *decimalText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = decimalText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a string or number")
	}
	*d = decimalText(n.String())
	return nil
}

type (
	createUserRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Currency string `json:"currency"`
	}

	createIncomeRequest struct {
		Type        string      `json:"type"`
		Amount      decimalText `json:"amount"`
		Date        string      `json:"date"`
		Description string      `json:"description"`
	}

	createExpenseRequest struct {
		Category    string      `json:"category"`
		Kind        string      `json:"kind"`
		Amount      decimalText `json:"amount"`
		Date        string      `json:"date"`
		Description string      `json:"description"`
	}

	createDebtRequest struct {
		Name          string      `json:"name"`
		Type          string      `json:"type"`
		InitialAmount decimalText `json:"initial_amount"`
		CurrentAmount decimalText `json:"current_amount"`
		InterestRate  decimalText `json:"interest_rate"`
		StartDate     string      `json:"start_date"`
		DueDate       string      `json:"due_date"`
	}

	createGoalRequest struct {
		Title         string      `json:"title"`
		Type          string      `json:"type"`
		CurrentAmount decimalText `json:"current_amount"`
		TargetAmount  decimalText `json:"target_amount"`
		TargetDate    string      `json:"target_date"`
	}

	createNotificationRequest struct {
		Title   string `json:"title"`
		Message string `json:"message"`
		Date    string `json:"date"`
	}
)

// moneyJSON carries the exact decimal and its display form.
type moneyJSON struct {
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
}

func money(m core.Money, symbol string) moneyJSON {
	return moneyJSON{Amount: m.String(), Formatted: m.Format(symbol)}
}

type (
	userResponse struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Currency string `json:"currency"`
	}

	incomeResponse struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"user_id"`
		Type        string    `json:"type"`
		Amount      moneyJSON `json:"amount"`
		Date        string    `json:"date"`
		Description string    `json:"description,omitempty"`
	}

	expenseResponse struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"user_id"`
		Category    string    `json:"category"`
		Kind        string    `json:"kind"`
		Amount      moneyJSON `json:"amount"`
		Date        string    `json:"date"`
		Description string    `json:"description,omitempty"`
	}

	debtResponse struct {
		ID            int64     `json:"id"`
		UserID        int64     `json:"user_id"`
		Name          string    `json:"name"`
		Type          string    `json:"type"`
		InitialAmount moneyJSON `json:"initial_amount"`
		CurrentAmount moneyJSON `json:"current_amount"`
		InterestRate  *string   `json:"interest_rate,omitempty"`
		StartDate     string    `json:"start_date,omitempty"`
		DueDate       string    `json:"due_date,omitempty"`
	}

	goalResponse struct {
		ID            int64     `json:"id"`
		UserID        int64     `json:"user_id"`
		Title         string    `json:"title"`
		Type          string    `json:"type"`
		CurrentAmount moneyJSON `json:"current_amount"`
		TargetAmount  moneyJSON `json:"target_amount"`
		Remaining     moneyJSON `json:"remaining"`
		Progress      string    `json:"progress_percent"`
		CreatedDate   string    `json:"created_date"`
		TargetDate    string    `json:"target_date,omitempty"`
		Completed     bool      `json:"completed"`
	}

	notificationResponse struct {
		ID      int64  `json:"id"`
		UserID  int64  `json:"user_id"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Date    string `json:"date"`
		Read    bool   `json:"read"`
	}

	createdResponse struct {
		ID int64 `json:"id"`
	}

	totalsResponse struct {
		Income   moneyJSON `json:"income"`
		Expense  moneyJSON `json:"expense"`
		Savings  moneyJSON `json:"savings"`
		Debt     moneyJSON `json:"debt"`
		NetWorth moneyJSON `json:"net_worth"`
	}

	categoryResponse struct {
		Category string    `json:"category"`
		Amount   moneyJSON `json:"amount"`
	}

	monthResponse struct {
		Label   string    `json:"label"`
		Start   string    `json:"start"`
		End     string    `json:"end"`
		Income  moneyJSON `json:"income"`
		Expense moneyJSON `json:"expense"`
	}

	dashboardResponse struct {
		User        userResponse       `json:"user"`
		GeneratedAt time.Time          `json:"generated_at"`
		Totals      totalsResponse     `json:"totals"`
		ByCategory  []categoryResponse `json:"expense_by_category"`
		Monthly     []monthResponse    `json:"monthly"`
		ActiveGoals []goalResponse     `json:"active_goals"`
	}
)

func toUser(u core.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Currency: u.Currency}
}

func toIncome(in core.Income, symbol string) incomeResponse {
	return incomeResponse{
		ID: in.ID, UserID: in.UserID, Type: in.Type,
		Amount: money(in.Amount, symbol), Date: in.Date.String(), Description: in.Description,
	}
}

func toExpense(e core.Expense, symbol string) expenseResponse {
	return expenseResponse{
		ID: e.ID, UserID: e.UserID, Category: string(e.Category), Kind: e.Kind,
		Amount: money(e.Amount, symbol), Date: e.Date.String(), Description: e.Description,
	}
}

func toDebt(d core.Debt, symbol string) debtResponse {
	out := debtResponse{
		ID: d.ID, UserID: d.UserID, Name: d.Name, Type: d.Type,
		InitialAmount: money(d.InitialAmount, symbol),
		CurrentAmount: money(d.CurrentAmount, symbol),
		StartDate:     d.StartDate.String(),
		DueDate:       d.DueDate.String(),
	}
	if d.InterestRate.Valid {
		rate := d.InterestRate.Decimal.String()
		out.InterestRate = &rate
	}
	return out
}

func toGoal(g core.Goal, symbol string) goalResponse {
	return goalResponse{
		ID: g.ID, UserID: g.UserID, Title: g.Title, Type: string(g.Type),
		CurrentAmount: money(g.CurrentAmount, symbol),
		TargetAmount:  money(g.TargetAmount, symbol),
		Remaining:     money(g.Remaining(), symbol),
		Progress:      g.Progress().StringFixed(2),
		CreatedDate:   g.CreatedDate.String(),
		TargetDate:    g.TargetDate.String(),
		Completed:     g.Completed,
	}
}

func toNotification(n core.Notification) notificationResponse {
	return notificationResponse{ID: n.ID, UserID: n.UserID, Title: n.Title, Message: n.Message, Date: n.Date.String(), Read: n.Read}
}

func toDashboard(d core.Dashboard) dashboardResponse {
	sym := d.User.Currency
	out := dashboardResponse{
		User:        toUser(d.User),
		GeneratedAt: d.GeneratedAt,
		Totals: totalsResponse{
			Income:   money(d.Totals.Income, sym),
			Expense:  money(d.Totals.Expense, sym),
			Savings:  money(d.Totals.Savings, sym),
			Debt:     money(d.Totals.Debt, sym),
			NetWorth: money(d.Totals.NetWorth, sym),
		},
		ByCategory:  make([]categoryResponse, 0, len(d.ByCategory)),
		Monthly:     make([]monthResponse, 0, len(d.Monthly)),
		ActiveGoals: make([]goalResponse, 0, len(d.ActiveGoals)),
	}
	for _, c := range d.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryResponse{Category: c.Name, Amount: money(c.Amount, sym)})
	}
	for _, b := range d.Monthly {
		out.Monthly = append(out.Monthly, monthResponse{
			Label: b.Label, Start: b.Start.String(), End: b.End.String(),
			Income: money(b.Income, sym), Expense: money(b.Expense, sym),
		})
	}
	for _, g := range d.ActiveGoals {
		out.ActiveGoals = append(out.ActiveGoals, toGoal(g.Goal, sym))
	}
	return out
}

func mapSlice[T, R any](items []T, f func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}
