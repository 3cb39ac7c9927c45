// Package ledgertest holds the behaviour every ledger.Store backend must
// share. Backend packages call Run from their own tests.
package ledgertest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"finance/internal/core"
	"finance/internal/ledger"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) ledger.Store

// Run executes the shared store suite.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s ledger.Store)
	}{
		{"Users", testUsers},
		{"IncomeRoundTrip", testIncomeRoundTrip},
		{"ListingIsPerUser", testListingIsPerUser},
		{"DateRangeInclusive", testDateRangeInclusive},
		{"DefaultOrderNewestFirst", testDefaultOrder},
		{"PrecisionKept", testPrecisionKept},
		{"NegativeStoredAsGiven", testNegativeStoredAsGiven},
		{"UnknownUserRejected", testUnknownUserRejected},
		{"DeleteEntry", testDeleteEntry},
		{"Goals", testGoals},
		{"Debts", testDebts},
		{"Notifications", testNotifications},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

func mustUser(t *testing.T, s ledger.Store, email string) int64 {
	t.Helper()
	id, err := s.CreateUser(context.Background(), core.User{Name: "Test", Email: email})
	require.NoError(t, err)
	require.Positive(t, id)
	return id
}

func money(s string) core.Money { return core.MustParseMoney(s) }

func testUsers(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	id := mustUser(t, s, "a@example.com")

	u, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", u.Email)
	require.Equal(t, core.DefaultCurrency, u.Currency)

	_, err = s.CreateUser(ctx, core.User{Name: "Dup", Email: "a@example.com"})
	require.ErrorIs(t, err, core.ErrWriteRejected)

	_, err = s.GetUser(ctx, id+100)
	require.ErrorIs(t, err, core.ErrNotFound)

	eur, err := s.CreateUser(ctx, core.User{Name: "B", Email: "b@example.com", Currency: "€"})
	require.NoError(t, err)
	u, err = s.GetUser(ctx, eur)
	require.NoError(t, err)
	require.Equal(t, "€", u.Currency)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func testIncomeRoundTrip(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "inc@example.com")
	in := core.Income{UserID: uid, Type: "Salary", Amount: money("2500.00"), Date: core.NewDate(2024, 3, 1), Description: "March"}

	id, err := s.AddIncome(ctx, in)
	require.NoError(t, err)

	got, err := s.ListIncomes(ctx, uid, ledger.Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, id, got[0].ID)
	require.Equal(t, uid, got[0].UserID)
	require.Equal(t, "Salary", got[0].Type)
	require.True(t, got[0].Amount.Equal(money("2500")), "amount %s", got[0].Amount)
	require.Equal(t, "2024-03-01", got[0].Date.String())
	require.Equal(t, "March", got[0].Description)
}

func testListingIsPerUser(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	u1 := mustUser(t, s, "one@example.com")
	u2 := mustUser(t, s, "two@example.com")
	d := core.NewDate(2024, 1, 10)

	_, err := s.AddExpense(ctx, core.Expense{UserID: u1, Category: core.Food, Kind: core.ExpenseKindVariable, Amount: money("10"), Date: d})
	require.NoError(t, err)
	_, err = s.AddExpense(ctx, core.Expense{UserID: u2, Category: core.Food, Kind: core.ExpenseKindVariable, Amount: money("20"), Date: d})
	require.NoError(t, err)
	_, err = s.AddGoal(ctx, core.Goal{UserID: u2, Title: "Car", Type: core.GoalOther, TargetAmount: money("100"), CreatedDate: d})
	require.NoError(t, err)

	got, err := s.ListExpenses(ctx, u1, ledger.Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Amount.Equal(money("10")))

	goals, err := s.ListGoals(ctx, u1)
	require.NoError(t, err)
	require.Empty(t, goals)
}

func testDateRangeInclusive(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "range@example.com")
	for _, d := range []core.Date{
		core.NewDate(2024, 1, 31),
		core.NewDate(2024, 2, 1),
		core.NewDate(2024, 2, 29),
		core.NewDate(2024, 3, 1),
	} {
		_, err := s.AddIncome(ctx, core.Income{UserID: uid, Type: "Salary", Amount: money("1"), Date: d})
		require.NoError(t, err)
	}

	got, err := s.ListIncomes(ctx, uid, ledger.Query{From: core.NewDate(2024, 2, 1), To: core.NewDate(2024, 2, 29)})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "2024-02-29", got[0].Date.String())
	require.Equal(t, "2024-02-01", got[1].Date.String())

	got, err = s.ListIncomes(ctx, uid, ledger.Query{From: core.NewDate(2024, 2, 15)})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func testDefaultOrder(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "order@example.com")
	add := func(d core.Date) int64 {
		id, err := s.AddExpense(ctx, core.Expense{UserID: uid, Category: core.Housing, Kind: core.ExpenseKindFixed, Amount: money("1"), Date: d})
		require.NoError(t, err)
		return id
	}
	a := add(core.NewDate(2024, 1, 1))
	b := add(core.NewDate(2024, 5, 1))
	c := add(core.NewDate(2024, 5, 1))

	got, err := s.ListExpenses(ctx, uid, ledger.Query{})
	require.NoError(t, err)
	require.Equal(t, []int64{c, b, a}, expenseIDs(got))

	got, err = s.ListExpenses(ctx, uid, ledger.Query{Order: ledger.OldestFirst})
	require.NoError(t, err)
	require.Equal(t, []int64{a, b, c}, expenseIDs(got))
}

func expenseIDs(items []core.Expense) []int64 {
	out := make([]int64, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

func testPrecisionKept(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "precise@example.com")
	_, err := s.AddIncome(ctx, core.Income{UserID: uid, Type: "Other", Amount: money("0.005"), Date: core.NewDate(2024, 1, 1)})
	require.NoError(t, err)
	_, err = s.AddIncome(ctx, core.Income{UserID: uid, Type: "Other", Amount: money("1234567890.123456789"), Date: core.NewDate(2024, 1, 2)})
	require.NoError(t, err)

	got, err := s.ListIncomes(ctx, uid, ledger.Query{Order: ledger.OldestFirst})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "0.005", got[0].Amount.String())
	require.Equal(t, "1234567890.123456789", got[1].Amount.String())
}

func testNegativeStoredAsGiven(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "neg@example.com")
	_, err := s.AddExpense(ctx, core.Expense{UserID: uid, Category: core.Food, Kind: core.ExpenseKindVariable, Amount: money("-5.25"), Date: core.NewDate(2024, 1, 1)})
	require.NoError(t, err)

	got, err := s.ListExpenses(ctx, uid, ledger.Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Amount.Equal(money("-5.25")))
}

func testUnknownUserRejected(t *testing.T, s ledger.Store) {
	_, err := s.AddIncome(context.Background(), core.Income{UserID: 999, Type: "Salary", Amount: money("1"), Date: core.NewDate(2024, 1, 1)})
	require.ErrorIs(t, err, core.ErrWriteRejected)
}

func testDeleteEntry(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "del@example.com")
	id, err := s.AddIncome(ctx, core.Income{UserID: uid, Type: "Salary", Amount: money("1"), Date: core.NewDate(2024, 1, 1)})
	require.NoError(t, err)
	keep, err := s.AddIncome(ctx, core.Income{UserID: uid, Type: "Salary", Amount: money("2"), Date: core.NewDate(2024, 1, 2)})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry(ctx, core.KindIncome, id))
	require.NoError(t, s.DeleteEntry(ctx, core.KindIncome, id), "deleting twice is a no-op")
	require.NoError(t, s.DeleteEntry(ctx, core.KindGoal, 12345), "missing id is a no-op")

	got, err := s.ListIncomes(ctx, uid, ledger.Query{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, keep, got[0].ID)

	err = s.DeleteEntry(ctx, core.EntryKind("users"), uid)
	require.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = s.GetUser(ctx, uid)
	require.NoError(t, err)

	for _, kind := range core.EntryKinds {
		require.NoError(t, s.DeleteEntry(ctx, kind, 777))
	}
}

func testGoals(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "goals@example.com")
	created := core.NewDate(2024, 1, 1)
	first, err := s.AddGoal(ctx, core.Goal{UserID: uid, Title: "Emergency Fund", Type: core.GoalEmergency,
		CurrentAmount: money("500"), TargetAmount: money("5000"), CreatedDate: created, TargetDate: core.NewDate(2024, 6, 29)})
	require.NoError(t, err)
	second, err := s.AddGoal(ctx, core.Goal{UserID: uid, Title: "Trip", Type: core.GoalVacation,
		TargetAmount: money("0"), CreatedDate: created})
	require.NoError(t, err)

	goals, err := s.ListGoals(ctx, uid)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	require.Equal(t, first, goals[0].ID)
	require.Equal(t, second, goals[1].ID)
	require.Equal(t, core.GoalEmergency, goals[0].Type)
	require.Equal(t, "2024-06-29", goals[0].TargetDate.String())
	require.True(t, goals[1].TargetDate.IsZero())
	require.False(t, goals[0].Completed)

	g, err := s.GetGoal(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "Emergency Fund", g.Title)
	require.True(t, g.CurrentAmount.Equal(money("500")))
	_, err = s.GetGoal(ctx, 4242)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, s.SetGoalCompleted(ctx, first))
	require.NoError(t, s.SetGoalCompleted(ctx, first))
	require.NoError(t, s.SetGoalCompleted(ctx, 4242))

	goals, err = s.ListGoals(ctx, uid)
	require.NoError(t, err)
	require.True(t, goals[0].Completed)
	require.False(t, goals[1].Completed)
}

func testDebts(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "debts@example.com")
	_, err := s.AddDebt(ctx, core.Debt{UserID: uid, Name: "Car loan", Type: "Loan",
		InitialAmount: money("10000"), CurrentAmount: money("7500.50"),
		InterestRate: decimal.NewNullDecimal(decimal.RequireFromString("4.25")),
		StartDate:    core.NewDate(2023, 1, 1), DueDate: core.NewDate(2026, 1, 1)})
	require.NoError(t, err)
	_, err = s.AddDebt(ctx, core.Debt{UserID: uid, Name: "Friend", Type: "Personal",
		InitialAmount: money("100"), CurrentAmount: money("100")})
	require.NoError(t, err)

	debts, err := s.ListDebts(ctx, uid)
	require.NoError(t, err)
	require.Len(t, debts, 2)
	require.True(t, debts[0].CurrentAmount.Equal(money("7500.5")))
	require.True(t, debts[0].InterestRate.Valid)
	require.True(t, debts[0].InterestRate.Decimal.Equal(decimal.RequireFromString("4.25")))
	require.Equal(t, "2026-01-01", debts[0].DueDate.String())
	require.False(t, debts[1].InterestRate.Valid)
	require.True(t, debts[1].DueDate.IsZero())
}

func testNotifications(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	uid := mustUser(t, s, "notes@example.com")
	older, err := s.AddNotification(ctx, core.Notification{UserID: uid, Title: "Old", Message: "m", Date: core.NewDate(2024, 1, 1)})
	require.NoError(t, err)
	newer, err := s.AddNotification(ctx, core.Notification{UserID: uid, Title: "New", Message: "m", Date: core.NewDate(2024, 2, 1)})
	require.NoError(t, err)

	require.NoError(t, s.MarkNotificationRead(ctx, older))
	require.NoError(t, s.MarkNotificationRead(ctx, 9999))

	got, err := s.ListNotifications(ctx, uid)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, newer, got[0].ID)
	require.False(t, got[0].Read)
	require.Equal(t, older, got[1].ID)
	require.True(t, got[1].Read)
}
