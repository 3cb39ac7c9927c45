package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"finance/internal/core"
	"finance/internal/ledger"
)

// Reporter computes read-only aggregates over one user's ledger. Missing
// data is reported as zero, never as an error.
type Reporter struct {
	store       ledger.Store
	cal         Calendar
	trendMonths int
}

func NewReporter(store ledger.Store, cal Calendar, trendMonths int) *Reporter {
	if trendMonths < 1 {
		trendMonths = core.DefaultTrendMonths
	}
	return &Reporter{store: store, cal: cal, trendMonths: trendMonths}
}

func (r *Reporter) TotalIncome(ctx context.Context, userID int64) (core.Money, error) {
	items, err := r.store.ListIncomes(ctx, userID, ledger.Query{})
	if err != nil {
		return core.Money{}, fmt.Errorf("total income: %w", err)
	}
	return core.SumIncomes(items), nil
}

func (r *Reporter) TotalExpense(ctx context.Context, userID int64) (core.Money, error) {
	items, err := r.store.ListExpenses(ctx, userID, ledger.Query{})
	if err != nil {
		return core.Money{}, fmt.Errorf("total expense: %w", err)
	}
	return core.SumExpenses(items), nil
}

// TotalSavings sums the current amount of every goal, completed or not.
func (r *Reporter) TotalSavings(ctx context.Context, userID int64) (core.Money, error) {
	goals, err := r.store.ListGoals(ctx, userID)
	if err != nil {
		return core.Money{}, fmt.Errorf("total savings: %w", err)
	}
	return core.SumSavings(goals), nil
}

func (r *Reporter) TotalDebt(ctx context.Context, userID int64) (core.Money, error) {
	debts, err := r.store.ListDebts(ctx, userID)
	if err != nil {
		return core.Money{}, fmt.Errorf("total debt: %w", err)
	}
	return core.SumDebts(debts), nil
}

// NetWorth is TotalSavings minus TotalDebt.
func (r *Reporter) NetWorth(ctx context.Context, userID int64) (core.Money, error) {
	savings, err := r.TotalSavings(ctx, userID)
	if err != nil {
		return core.Money{}, err
	}
	debt, err := r.TotalDebt(ctx, userID)
	if err != nil {
		return core.Money{}, err
	}
	return core.NetWorth(savings, debt), nil
}

// ExpenseByCategory maps category to total; categories summing to zero or
// less are absent.
func (r *Reporter) ExpenseByCategory(ctx context.Context, userID int64) (map[string]core.Money, error) {
	items, err := r.store.ListExpenses(ctx, userID, ledger.Query{})
	if err != nil {
		return nil, fmt.Errorf("expense by category: %w", err)
	}
	return core.ExpensesByCategory(items), nil
}

// MonthlySeries returns exactly monthCount buckets ending with the current
// month, oldest first. monthCount below 1 uses the configured default.
func (r *Reporter) MonthlySeries(ctx context.Context, userID int64, monthCount int) ([]core.MonthBucket, error) {
	if monthCount < 1 {
		monthCount = r.trendMonths
	}
	today := r.cal.Today()
	windows := core.MonthWindows(today, monthCount)
	q := ledger.Query{From: windows[0].Start, To: windows[len(windows)-1].End}

	incomes, err := r.store.ListIncomes(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	expenses, err := r.store.ListExpenses(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}
	return core.BucketMonthly(today, monthCount, incomes, expenses), nil
}

// Dashboard assembles a full refresh snapshot for the user. An unknown
// user yields core.ErrNotFound.
func (r *Reporter) Dashboard(ctx context.Context, userID int64, monthCount int) (core.Dashboard, error) {
	if monthCount < 1 {
		monthCount = r.trendMonths
	}
	user, err := r.store.GetUser(ctx, userID)
	if err != nil {
		return core.Dashboard{}, err
	}

	var (
		incomes  []core.Income
		expenses []core.Expense
		goals    []core.Goal
		debts    []core.Debt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		incomes, err = r.store.ListIncomes(gctx, userID, ledger.Query{})
		return err
	})
	g.Go(func() (err error) {
		expenses, err = r.store.ListExpenses(gctx, userID, ledger.Query{})
		return err
	})
	g.Go(func() (err error) {
		goals, err = r.store.ListGoals(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		debts, err = r.store.ListDebts(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	now := r.cal.now()
	savings, debt := core.SumSavings(goals), core.SumDebts(debts)
	d := core.Dashboard{
		User:        user,
		GeneratedAt: now,
		Totals: core.Totals{
			Income:   core.SumIncomes(incomes),
			Expense:  core.SumExpenses(expenses),
			Savings:  savings,
			Debt:     debt,
			NetWorth: core.NetWorth(savings, debt),
		},
		ByCategory: core.SortCategoryAmounts(core.ExpensesByCategory(expenses)),
		Monthly:    core.BucketMonthly(core.DateOf(now), monthCount, incomes, expenses),
	}
	for _, goal := range core.ActiveGoals(goals) {
		d.ActiveGoals = append(d.ActiveGoals, core.GoalProgress{Goal: goal, Progress: goal.Progress()})
	}
	return d, nil
}
