package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTrendMonths is the width of the income/expense trend window.
const DefaultTrendMonths = 6

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthBucket holds income and expense totals for one calendar month.
type MonthBucket struct {
	Start   Date // first day, inclusive
	End     Date // last day, inclusive
	Label   string
	Income  Money
	Expense Money
}

// Totals are the headline dashboard figures.
type Totals struct {
	Income   Money
	Expense  Money
	Savings  Money
	Debt     Money
	NetWorth Money
}

// GoalProgress pairs a goal with its derived percentage.
type GoalProgress struct {
	Goal     Goal
	Progress decimal.Decimal
}

// Dashboard is a full refresh snapshot for one user.
type Dashboard struct {
	User        User
	GeneratedAt time.Time
	Totals      Totals
	ByCategory  []CategoryAmount
	Monthly     []MonthBucket
	ActiveGoals []GoalProgress
}

func SumIncomes(items []Income) Money {
	var total Money
	for _, i := range items {
		total = total.Add(i.Amount)
	}
	return total
}

func SumExpenses(items []Expense) Money {
	var total Money
	for _, e := range items {
		total = total.Add(e.Amount)
	}
	return total
}

// SumSavings adds the current amount of every goal, completed or not.
func SumSavings(goals []Goal) Money {
	var total Money
	for _, g := range goals {
		total = total.Add(g.CurrentAmount)
	}
	return total
}

func SumDebts(debts []Debt) Money {
	var total Money
	for _, d := range debts {
		total = total.Add(d.CurrentAmount)
	}
	return total
}

// NetWorth is savings minus debt.
func NetWorth(savings, debt Money) Money {
	return savings.Sub(debt)
}

// ExpensesByCategory sums expenses per category. Only categories whose sum is
// strictly positive are present.
func ExpensesByCategory(items []Expense) map[string]Money {
	sums := make(map[string]Money)
	for _, e := range items {
		key := string(e.Category)
		sums[key] = sums[key].Add(e.Amount)
	}
	for k, v := range sums {
		if !v.IsPositive() {
			delete(sums, k)
		}
	}
	return sums
}

// SortCategoryAmounts orders a category map by amount descending, then name.
func SortCategoryAmounts(sums map[string]Money) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Amount.Cmp(out[j].Amount.Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MonthWindows returns n empty month buckets ending at anchor's month, oldest
// first. n below 1 falls back to DefaultTrendMonths.
func MonthWindows(anchor Date, n int) []MonthBucket {
	if n < 1 {
		n = DefaultTrendMonths
	}
	buckets := make([]MonthBucket, n)
	first := anchor.AddMonths(-(n - 1))
	for i := range buckets {
		start := first.AddMonths(i)
		buckets[i] = MonthBucket{
			Start: start,
			End:   start.MonthEnd(),
			Label: start.Format("Jan 2006"),
		}
	}
	return buckets
}

// BucketMonthly spreads incomes and expenses over the n months ending at
// anchor. Entries outside the window are ignored; empty months stay at zero.
func BucketMonthly(anchor Date, n int, incomes []Income, expenses []Expense) []MonthBucket {
	buckets := MonthWindows(anchor, n)
	find := func(d Date) int {
		for i, b := range buckets {
			if d.Within(b.Start, b.End) {
				return i
			}
		}
		return -1
	}
	for _, in := range incomes {
		if i := find(in.Date); i >= 0 {
			buckets[i].Income = buckets[i].Income.Add(in.Amount)
		}
	}
	for _, ex := range expenses {
		if i := find(ex.Date); i >= 0 {
			buckets[i].Expense = buckets[i].Expense.Add(ex.Amount)
		}
	}
	return buckets
}

// ActiveGoals filters out completed goals, preserving order.
func ActiveGoals(goals []Goal) []Goal {
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if !g.Completed {
			out = append(out, g)
		}
	}
	return out
}
