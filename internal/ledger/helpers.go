package ledger

import (
	"sort"

	"finance/internal/core"
)

// SortIncomes orders incomes in place according to o.
func SortIncomes(items []core.Income, o Order) {
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i].Date, items[j].Date, items[i].ID, items[j].ID, o)
	})
}

// SortExpenses orders expenses in place according to o.
func SortExpenses(items []core.Expense, o Order) {
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i].Date, items[j].Date, items[i].ID, items[j].ID, o)
	})
}

func less(di, dj core.Date, idi, idj int64, o Order) bool {
	if !di.Equal(dj.Time) {
		if o == OldestFirst {
			return di.Before(dj.Time)
		}
		return di.After(dj.Time)
	}
	if o == OldestFirst {
		return idi < idj
	}
	return idi > idj
}
