package ledger

import (
	"errors"
	"testing"

	"finance/internal/core"
)

func TestParseOrder(t *testing.T) {
	cases := map[string]Order{"": NewestFirst, "desc": NewestFirst, "ASC": OldestFirst, " asc ": OldestFirst}
	for in, want := range cases {
		got, err := ParseOrder(in)
		if err != nil || got != want {
			t.Fatalf("ParseOrder(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseOrder("sideways"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSortIncomesTieBreaksOnID(t *testing.T) {
	d1 := core.NewDate(2024, 1, 1)
	d2 := core.NewDate(2024, 2, 1)
	items := []core.Income{{ID: 1, Date: d1}, {ID: 2, Date: d2}, {ID: 3, Date: d2}}

	SortIncomes(items, NewestFirst)
	if items[0].ID != 3 || items[1].ID != 2 || items[2].ID != 1 {
		t.Fatalf("unexpected newest-first order: %+v", items)
	}
	SortIncomes(items, OldestFirst)
	if items[0].ID != 1 || items[1].ID != 2 || items[2].ID != 3 {
		t.Fatalf("unexpected oldest-first order: %+v", items)
	}
}
