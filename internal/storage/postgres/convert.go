package postgres

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"finance/internal/core"
	"finance/internal/ledger"
)

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode numeric %q: %w", s, err)
	}
	return d, nil
}

func optionalDate(d core.Date) *string {
	if d.IsZero() {
		return nil
	}
	s := d.String()
	return &s
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// dateRange filters on the dates passed as $2 and $3. An unset bound is
// NULL and matches every row.
const dateRange = ` AND ($2::text IS NULL OR date >= $2::text::date)` +
	` AND ($3::text IS NULL OR date <= $3::text::date)`

func rangeArgs(q ledger.Query) (from, to *string) {
	return optionalDate(q.From), optionalDate(q.To)
}

func orderBy(o ledger.Order) string {
	if o == ledger.OldestFirst {
		return ` ORDER BY date ASC, id ASC`
	}
	return ` ORDER BY date DESC, id DESC`
}
