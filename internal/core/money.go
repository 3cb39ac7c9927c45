// Package core provides money parsing and handling utilities.
//
// Amounts are kept as arbitrary-precision decimals end to end. Rounding to
// two places only happens in Format, which is meant for presentation.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a non-float monetary amount.
type Money struct {
	Amount decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Amount: d}
}

// MoneyFromCents builds a Money value from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{Amount: decimal.New(cents, -2)}
}

// ParseMoney converts a decimal string to Money without losing precision.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. A leading
// plus sign is rejected; a leading minus is parsed so that the caller decides
// whether negative values are acceptable.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34
//	ParseMoney("12,345") -> 12.345
//	ParseMoney("-1")     -> -1
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			return Money{}, ErrInvalidAmount
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	if strings.ContainsAny(s, "eE") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Amount: d}, nil
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount.Add(o.Amount)}
}

func (m Money) Sub(o Money) Money {
	return Money{Amount: m.Amount.Sub(o.Amount)}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Equal compares numeric value, ignoring representation (1.5 == 1.50).
func (m Money) Equal(o Money) bool {
	return m.Amount.Equal(o.Amount)
}

func (m Money) GreaterThan(o Money) bool {
	return m.Amount.GreaterThan(o.Amount)
}

// String returns the exact decimal representation.
func (m Money) String() string {
	return m.Amount.String()
}

// Validate rejects negative amounts. Zero is allowed.
func (m Money) Validate() error {
	if m.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Format renders the amount for display: currency symbol, thousands
// separators and exactly two decimals, e.g. "$1,234.50" or "-$12.00".
func (m Money) Format(symbol string) string {
	fixed := m.Amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if m.Amount.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
