package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"finance/internal/core"
	"finance/internal/ledger"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// decodeJSON reads one JSON object into dst. Unknown fields and trailing
// data are rejected as invalid input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", core.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON: %v", core.ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", core.ErrInvalidInput)
	}
	return nil
}

// pathID reads a positive integer path value.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", core.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// parseListQuery reads from, to and order for dated listings.
func parseListQuery(q url.Values) (ledger.Query, error) {
	var out ledger.Query
	var err error
	if out.From, err = optionalDate(q.Get("from")); err != nil {
		return ledger.Query{}, fmt.Errorf("from: %w", err)
	}
	if out.To, err = optionalDate(q.Get("to")); err != nil {
		return ledger.Query{}, fmt.Errorf("to: %w", err)
	}
	if out.Order, err = ledger.ParseOrder(q.Get("order")); err != nil {
		return ledger.Query{}, err
	}
	return out, nil
}

// parseMonths reads the dashboard window; blank means the configured default.
func parseMonths(q url.Values) (int, error) {
	raw := strings.TrimSpace(q.Get("months"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 120 {
		return 0, fmt.Errorf("%w: months must be between 1 and 120, got %q", core.ErrInvalidInput, raw)
	}
	return n, nil
}

func optionalDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

// requiredDate parses s, falling back to today when blank.
func requiredDate(s string, today core.Date) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return today, nil
	}
	return core.ParseDate(s)
}

// parseAmount accepts decimal strings with dot or comma; blank is zero when
// optional is set.
func parseAmount(field, s string, optional bool) (core.Money, error) {
	if optional && strings.TrimSpace(s) == "" {
		return core.Money{}, nil
	}
	m, err := core.ParseMoney(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("%s: %w", field, err)
	}
	return m, nil
}

func parseRate(s string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, nil
	}
	m, err := core.ParseMoney(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("interest_rate: %w", err)
	}
	return decimal.NewNullDecimal(m.Amount), nil
}

// sanitizeInput trims and drops control characters except tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
