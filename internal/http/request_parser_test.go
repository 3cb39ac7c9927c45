package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/core"
	"finance/internal/ledger"
)

func TestDecimalText(t *testing.T) {
	tests := []struct {
		in   string
		want decimalText
	}{
		{`{"amount":"12.50"}`, "12.50"},
		{`{"amount":12.5}`, "12.5"},
		{`{"amount":0.1}`, "0.1"},
		{`{"amount":null}`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		var v struct {
			Amount decimalText `json:"amount"`
		}
		require.NoError(t, json.Unmarshal([]byte(tt.in), &v), tt.in)
		assert.Equal(t, tt.want, v.Amount, tt.in)
	}

	var v struct {
		Amount decimalText `json:"amount"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"amount":true}`), &v))
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var dst createUserRequest
		return decodeJSON(httptest.NewRecorder(), req, &dst)
	}

	assert.NoError(t, decode(`{"name":"Ada","email":"a@b.c"}`))
	assert.ErrorIs(t, decode(``), core.ErrInvalidInput)
	assert.ErrorIs(t, decode(`{"name":`), core.ErrInvalidInput)
	assert.ErrorIs(t, decode(`{"nickname":"x"}`), core.ErrInvalidInput)
	assert.ErrorIs(t, decode(`{"name":"a"} {"name":"b"}`), core.ErrInvalidInput)
	assert.ErrorIs(t, decode(`{"name":"`+strings.Repeat("x", maxBodyBytes)+`"}`), core.ErrInvalidInput)
}

func TestParseListQuery(t *testing.T) {
	q, err := parseListQuery(url.Values{"from": {"2024-01-01"}, "to": {"2024-01-31"}, "order": {"ASC"}})
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2024, 1, 1), q.From)
	assert.Equal(t, core.NewDate(2024, 1, 31), q.To)
	assert.Equal(t, ledger.OldestFirst, q.Order)

	q, err = parseListQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, q.From.IsZero())
	assert.Equal(t, ledger.NewestFirst, q.Order)

	_, err = parseListQuery(url.Values{"from": {"yesterday"}})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = parseListQuery(url.Values{"order": {"random"}})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestParseMonths(t *testing.T) {
	n, err := parseMonths(url.Values{})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = parseMonths(url.Values{"months": {" 12 "}})
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"0", "121", "-1", "six"} {
		_, err := parseMonths(url.Values{"months": {bad}})
		assert.ErrorIs(t, err, core.ErrInvalidInput, bad)
	}
}

func TestParseAmount(t *testing.T) {
	m, err := parseAmount("amount", "12,50", false)
	require.NoError(t, err)
	assert.Equal(t, "12.5", m.String())

	m, err = parseAmount("current_amount", "  ", true)
	require.NoError(t, err)
	assert.True(t, m.IsZero())

	_, err = parseAmount("amount", "", false)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	assert.Contains(t, err.Error(), "amount")

	r, err := parseRate("3.75")
	require.NoError(t, err)
	assert.True(t, r.Valid)
	assert.Equal(t, "3.75", r.Decimal.String())

	r, err = parseRate("")
	require.NoError(t, err)
	assert.False(t, r.Valid)
}

func TestRequiredDateDefaultsToToday(t *testing.T) {
	today := core.NewDate(2024, 3, 10)

	d, err := requiredDate("", today)
	require.NoError(t, err)
	assert.Equal(t, today, d)

	d, err = requiredDate("2024-02-29", today)
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2024, 2, 29), d)

	_, err = requiredDate("2023-02-29", today)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Rent March", sanitizeInput("  Rent\x00 March\x07 "))
	assert.Equal(t, "line one\nline two", sanitizeInput("line one\nline two"))
}
