package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.005", true}, // full precision kept
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"-1", "-1", true},
		{"+1", "", false},
		{"1e3", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,234.50", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := MustParseMoney("0").Validate(); err != nil {
		t.Fatalf("expected ok for zero, got %v", err)
	}
	if err := MustParseMoney("-0.01").Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestMoneyArithmeticHasNoDrift(t *testing.T) {
	var total Money
	for i := 0; i < 10; i++ {
		total = total.Add(MustParseMoney("0.1"))
	}
	if !total.Equal(MustParseMoney("1")) {
		t.Fatalf("expected exactly 1, got %s", total)
	}
	if !MoneyFromCents(123456).Equal(MustParseMoney("1234.56")) {
		t.Fatalf("cents conversion mismatch")
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		in     string
		symbol string
		want   string
	}{
		{"0", "$", "$0.00"},
		{"2500", "$", "$2,500.00"},
		{"1234567.891", "$", "$1,234,567.89"},
		{"999.995", "€", "€1,000.00"},
		{"-800", "$", "-$800.00"},
		{"-0.001", "$", "$0.00"},
		{"100", "", "100.00"},
	}
	for _, tc := range cases {
		if got := MustParseMoney(tc.in).Format(tc.symbol); got != tc.want {
			t.Fatalf("Format(%s, %q) = %q, want %q", tc.in, tc.symbol, got, tc.want)
		}
	}
}
