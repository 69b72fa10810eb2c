package view

import (
	"testing"

	"fintrack/internal/core"
)

func TestCurrency(t *testing.T) {
	us, err := NewFormatter("en-US", "$")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	tests := []struct {
		in   string
		want string
	}{
		{"1234.5", "$1,234.50"},
		{"0.1", "$0.10"},
		{"40", "$40.00"},
		{"-40", "-$40.00"},
		{"0", "$0.00"},
	}
	for _, tt := range tests {
		m := parseSigned(t, tt.in)
		if got := us.Currency(m); got != tt.want {
			t.Errorf("Currency(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCurrencyKeepsLargeAmountsExact(t *testing.T) {
	f := DefaultFormatter()
	tests := []struct {
		in   string
		want string
	}{
		{"12345678901234567.89", "₹12,34,56,78,90,12,34,567.89"},
		{"9999999999999.99", "₹99,99,99,99,99,999.99"},
		{"0.005", "₹0.01"},
		{"100000", "₹1,00,000.00"},
	}
	for _, tt := range tests {
		if got := f.Currency(core.MustAmount(tt.in)); got != tt.want {
			t.Errorf("Currency(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}

	de, err := NewFormatter("de-DE", "€")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	if got := de.Currency(core.MustAmount("1234.5")); got != "€1.234,50" {
		t.Errorf("de-DE Currency = %q", got)
	}
}

func parseSigned(t *testing.T, s string) core.Money {
	t.Helper()
	var m core.Money
	if err := m.UnmarshalJSON([]byte(s)); err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return m
}

func TestDefaultFormatterUsesRupees(t *testing.T) {
	f := DefaultFormatter()
	if got := f.Currency(core.MustAmount("1234.5")); got != "₹1,234.50" {
		t.Errorf("Currency = %q", got)
	}
	if f.Locale() != "en-IN" {
		t.Errorf("locale = %s", f.Locale())
	}
}

func TestSignedCurrency(t *testing.T) {
	f, _ := NewFormatter("en-US", "$")
	in := core.Transaction{Type: core.Income, Amount: core.MustAmount("5")}
	out := core.Transaction{Type: core.Expense, Amount: core.MustAmount("5")}
	if got := f.SignedCurrency(in); got != "+$5.00" {
		t.Errorf("income = %q", got)
	}
	if got := f.SignedCurrency(out); got != "-$5.00" {
		t.Errorf("expense = %q", got)
	}
}

func TestDates(t *testing.T) {
	d := core.NewDate(2025, 3, 7)
	us, _ := NewFormatter("en-US", "$")
	in, _ := NewFormatter("en-IN", "₹")

	if got := us.NumericDate(d); got != "3/7/2025" {
		t.Errorf("en-US numeric = %q", got)
	}
	if got := in.NumericDate(d); got != "7/3/2025" {
		t.Errorf("en-IN numeric = %q", got)
	}
	if got := in.ShortDate(d); got != "Mar 7" {
		t.Errorf("short = %q", got)
	}
	if got := in.NumericDate(core.Date{}); got != "" {
		t.Errorf("zero date = %q", got)
	}
}

func TestNewFormatterRejectsBadLocale(t *testing.T) {
	if _, err := NewFormatter("not a locale!", "$"); err == nil {
		t.Fatal("expected error")
	}
}
