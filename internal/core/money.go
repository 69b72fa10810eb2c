// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals so that grouped sums always equal the
// corresponding totals, whatever the grouping.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is a decimal amount that marshals as a bare JSON number.
type Money struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{decimal.Zero}

// ParseAmount converts a user supplied decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signs, garbage and zero are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,5")  -> 12.5, nil
//	ParseAmount("-1")    -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	m := Money{d}
	if err := m.Validate(); err != nil {
		return Zero, err
	}
	return m, nil
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(s string) Money {
	m, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Validate requires a strictly positive amount, as the create form does.
func (m Money) Validate() error {
	if !m.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

func (m Money) Sub(o Money) Money {
	return Money{m.Decimal.Sub(o.Decimal)}
}

func (m Money) Neg() Money {
	return Money{m.Decimal.Neg()}
}

func (m Money) Abs() Money {
	return Money{m.Decimal.Abs()}
}

// Equal compares amounts numerically, so 10 and 10.00 are equal.
func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// Float returns the amount as float64 for chart datasets only.
func (m Money) Float() float64 {
	return m.InexactFloat64()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Zero
		return nil
	}
	return m.Decimal.UnmarshalJSON(b)
}
