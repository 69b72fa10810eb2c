package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// DateLayout is the ISO calendar date used on the wire.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	// Date is a calendar date; time of day is always truncated.
	Date struct {
		time.Time
	}

	// Transaction is a single income or expense record as returned by the ledger.
	Transaction struct {
		ID          int64           `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"` // optional, empty when absent
		Date        Date            `json:"date"`
	}

	// NewTransaction is the create payload; the ledger assigns the ID.
	NewTransaction struct {
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
)

// ParseTransactionType accepts INCOME or EXPENSE in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t TransactionType) String() string {
	return string(t)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts an ISO date, an RFC 3339 timestamp or a zone-less
// timestamp and keeps only the calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Key returns the date as YYYY-MM-DD, which also sorts chronologically.
func (d Date) Key() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Key())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, b)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// HasCategory reports whether a non-blank category is set.
func (t Transaction) HasCategory() bool {
	return strings.TrimSpace(t.Category) != ""
}

// Signed returns the amount as a positive value for income and a negative one for expenses.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (n NewTransaction) Validate() error {
	desc := strings.TrimSpace(n.Description)
	if desc == "" {
		return ErrEmptyDescription
	}
	if len(desc) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := n.Amount.Validate(); err != nil {
		return err
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	return n.Date.Validate()
}

// Transaction builds the record the ledger would store for this payload.
func (n NewTransaction) Transaction(id int64) Transaction {
	return Transaction{
		ID:          id,
		Description: strings.TrimSpace(n.Description),
		Amount:      n.Amount,
		Type:        n.Type,
		Category:    strings.TrimSpace(n.Category),
		Date:        n.Date,
	}
}
