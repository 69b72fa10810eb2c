package view

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"fintrack/internal/core"
)

const (
	DefaultLocale         = "en-IN"
	DefaultCurrencySymbol = "₹"
)

// Formatter renders amounts and dates for one locale.
type Formatter struct {
	tag      language.Tag
	printer  *message.Printer
	symbol   string
	point    string // locale decimal separator
	monthDay bool   // numeric dates as M/D instead of D/M
}

// NewFormatter builds a Formatter for a BCP 47 locale such as en-IN.
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	region, _ := tag.Region()
	printer := message.NewPrinter(tag)
	point := strings.Trim(printer.Sprintf("%v", number.Decimal(1.5, number.Scale(1))), "15")
	if point == "" {
		point = "."
	}
	return &Formatter{
		tag:      tag,
		printer:  printer,
		symbol:   symbol,
		point:    point,
		monthDay: region.String() == "US",
	}, nil
}

// DefaultFormatter formats as en-IN rupees.
func DefaultFormatter() *Formatter {
	f, err := NewFormatter(DefaultLocale, DefaultCurrencySymbol)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Currency formats m with the currency symbol and two fraction digits,
// grouped per locale. Negative amounts get a leading minus. The digits
// come from the decimal itself, so large amounts stay exact.
func (f *Formatter) Currency(m core.Money) string {
	abs := m.Abs().Round(2)
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).Shift(2).IntPart()

	var grouped string
	if w := whole.BigInt(); w.IsInt64() {
		grouped = f.printer.Sprintf("%v", number.Decimal(w.Int64()))
	} else {
		grouped = w.String()
	}

	s := fmt.Sprintf("%s%s%s%02d", f.symbol, grouped, f.point, cents)
	if m.IsNegative() && !abs.IsZero() {
		return "-" + s
	}
	return s
}

// SignedCurrency prefixes + for income and - for expenses.
func (f *Formatter) SignedCurrency(t core.Transaction) string {
	if t.Type == core.Income {
		return "+" + f.Currency(t.Amount)
	}
	return "-" + f.Currency(t.Amount)
}

// NumericDate renders day and month numerically, ordered per locale.
func (f *Formatter) NumericDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	if f.monthDay {
		return d.Format("1/2/2006")
	}
	return d.Format("2/1/2006")
}

// ShortDate renders a short month and day, e.g. "Mar 7", as chart labels do.
func (f *Formatter) ShortDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2")
}
