package view

import (
	"strconv"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Dashboard is the summary cards plus the recent list.
type Dashboard struct {
	Income   string
	Expense  string
	Net      string
	NetClass string
	Recent   []RecentRow
	Empty    bool
}

type RecentRow struct {
	ID          string
	Description string
	Category    string
	Date        string
	Amount      string
	Income      bool
}

// Wallet is the full, optionally filtered, ledger table.
type Wallet struct {
	Query   string
	Rows    []WalletRow
	Total   int // size of the unfiltered snapshot
	Matched int
}

type WalletRow struct {
	ID          string
	Type        string
	Description string
	Category    string
	Date        string
	Amount      string
	Income      bool
}

// Analytics backs the analytics section; its charts are fetched separately.
type Analytics struct {
	Income      string
	Expense     string
	Categories  []CategoryRow
	Days        int
	HasExpenses bool
}

type CategoryRow struct {
	Name    string
	Amount  string
	Percent int // share of the expense total
}

func NewDashboard(txs []core.Transaction, f *Formatter) Dashboard {
	totals := Summarize(txs)
	d := Dashboard{
		Income:  f.Currency(totals.Income),
		Expense: f.Currency(totals.Expense),
		Net:     f.Currency(totals.Net),
		Empty:   len(txs) == 0,
	}
	switch {
	case totals.Net.IsPositive():
		d.NetClass = "text-success"
	case totals.Net.IsNegative():
		d.NetClass = "text-danger"
	}

	for _, t := range Recent(txs, RecentLimit) {
		cat := NoCategoryLabel
		if t.HasCategory() {
			cat = t.Category
		}
		d.Recent = append(d.Recent, RecentRow{
			ID:          strconv.FormatInt(t.ID, 10),
			Description: t.Description,
			Category:    cat,
			Date:        f.NumericDate(t.Date),
			Amount:      f.SignedCurrency(t),
			Income:      t.Type == core.Income,
		})
	}
	return d
}

func NewWallet(txs []core.Transaction, query string, f *Formatter) Wallet {
	filtered := Filter(txs, query)
	w := Wallet{
		Query:   query,
		Total:   len(txs),
		Matched: len(filtered),
		Rows:    make([]WalletRow, 0, len(filtered)),
	}
	for _, t := range filtered {
		w.Rows = append(w.Rows, walletRow(t, f))
	}
	return w
}

func walletRow(t core.Transaction, f *Formatter) WalletRow {
	cat := UncategorizedLabel
	if t.HasCategory() {
		cat = t.Category
	}
	return WalletRow{
		ID:          strconv.FormatInt(t.ID, 10),
		Type:        t.Type.String(),
		Description: t.Description,
		Category:    cat,
		Date:        f.NumericDate(t.Date),
		Amount:      f.Currency(t.Amount),
		Income:      t.Type == core.Income,
	}
}

func NewAnalytics(txs []core.Transaction, f *Formatter) Analytics {
	totals := Summarize(txs)
	cats := CategoryBreakdown(txs)
	a := Analytics{
		Income:      f.Currency(totals.Income),
		Expense:     f.Currency(totals.Expense),
		Days:        len(DailyExpenseTrend(txs)),
		HasExpenses: len(cats) > 0,
	}
	for _, c := range cats {
		percent := 0
		if totals.Expense.IsPositive() {
			percent = int(c.Amount.Decimal.Mul(hundred).Div(totals.Expense.Decimal).Round(0).IntPart())
		}
		a.Categories = append(a.Categories, CategoryRow{
			Name:    c.Category,
			Amount:  f.Currency(c.Amount),
			Percent: percent,
		})
	}
	return a
}
