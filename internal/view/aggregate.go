// Package view turns a transaction snapshot into view models and chart
// datasets. Every function here is pure over its input: the same snapshot
// always yields the same output and the snapshot is never modified.
package view

import (
	"sort"
	"strings"

	"fintrack/internal/core"
)

const (
	// RecentLimit is the size of the dashboard recent list.
	RecentLimit = 5
	// TrendLimit is the number of transactions on the dashboard trend line.
	TrendLimit = 10

	OthersLabel        = "Others"
	UncategorizedLabel = "Uncategorized"
	NoCategoryLabel    = "-"
)

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category string
	Amount   core.Money
}

// DayTotal is the expense sum for one calendar day.
type DayTotal struct {
	Day    core.Date
	Amount core.Money
}

// TrendPoint is a signed amount on the recent trend line.
type TrendPoint struct {
	Date   core.Date
	Amount core.Money
}

// Summarize returns income, expense and net totals over the whole snapshot.
func Summarize(txs []core.Transaction) core.Totals {
	return core.Summarize(txs)
}

// Recent returns the first min(n, len(txs)) entries of a newest-first snapshot.
func Recent(txs []core.Transaction, n int) []core.Transaction {
	if n < 0 {
		n = 0
	}
	if n > len(txs) {
		n = len(txs)
	}
	out := make([]core.Transaction, n)
	copy(out, txs[:n])
	return out
}

// CategoryBreakdown sums EXPENSE amounts per category. A missing category
// is grouped under OthersLabel. Groups come back in first-seen order.
func CategoryBreakdown(txs []core.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		cat := OthersLabel
		if t.HasCategory() {
			cat = t.Category
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, CategoryTotal{Category: cat, Amount: core.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
	}
	return out
}

// DailyExpenseTrend sums EXPENSE amounts per calendar day, oldest day first.
func DailyExpenseTrend(txs []core.Transaction) []DayTotal {
	byDay := make(map[string]*DayTotal)
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		key := t.Date.Key()
		d, ok := byDay[key]
		if !ok {
			d = &DayTotal{Day: t.Date, Amount: core.Zero}
			byDay[key] = d
		}
		d.Amount = d.Amount.Add(t.Amount)
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]DayTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byDay[k])
	}
	return out
}

// RecentTrend takes the n newest transactions of a newest-first snapshot and
// returns them in chronological order with signed amounts.
func RecentTrend(txs []core.Transaction, n int) []TrendPoint {
	recent := Recent(txs, n)
	out := make([]TrendPoint, len(recent))
	for i, t := range recent {
		out[len(recent)-1-i] = TrendPoint{Date: t.Date, Amount: t.Signed()}
	}
	return out
}

// Filter keeps transactions whose description or category contains term,
// ignoring case. The term is matched as typed, spaces included; only an
// empty term keeps everything. The result is a new slice.
func Filter(txs []core.Transaction, term string) []core.Transaction {
	term = strings.ToLower(term)
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if term == "" ||
			strings.Contains(strings.ToLower(t.Description), term) ||
			(t.HasCategory() && strings.Contains(strings.ToLower(t.Category), term)) {
			out = append(out, t)
		}
	}
	return out
}
