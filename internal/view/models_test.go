package view

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"slices"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/state"
)

func usFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter("en-US", "$")
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	return f
}

func sampleLedger() []core.Transaction {
	return state.SortNewestFirst([]core.Transaction{
		{ID: 1, Description: "Salary", Amount: core.MustAmount("100"), Type: core.Income, Date: core.NewDate(2025, 3, 1)},
		{ID: 2, Description: "Groceries", Amount: core.MustAmount("40"), Type: core.Expense, Category: "Food", Date: core.NewDate(2025, 3, 2)},
		{ID: 3, Description: "Parking", Amount: core.MustAmount("10"), Type: core.Expense, Date: core.NewDate(2025, 3, 3)},
	})
}

func TestNewDashboard(t *testing.T) {
	d := NewDashboard(sampleLedger(), usFormatter(t))

	if d.Income != "$100.00" || d.Expense != "$50.00" || d.Net != "$50.00" {
		t.Errorf("cards = %s / %s / %s", d.Income, d.Expense, d.Net)
	}
	if d.NetClass != "text-success" {
		t.Errorf("net class = %q", d.NetClass)
	}
	if len(d.Recent) != 3 {
		t.Fatalf("recent = %d rows", len(d.Recent))
	}
	first := d.Recent[0]
	if first.ID != "3" || first.Category != NoCategoryLabel || first.Amount != "-$10.00" || first.Date != "3/3/2025" {
		t.Errorf("first row = %+v", first)
	}
	if last := d.Recent[2]; !last.Income || last.Amount != "+$100.00" {
		t.Errorf("last row = %+v", last)
	}
}

func TestNewDashboardEmpty(t *testing.T) {
	d := NewDashboard(nil, usFormatter(t))
	if !d.Empty || len(d.Recent) != 0 || d.Net != "$0.00" || d.NetClass != "" {
		t.Errorf("empty dashboard = %+v", d)
	}
}

func TestNewWallet(t *testing.T) {
	w := NewWallet(sampleLedger(), "", usFormatter(t))
	if w.Total != 3 || w.Matched != 3 || len(w.Rows) != 3 {
		t.Fatalf("wallet = %+v", w)
	}
	if w.Rows[0].Category != UncategorizedLabel || w.Rows[0].Type != "EXPENSE" || w.Rows[0].Amount != "$10.00" {
		t.Errorf("row = %+v", w.Rows[0])
	}

	food := NewWallet(sampleLedger(), "fOoD", usFormatter(t))
	if food.Matched != 1 || food.Rows[0].Description != "Groceries" {
		t.Errorf("filtered = %+v", food)
	}

	none := NewWallet(sampleLedger(), "no match at all", usFormatter(t))
	if none.Matched != 0 || len(none.Rows) != 0 || none.Total != 3 {
		t.Errorf("no-match wallet = %+v", none)
	}
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics(sampleLedger(), usFormatter(t))
	if !a.HasExpenses || a.Days != 2 {
		t.Fatalf("analytics = %+v", a)
	}
	if len(a.Categories) != 2 {
		t.Fatalf("categories = %+v", a.Categories)
	}
	// newest first: Parking (Others) is seen before Groceries (Food)
	if a.Categories[0].Name != OthersLabel || a.Categories[0].Percent != 20 {
		t.Errorf("first category = %+v", a.Categories[0])
	}
	if a.Categories[1].Name != "Food" || a.Categories[1].Percent != 80 || a.Categories[1].Amount != "$40.00" {
		t.Errorf("second category = %+v", a.Categories[1])
	}
}

func TestBuildChart(t *testing.T) {
	txs := sampleLedger()
	f := usFormatter(t)

	bar, ok := BuildChart(ChartIncomeExpense, txs, f)
	if !ok || bar.Kind != "bar" {
		t.Fatalf("bar = %+v", bar)
	}
	if got := bar.Datasets[0].Data; got[0] != 100 || got[1] != 50 {
		t.Errorf("bar data = %v", got)
	}

	trend, _ := BuildChart(ChartRecentTrend, txs, f)
	if want := []string{"Mar 1", "Mar 2", "Mar 3"}; len(trend.Labels) != 3 || trend.Labels[0] != want[0] || trend.Labels[2] != want[2] {
		t.Errorf("trend labels = %v", trend.Labels)
	}
	if got := trend.Datasets[0].Data; got[0] != 100 || got[1] != -40 || got[2] != -10 {
		t.Errorf("trend data = %v", got)
	}

	daily, _ := BuildChart(ChartDailyExpenses, txs, f)
	if len(daily.Labels) != 2 || daily.Labels[0] != "Mar 2" {
		t.Errorf("daily labels = %v", daily.Labels)
	}

	pie, _ := BuildChart(ChartCategories, txs, f)
	if len(pie.Datasets[0].BackgroundColor) != len(pie.Labels) {
		t.Errorf("palette size %d for %d labels", len(pie.Datasets[0].BackgroundColor), len(pie.Labels))
	}

	if _, ok := BuildChart("pie-in-the-sky", txs, f); ok {
		t.Error("unknown chart should not build")
	}
}

func TestChartJSON(t *testing.T) {
	c, _ := BuildChart(ChartIncomeExpense, sampleLedger(), usFormatter(t))
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["type"] != "bar" {
		t.Errorf("type = %v", got["type"])
	}
	if labels := got["labels"].([]any); labels[0] != "Total Income" {
		t.Errorf("labels = %v", labels)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleLedger()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}
	if rows[0][0] != "id" || rows[0][5] != "amount" {
		t.Errorf("header = %v", rows[0])
	}
	if want := []string{"3", "2025-03-03", "EXPENSE", "Parking", "", "10.00"}; !slices.Equal(rows[1], want) {
		t.Errorf("first row = %v, want %v", rows[1], want)
	}
}

