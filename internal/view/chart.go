package view

import "fintrack/internal/core"

// Chart is a precomputed dataset handed to the browser charting boundary.
// The browser destroys and recreates the chart each time one arrives.
type Chart struct {
	Kind     string    `json:"type"` // line, bar, doughnut
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
}

// Chart names served under /api/charts/.
const (
	ChartRecentTrend   = "recent-trend"
	ChartCategories    = "categories"
	ChartIncomeExpense = "income-expense"
	ChartDailyExpenses = "daily-expenses"
)

// ChartNames lists every chart in a stable order.
var ChartNames = []string{ChartRecentTrend, ChartCategories, ChartIncomeExpense, ChartDailyExpenses}

const (
	colorIncome  = "#22c55e"
	colorExpense = "#ef4444"
	colorTrend   = "#ffffff"
)

var categoryPalette = []string{"#ef4444", "#f59e0b", "#3b82f6", "#8b5cf6", "#10b981", "#ec4899"}

// RecentTrendChart is the dashboard line of the last TrendLimit signed amounts.
func RecentTrendChart(points []TrendPoint, f *Formatter) Chart {
	labels := make([]string, len(points))
	data := make([]float64, len(points))
	for i, p := range points {
		labels[i] = f.ShortDate(p.Date)
		data[i] = p.Amount.Float()
	}
	return Chart{
		Kind:   "line",
		Labels: labels,
		Datasets: []Dataset{{
			Data:        data,
			BorderColor: colorTrend,
			Fill:        true,
			Tension:     0.4,
		}},
	}
}

// CategoryChart is the expense proportion doughnut.
func CategoryChart(cats []CategoryTotal) Chart {
	labels := make([]string, len(cats))
	data := make([]float64, len(cats))
	colors := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = c.Category
		data[i] = c.Amount.Float()
		colors[i] = categoryPalette[i%len(categoryPalette)]
	}
	return Chart{
		Kind:   "doughnut",
		Labels: labels,
		Datasets: []Dataset{{
			Data:            data,
			BackgroundColor: colors,
		}},
	}
}

// IncomeVsExpenseChart is the two-bar comparison of the totals.
func IncomeVsExpenseChart(t core.Totals) Chart {
	return Chart{
		Kind:   "bar",
		Labels: []string{"Total Income", "Total Expense"},
		Datasets: []Dataset{{
			Label:           "Amount",
			Data:            []float64{t.Income.Float(), t.Expense.Float()},
			BackgroundColor: []string{colorIncome, colorExpense},
		}},
	}
}

// DailyExpenseChart is the analytics line of per-day expense sums.
func DailyExpenseChart(days []DayTotal, f *Formatter) Chart {
	labels := make([]string, len(days))
	data := make([]float64, len(days))
	for i, d := range days {
		labels[i] = f.ShortDate(d.Day)
		data[i] = d.Amount.Float()
	}
	return Chart{
		Kind:   "line",
		Labels: labels,
		Datasets: []Dataset{{
			Label:       "Daily Expenses",
			Data:        data,
			BorderColor: colorExpense,
			Fill:        true,
			Tension:     0.3,
		}},
	}
}

// BuildChart computes the named chart over a snapshot. ok is false for
// an unknown name.
func BuildChart(name string, txs []core.Transaction, f *Formatter) (Chart, bool) {
	switch name {
	case ChartRecentTrend:
		return RecentTrendChart(RecentTrend(txs, TrendLimit), f), true
	case ChartCategories:
		return CategoryChart(CategoryBreakdown(txs)), true
	case ChartIncomeExpense:
		return IncomeVsExpenseChart(Summarize(txs)), true
	case ChartDailyExpenses:
		return DailyExpenseChart(DailyExpenseTrend(txs), f), true
	}
	return Chart{}, false
}
