package core

// Totals is the income/expense/net summary of a set of transactions.
type Totals struct {
	Income  Money `json:"totalIncome"`
	Expense Money `json:"totalExpense"`
	Net     Money `json:"netBalance"`
}

// Summarize sums amounts by type; Net is always Income - Expense.
func Summarize(txs []Transaction) Totals {
	income, expense := Zero, Zero
	for _, t := range txs {
		switch t.Type {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return Totals{Income: income, Expense: expense, Net: income.Sub(expense)}
}
