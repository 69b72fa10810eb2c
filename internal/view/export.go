package view

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"fintrack/internal/core"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"id", "date", "type", "description", "category", "amount"}

// Records returns the export rows for txs, header first. Amounts are plain
// decimals and dates ISO so the file re-imports cleanly.
func Records(txs []core.Transaction) [][]string {
	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, CSVHeader)
	for _, t := range txs {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Date.Key(),
			t.Type.String(),
			t.Description,
			t.Category,
			t.Amount.StringFixed(2),
		})
	}
	return rows
}

// WriteCSV writes txs as CSV to w.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Records(txs)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
