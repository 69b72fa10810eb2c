// Package sheets exports the ledger to a Google Sheets tab using a
// service account.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/view"
)

type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Exporter replaces the contents of one tab with the ledger on each export.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// New authenticates with the service account and returns an Exporter.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newExporter(svc, cfg, logger), nil
}

func newExporter(svc *gsheet.Service, cfg Config, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Discard()
	}
	name := strings.TrimSpace(cfg.SheetName)
	if name == "" {
		name = "Ledger"
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     name,
		logger:        logger.WithComponent(log.ComponentExport),
	}
}

// credentials prefers inline JSON over a file path.
func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// Export clears the tab and writes a header row plus one row per
// transaction. It returns the number of transactions written.
func (e *Exporter) Export(ctx context.Context, txs []core.Transaction) (int, error) {
	if e.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:F", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return 0, fmt.Errorf("clear %s: %w", clearRange, err)
	}

	records := view.Records(txs)
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toRow(rec))
	}

	writeRange := fmt.Sprintf("%s!A1", e.sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return 0, fmt.Errorf("write %s: %w", writeRange, err)
	}

	e.logger.InfoContext(ctx, "Ledger exported to Google Sheets",
		log.FieldOperation, log.OpExport, log.FieldCount, len(txs), "sheet", e.sheetName)
	return len(txs), nil
}

func toRow(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
