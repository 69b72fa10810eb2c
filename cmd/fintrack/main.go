package main

import (
	"context"
	"flag"
	"os"
	"time"

	"fintrack/internal/app"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/export/sheets"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/state"
	"fintrack/internal/view"
)

func main() {
	check := flag.Bool("check", false, "query the ledger summary and exit")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	client := ledger.NewClient(cfg.LedgerURL, ledger.WithTimeout(cfg.LedgerTimeout), ledger.WithLogger(logger))

	if *check {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.LedgerTimeout)
		defer cancel()
		totals, err := client.Summary(ctx)
		if err != nil {
			logger.Error("Ledger check failed", log.FieldError, err, "ledger_url", cfg.LedgerURL)
			os.Exit(1)
		}
		logger.Info("Ledger reachable",
			"ledger_url", cfg.LedgerURL,
			"total_income", totals.Income.String(),
			"total_expense", totals.Expense.String(),
			"net_balance", totals.Net.String())
		return
	}

	formatter, err := view.NewFormatter(cfg.Locale, cfg.CurrencySymbol)
	if err != nil {
		logger.Error("Failed to initialize formatter", log.FieldError, err, "locale", cfg.Locale)
		os.Exit(1)
	}

	var exporter apphttp.Exporter
	if cfg.SheetsEnabled() {
		exp, err := sheets.New(context.Background(), sheets.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets export", log.FieldError, err)
			os.Exit(1)
		}
		exporter = exp
		logger.Info("Google Sheets export enabled", "sheet", cfg.GoogleSheetName)
	}

	ctrl := app.NewController(client, state.NewStore(), logger)
	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Controller:         ctrl,
		Formatter:          formatter,
		Exporter:           exporter,
		Prober:             client,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		LedgerTimeout:      cfg.LedgerTimeout,
	})
	if err != nil {
		logger.Error("Failed to create server", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Starting fintrack server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"ledger_url", cfg.LedgerURL,
		"locale", cfg.Locale)
	if err := cli.Serve(context.Background(), logger, srv, 30*time.Second, nil); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
}
