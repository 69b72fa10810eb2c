package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/events"
	"fintrack/internal/export/sheets"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting ledger-worker", log.FieldOperation, log.OpStartup)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporter, err := sheets.New(ctx, sheets.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	client := ledger.NewClient(cfg.LedgerURL, ledger.WithTimeout(cfg.LedgerTimeout), ledger.WithLogger(logger))
	sync := worker.NewSheetsSync(client, exporter, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sync.Run(gctx, cfg.SyncInterval) })

	if cfg.AMQPURL != "" {
		consumer, err := events.NewAMQPConsumer(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP consumer", log.FieldError, err)
			os.Exit(1)
		}
		defer consumer.Close()
		g.Go(func() error { return consumer.Consume(gctx, sync.HandleEvent) })
	} else {
		logger.Info("AMQP disabled, relying on periodic sync only", "interval", cfg.SyncInterval)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete", log.FieldOperation, log.OpShutdown)
}
