package main

import (
	"context"
	"os"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateAPI)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err, "available_backends", backend.GetBackendTypes())
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	srv, err := api.NewServer(":"+cfg.APIPort, result.Backend, logger)
	if err != nil {
		logger.Error("Failed to create API server", log.FieldError, err)
		_ = result.Cleanup()
		os.Exit(1)
	}

	cleanup := func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}

	logger.Info("Starting ledger API",
		log.FieldOperation, log.OpStartup,
		"port", cfg.APIPort,
		"backend", cfg.DataBackend,
		"events_enabled", cfg.AMQPURL != "")
	if err := cli.Serve(context.Background(), logger, srv, 30*time.Second, cleanup); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.APIPort)
		os.Exit(1)
	}
}
