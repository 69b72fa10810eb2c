package backend

import (
	"context"
	"fmt"

	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens the configured storage, connects the optional event
// publisher and wraps both in a LedgerService.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	repo, err := f.openRepository(ctx, config)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.Nop{}
	if config.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPRoutingKey, config.AMQPAttempts, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP publisher, continuing without events", log.FieldError, err)
		} else {
			publisher = p
			f.logger.Info("Initialized AMQP publisher",
				"exchange", config.AMQPExchange,
				"routing_key", config.AMQPRoutingKey)
		}
	}

	svc := services.NewLedgerService(repo, publisher, f.logger)
	f.logger.Info("Initialized ledger backend",
		"backend", config.Type.String(),
		"events_enabled", config.AMQPURL != "")

	return &BackendResult{Backend: svc, Cleanup: svc.Close}, nil
}

func (f *DefaultFactory) openRepository(ctx context.Context, config Config) (storage.Repository, error) {
	switch config.Type {
	case MemoryBackend:
		return storage.NewMemoryRepository(), nil
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		return repo, nil
	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(ctx, config.PostgresDSN, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL repository: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
