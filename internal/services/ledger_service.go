// Package services holds the reference ledger's use cases.
package services

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// LedgerService persists transactions and announces each mutation.
// Storage is the source of truth; a failed publish never fails the request.
type LedgerService struct {
	repo      storage.Repository
	publisher events.Publisher
	logger    *log.Logger
}

func NewLedgerService(repo storage.Repository, publisher events.Publisher, logger *log.Logger) *LedgerService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentBackend),
	}
}

func (s *LedgerService) List(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Create saves n and publishes transaction.created.
func (s *LedgerService) Create(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	t, err := s.repo.Create(ctx, n)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	if err := s.publisher.Publish(ctx, events.NewCreated(t)); err != nil {
		log.LogError(ctx, "Failed to publish event", err, log.ComponentEvents, log.OpPublish,
			log.LogFields{log.FieldTxID: t.ID})
	}
	return t, nil
}

// Delete removes id and publishes transaction.deleted.
func (s *LedgerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := s.publisher.Publish(ctx, events.NewDeleted(id)); err != nil {
		log.LogError(ctx, "Failed to publish event", err, log.ComponentEvents, log.OpPublish,
			log.LogFields{log.FieldTxID: id})
	}
	return nil
}

// Summary totals the whole ledger.
func (s *LedgerService) Summary(ctx context.Context) (core.Totals, error) {
	txs, err := s.List(ctx)
	if err != nil {
		return core.Totals{}, err
	}
	return core.Summarize(txs), nil
}

// Close closes the publisher and the repository.
func (s *LedgerService) Close() error {
	var errs []error
	if err := s.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("publisher: %w", err))
	}
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
