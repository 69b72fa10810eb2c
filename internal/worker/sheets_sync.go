// Package worker keeps a Google Sheets tab in step with the ledger.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/log"
)

type Lister interface {
	List(ctx context.Context) ([]core.Transaction, error)
}

type Exporter interface {
	Export(ctx context.Context, txs []core.Transaction) (int, error)
}

// SheetsSync mirrors the whole ledger to a sheet. Every ledger event
// triggers a full rewrite, and a periodic pass catches lost messages.
type SheetsSync struct {
	ledger   Lister
	exporter Exporter
	logger   *log.Logger

	mu       sync.Mutex
	lastSync time.Time
	synced   int
}

func NewSheetsSync(ledger Lister, exporter Exporter, logger *log.Logger) *SheetsSync {
	if logger == nil {
		logger = log.Discard()
	}
	return &SheetsSync{ledger: ledger, exporter: exporter, logger: logger.WithComponent(log.ComponentWorker)}
}

// HandleEvent is an events.Handler.
func (w *SheetsSync) HandleEvent(ctx context.Context, e events.Event) error {
	w.logger.InfoContext(ctx, "Processing ledger event", "kind", string(e.Kind), log.FieldTxID, e.ID)
	return w.Sync(ctx)
}

// Sync lists the ledger and rewrites the sheet. Calls are serialized.
func (w *SheetsSync) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	txs, err := w.ledger.List(ctx)
	if err != nil {
		return fmt.Errorf("list ledger: %w", err)
	}
	n, err := w.exporter.Export(ctx, txs)
	if err != nil {
		return fmt.Errorf("export to sheets: %w", err)
	}
	w.lastSync = time.Now()
	w.synced = n
	w.logger.InfoContext(ctx, "Sheet synchronized", log.FieldOperation, log.OpSync, log.FieldCount, n)
	return nil
}

// LastSync returns when the last successful sync finished and how many
// transactions it wrote.
func (w *SheetsSync) LastSync() (time.Time, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync, w.synced
}

// Run syncs once at startup and then every interval until ctx is done.
// Failed passes are logged and retried on the next tick.
func (w *SheetsSync) Run(ctx context.Context, interval time.Duration) error {
	w.logger.InfoContext(ctx, "Performing startup sync", "interval", interval)
	if err := w.Sync(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup sync failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err)
			}
		}
	}
}
