// Package storage persists transactions for the reference ledger API.
package storage

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var ErrNotFound = errors.New("transaction not found")

// Repository is the ledger's persistence port. List returns transactions
// newest first.
type Repository interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, n core.NewTransaction) (core.Transaction, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}
