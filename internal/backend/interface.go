// Package backend builds the reference ledger's service from configuration.
package backend

import (
	"context"

	"fintrack/internal/core"
)

// Backend is everything the ledger API serves.
type Backend interface {
	List(ctx context.Context) ([]core.Transaction, error)
	Create(ctx context.Context, n core.NewTransaction) (core.Transaction, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context) (core.Totals, error)
}

// CleanupFunc releases the backend's resources.
type CleanupFunc func() error

type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
