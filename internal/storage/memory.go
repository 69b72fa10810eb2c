package storage

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/state"
)

// MemoryRepository keeps transactions in process memory. Contents are lost
// on restart.
type MemoryRepository struct {
	mu     sync.Mutex
	items  []core.Transaction
	nextID int64
}

// NewMemoryRepository returns a repository holding seed.
func NewMemoryRepository(seed ...core.Transaction) *MemoryRepository {
	r := &MemoryRepository{}
	for _, t := range seed {
		r.items = append(r.items, t)
		r.nextID = max(r.nextID, t.ID)
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return state.SortNewestFirst(r.items), nil
}

func (r *MemoryRepository) Create(_ context.Context, n core.NewTransaction) (core.Transaction, error) {
	if err := n.Validate(); err != nil {
		return core.Transaction{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t := n.Transaction(r.nextID)
	r.items = append(r.items, t)
	return t, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.items {
		if t.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %d: %w", id, ErrNotFound)
}

func (r *MemoryRepository) Close() error { return nil }
