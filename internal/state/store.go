// Package state holds the in-memory snapshot of the ledger.
package state

import (
	"cmp"
	"slices"
	"sync"

	"fintrack/internal/core"
)

// Store keeps the last successfully fetched transaction list.
// The list is only ever replaced wholesale; readers get copies.
type Store struct {
	mu      sync.RWMutex
	txs     []core.Transaction
	version uint64
	loaded  bool
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps the snapshot for txs sorted newest first
// (date descending, then id descending) and bumps the version.
func (s *Store) Replace(txs []core.Transaction) uint64 {
	sorted := SortNewestFirst(txs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = sorted
	s.version++
	s.loaded = true
	return s.version
}

// Snapshot returns a copy of the current list and its version.
func (s *Store) Snapshot() ([]core.Transaction, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.txs), s.version
}

// Version changes on every Replace.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Loaded reports whether at least one List has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

// SortNewestFirst returns a sorted copy; the input is left untouched.
func SortNewestFirst(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, len(txs))
	copy(out, txs)
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
