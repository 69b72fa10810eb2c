package state

import (
	"sync"
	"testing"

	"fintrack/internal/core"
)

func tx(id int64, y, m, d int) core.Transaction {
	return core.Transaction{
		ID:          id,
		Description: "t",
		Amount:      core.MustAmount("1"),
		Type:        core.Expense,
		Date:        core.NewDate(y, m, d),
	}
}

func ids(txs []core.Transaction) []int64 {
	out := make([]int64, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func TestReplaceSortsNewestFirst(t *testing.T) {
	s := NewStore()
	s.Replace([]core.Transaction{
		tx(1, 2025, 1, 1),
		tx(3, 2025, 1, 3),
		tx(2, 2025, 1, 3),
		tx(4, 2024, 12, 31),
	})

	got, _ := s.Snapshot()
	want := []int64{3, 2, 1, 4}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestReplaceDoesNotAliasInput(t *testing.T) {
	in := []core.Transaction{tx(1, 2025, 1, 1), tx(2, 2025, 1, 2)}
	s := NewStore()
	s.Replace(in)

	if in[0].ID != 1 {
		t.Errorf("input was reordered: %v", ids(in))
	}
	in[0].Description = "mutated"
	got, _ := s.Snapshot()
	for _, g := range got {
		if g.Description == "mutated" {
			t.Fatal("store shares memory with caller")
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.Replace([]core.Transaction{tx(1, 2025, 1, 1)})

	snap, _ := s.Snapshot()
	snap[0].Description = "changed"

	again, _ := s.Snapshot()
	if again[0].Description != "t" {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestVersionAndLoaded(t *testing.T) {
	s := NewStore()
	if s.Loaded() || s.Version() != 0 {
		t.Fatal("new store should be empty and unloaded")
	}
	v1 := s.Replace(nil)
	v2 := s.Replace([]core.Transaction{tx(1, 2025, 1, 1)})
	if !s.Loaded() {
		t.Error("store should be loaded after Replace")
	}
	if v1 != 1 || v2 != 2 || s.Version() != 2 {
		t.Errorf("versions = %d, %d, %d", v1, v2, s.Version())
	}
	if s.Len() != 1 {
		t.Errorf("len = %d", s.Len())
	}
}

func TestConcurrentReplaceAndSnapshot(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace([]core.Transaction{tx(int64(i), 2025, 1, 1)})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Snapshot()
		}()
	}
	wg.Wait()
	if s.Version() != 20 {
		t.Errorf("version = %d, want 20", s.Version())
	}
	if s.Len() != 1 {
		t.Errorf("last replace should win wholesale, len = %d", s.Len())
	}
}
