package inmemory

import (
	"context"
	"sync"

	"github.com/barekit/adscope/pkg/keyword"
)

// InMemory implements Archive using a map keyed by term.
type InMemory struct {
	mu        sync.RWMutex
	snapshots map[string][]keyword.Record
}

// New creates a new InMemory adapter.
func New() *InMemory {
	return &InMemory{
		snapshots: make(map[string][]keyword.Record),
	}
}

// Append stores a keyword snapshot in memory.
func (a *InMemory) Append(ctx context.Context, rec keyword.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.snapshots[rec.Term] = append(a.snapshots[rec.Term], rec)
	return nil
}

// History returns the snapshots for a term in insertion order.
func (a *InMemory) History(ctx context.Context, term string) ([]keyword.Record, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	// Return a copy so the caller cannot mutate the stored slice
	recs := a.snapshots[term]
	result := make([]keyword.Record, len(recs))
	copy(result, recs)

	return result, nil
}
