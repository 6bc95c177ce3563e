package owners

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps owners in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	owners []Owner
}

// NewMemory creates a memory store holding owners.
func NewMemory(owners ...Owner) *MemoryStore {
	s := &MemoryStore{owners: slices.Clone(owners)}
	slices.SortFunc(s.owners, func(a, b Owner) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return s
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]Owner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.owners), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
