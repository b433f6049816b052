package audit

import (
	"context"
	"sync"

	id "sigilo/pkg/domain"
)

// MemoryStore keeps audit entries in memory for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].TenantID == tenantID {
			out = append(out, s.entries[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// All returns every entry in insertion order. Test helper.
func (s *MemoryStore) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}
