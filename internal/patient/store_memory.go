package patient

import (
	"context"
	"strings"
	"sync"

	id "sigilo/pkg/domain"
)

// MemoryStore is an in-memory patient repository for tests and local
// development. Records are keyed per tenant.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.TenantID][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[id.TenantID][]Record)}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.records[rec.TenantID] {
		if existing.ID == rec.ID {
			s.records[rec.TenantID][i] = rec
			return nil
		}
	}
	s.records[rec.TenantID] = append(s.records[rec.TenantID], rec)
	return nil
}

func (s *MemoryStore) FindCandidates(_ context.Context, tenantID id.TenantID, searchType SearchType, term string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.records[tenantID] {
		if matches(rec, searchType, term) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func matches(rec Record, searchType SearchType, term string) bool {
	switch searchType {
	case SearchByCPF:
		return rec.CPF == term
	case SearchByCNS:
		return rec.CNS == term
	case SearchByName:
		return strings.Contains(strings.ToLower(rec.FullName), strings.ToLower(term))
	default:
		return false
	}
}
