package store

import (
	"sort"
	"sync"

	"quizbowl-match-service/internal/app/matches"
)

// MemoryStore keeps the live match registry in memory. The map is guarded
// for concurrent readers; writes still follow the one-writer-at-a-time
// discipline the match model expects.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]matches.MatchRecord
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]matches.MatchRecord),
	}
}

// ListMatches returns the current records ordered by creation time.
func (s *MemoryStore) ListMatches() []matches.MatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]matches.MatchRecord, 0, len(s.records))
	for _, r := range s.records {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// GetMatch retrieves a record by ID.
func (s *MemoryStore) GetMatch(id string) (matches.MatchRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	return r, ok
}

// PutMatch inserts or replaces a record.
func (s *MemoryStore) PutMatch(record matches.MatchRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record
}

// DeleteMatch removes a record. No-op when absent.
func (s *MemoryStore) DeleteMatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
}
