package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/macrograph/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.RunRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.RunRecord),
	}
}

// Save persists the record in memory.
func (s *Store) Save(ctx context.Context, rec domain.RunRecord) error {
	rec.Path = append([]string(nil), rec.Path...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.ID] = rec
	return nil
}

// Load retrieves a record from memory.
func (s *Store) Load(ctx context.Context, runID string) (domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[runID]
	if !ok {
		return domain.RunRecord{}, domain.ErrRunNotFound
	}
	rec.Path = append([]string(nil), rec.Path...)
	return rec, nil
}

// List returns all records, most recent first.
func (s *Store) List(ctx context.Context) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RunRecord, 0, len(s.data))
	for _, rec := range s.data {
		rec.Path = append([]string(nil), rec.Path...)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}
