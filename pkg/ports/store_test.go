package ports_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
)

// MockStore is a minimal implementation of RunStore for testing the contract itself.
type MockStore struct {
	mu   sync.Mutex
	data map[string]domain.RunRecord
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]domain.RunRecord)}
}

func (m *MockStore) Save(ctx context.Context, rec domain.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[rec.ID] = rec
	return nil
}

func (m *MockStore) Load(ctx context.Context, runID string) (domain.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.data[runID]
	if !ok {
		return domain.RunRecord{}, domain.ErrRunNotFound
	}
	return rec, nil
}

func (m *MockStore) List(ctx context.Context) ([]domain.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RunRecord, 0, len(m.data))
	for _, r := range m.data {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func TestRunStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, NewMockStore())
}
