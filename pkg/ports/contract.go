package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405.000000000")

	t.Run("Save and Load", func(t *testing.T) {
		rec := domain.RunRecord{
			ID:          runID,
			Graph:       "contract",
			StartedAt:   time.Now().UTC().Truncate(time.Second),
			Status:      domain.StatusStopped,
			Outcome:     domain.OutcomeCompleted,
			Transitions: 2,
			Actions:     3,
			Path:        []string{"watch", "confirm"},
		}

		err := store.Save(ctx, rec)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.ID, loaded.ID)
		assert.Equal(t, rec.Outcome, loaded.Outcome)
		assert.Equal(t, rec.Transitions, loaded.Transitions)
		assert.Equal(t, rec.Path, loaded.Path)
		assert.True(t, rec.StartedAt.Equal(loaded.StartedAt))
	})

	t.Run("Save Replaces", func(t *testing.T) {
		rec := domain.RunRecord{ID: runID, Status: domain.StatusStopped, Outcome: domain.OutcomeFailed, Error: "boom"}
		require.NoError(t, store.Save(ctx, rec))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeFailed, loaded.Outcome)
		assert.Equal(t, "boom", loaded.Error)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("List", func(t *testing.T) {
		older := domain.RunRecord{ID: runID + "-old", StartedAt: time.Now().Add(-time.Hour), Status: domain.StatusStopped}
		newer := domain.RunRecord{ID: runID + "-new", StartedAt: time.Now(), Status: domain.StatusStopped}
		require.NoError(t, store.Save(ctx, older))
		require.NoError(t, store.Save(ctx, newer))

		records, err := store.List(ctx)
		require.NoError(t, err)

		ids := make([]string, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, older.ID)
		assert.Contains(t, ids, newer.ID)

		// Most recent first
		idxOld, idxNew := -1, -1
		for i, id := range ids {
			switch id {
			case older.ID:
				idxOld = i
			case newer.ID:
				idxNew = i
			}
		}
		assert.Less(t, idxNew, idxOld, "newer run should be listed before older run")
	})
}
