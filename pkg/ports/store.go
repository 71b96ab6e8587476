package ports

import (
	"context"

	"github.com/aretw0/macrograph/pkg/domain"
)

// RunStore persists run records, so that hosts can inspect past runs after the automaton is discarded.
type RunStore interface {
	// Save persists (or replaces) the record for rec.ID.
	Save(ctx context.Context, rec domain.RunRecord) error

	// Load retrieves a record by run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (domain.RunRecord, error)

	// List returns the stored records, most recent first.
	List(ctx context.Context) ([]domain.RunRecord, error)
}
