package ports

import (
	"context"

	"github.com/aretw0/macrograph/pkg/domain"
)

// Controller is the surface the controlling context (CLI, HTTP, MCP) drives.
// It is implemented by the root macrograph.Engine.
type Controller interface {
	// StartRun compiles the current raw graph and starts the automaton.
	// Returns domain.ErrNoObserverNode when there is nothing to run.
	StartRun(ctx context.Context) (domain.RunRecord, error)

	// Stop signals the active run to stop and waits for it.
	Stop(ctx context.Context) error

	// Status returns the engine status and the record of the current (or last) run.
	Status() (domain.RunStatus, *domain.RunRecord)

	// Inspect returns the current raw graph.
	Inspect(ctx context.Context) (*domain.Graph, error)

	// History returns persisted run records.
	History(ctx context.Context) ([]domain.RunRecord, error)
}
