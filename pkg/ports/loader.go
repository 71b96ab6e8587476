package ports

import (
	"context"

	"github.com/aretw0/macrograph/pkg/domain"
)

// GraphLoader defines how the engine retrieves the raw graph authored by the editor.
// This allows the storage layer (file, memory, editor process) to be decoupled.
type GraphLoader interface {
	// Load returns a snapshot of the current raw graph.
	// Implementations must return a copy the caller may keep while the editor keeps editing.
	Load(ctx context.Context) (*domain.Graph, error)
}

// GraphSaver is implemented by loaders that can also persist graphs (editor round-trip).
type GraphSaver interface {
	Save(ctx context.Context, g *domain.Graph) error
}
