package memory

import (
	"context"
	"sync"

	"github.com/aretw0/macrograph/pkg/domain"
)

// Loader implements ports.GraphLoader and ports.GraphSaver over a graph held in memory.
// It plays the editor's role in tests and embedded hosts. Safe for concurrent use.
type Loader struct {
	mu    sync.RWMutex
	graph *domain.Graph
}

// NewLoader creates a loader serving a copy of g.
func NewLoader(g *domain.Graph) *Loader {
	if g == nil {
		g = &domain.Graph{}
	}
	return &Loader{graph: g.Clone()}
}

// NewFromNodes creates a loader from nodes and edges.
// This improves DX for tests.
func NewFromNodes(nodes []domain.Node, edges ...domain.Edge) *Loader {
	return NewLoader(&domain.Graph{Nodes: nodes, Edges: edges})
}

// Load returns a snapshot of the current graph.
func (l *Loader) Load(ctx context.Context) (*domain.Graph, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.graph.Clone(), nil
}

// Save replaces the current graph with a copy of g.
func (l *Loader) Save(ctx context.Context, g *domain.Graph) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph = g.Clone()
	return nil
}
