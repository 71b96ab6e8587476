package dsl

import (
	"github.com/aretw0/macrograph/pkg/adapters/memory"
	"github.com/aretw0/macrograph/pkg/domain"
)

// Builder manages the graph construction.
// Nodes keep the order in which they were first added, which decides the default start node.
type Builder struct {
	name  string
	start string
	order []string
	nodes map[string]*NodeBuilder
	edges []domain.Edge
}

// New creates a new graph builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Observer adds (or returns) an observer node.
func (b *Builder) Observer(id string) *NodeBuilder {
	return b.add(id, domain.NodeObserver)
}

// Action adds (or returns) an action node.
func (b *Builder) Action(id string) *NodeBuilder {
	return b.add(id, domain.NodeAction)
}

// Start marks id as the explicit start observer.
func (b *Builder) Start(id string) *Builder {
	b.start = id
	return b
}

// Connect adds an edge from -> to.
func (b *Builder) Connect(from, to string) *Builder {
	b.edges = append(b.edges, domain.Edge{From: from, To: to})
	return b
}

func (b *Builder) add(id string, kind domain.NodeKind) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.Node{ID: id, Kind: kind},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Graph returns the raw graph built so far.
func (b *Builder) Graph() *domain.Graph {
	g := &domain.Graph{
		Name:  b.name,
		Start: b.start,
		Nodes: make([]domain.Node, 0, len(b.order)),
		Edges: append([]domain.Edge(nil), b.edges...),
	}
	for _, id := range b.order {
		g.Nodes = append(g.Nodes, b.nodes[id].node)
	}
	return g.Clone()
}

// Build returns a memory loader serving the graph.
func (b *Builder) Build() *memory.Loader {
	return memory.NewLoader(b.Graph())
}
