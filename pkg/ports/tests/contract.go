package tests

import (
	"context"
	"testing"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
)

// GraphLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.GraphLoader.
// want is the graph the loader is expected to return.
func GraphLoaderContractTest(t *testing.T, loader ports.GraphLoader, want *domain.Graph) {
	t.Helper()
	ctx := context.Background()

	// 1. Load returns the expected nodes in order
	t.Run("Load_Nodes", func(t *testing.T) {
		g, err := loader.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading graph: %v", err)
		}
		if len(g.Nodes) != len(want.Nodes) {
			t.Fatalf("expected %d nodes, got %d", len(want.Nodes), len(g.Nodes))
		}
		for i, n := range want.Nodes {
			if g.Nodes[i].ID != n.ID || g.Nodes[i].Kind != n.Kind {
				t.Errorf("node %d mismatch: got %s/%s, want %s/%s", i, g.Nodes[i].ID, g.Nodes[i].Kind, n.ID, n.Kind)
			}
		}
	})

	// 2. Load returns the expected edges in insertion order
	t.Run("Load_Edges", func(t *testing.T) {
		g, err := loader.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading graph: %v", err)
		}
		if len(g.Edges) != len(want.Edges) {
			t.Fatalf("expected %d edges, got %d", len(want.Edges), len(g.Edges))
		}
		for i, e := range want.Edges {
			if g.Edges[i] != e {
				t.Errorf("edge %d mismatch: got %+v, want %+v", i, g.Edges[i], e)
			}
		}
	})

	// 3. Returned graphs are snapshots
	t.Run("Load_Isolation", func(t *testing.T) {
		g, err := loader.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading graph: %v", err)
		}
		if len(g.Nodes) == 0 {
			t.Skip("empty graph")
		}
		g.Nodes[0].ID = "mutated-by-caller"

		again, err := loader.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading graph: %v", err)
		}
		if again.Nodes[0].ID == "mutated-by-caller" {
			t.Error("loader returned shared graph state; expected a copy")
		}
	})
}
