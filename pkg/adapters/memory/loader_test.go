package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/macrograph/pkg/adapters/memory"
	"github.com/aretw0/macrograph/pkg/domain"
	contract "github.com/aretw0/macrograph/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *domain.Graph {
	return &domain.Graph{
		Name: "sample",
		Nodes: []domain.Node{
			{ID: "watch", Kind: domain.NodeObserver, Observer: &domain.CapabilitySpec{
				Type: "region", Args: map[string]any{"region": []int{0, 0, 10, 10}},
			}},
			{ID: "click", Kind: domain.NodeAction, Actions: []domain.CapabilitySpec{
				{Type: "click", Args: map[string]any{"x": 5, "y": 5}},
			}},
		},
		Edges: []domain.Edge{{From: "watch", To: "click"}, {From: "click", To: "watch"}},
	}
}

func TestInMemoryLoader_Contract(t *testing.T) {
	g := sample()
	contract.GraphLoaderContractTest(t, memory.NewLoader(g), g)
}

func TestInMemoryLoader_Save(t *testing.T) {
	l := memory.NewLoader(nil)
	ctx := context.Background()

	empty, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Nodes)

	g := sample()
	require.NoError(t, l.Save(ctx, g))
	g.Nodes[0].ID = "mutated"

	got, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "watch", got.Nodes[0].ID, "saved graph must be isolated from the caller")
}
