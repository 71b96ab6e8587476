package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *Graph {
	return &Graph{
		Name: "sample",
		Nodes: []Node{
			{ID: "a", Kind: NodeAction, Actions: []CapabilitySpec{{Type: "key", Args: map[string]any{"key": "enter"}}}},
			{ID: "o1", Kind: NodeObserver, Label: "First", Observer: &CapabilitySpec{Type: "region", Args: map[string]any{
				"threshold": 5,
				"region":    []any{0, 0, 10, 10},
				"extra":     map[string]any{"tags": []string{"a"}},
			}}},
			{ID: "o2", Kind: NodeObserver},
		},
		Edges: []Edge{
			{From: "o1", To: "a"},
			{From: "a", To: "o2"},
			{From: "o2", To: "a"},
		},
	}
}

func TestGraph_Lookups(t *testing.T) {
	g := sampleGraph()

	n, ok := g.Node("o1")
	require.True(t, ok)
	assert.Equal(t, "First", n.DisplayName())

	_, ok = g.Node("ghost")
	assert.False(t, ok)

	assert.Equal(t, []string{"o2"}, g.Outgoing("a"))
	assert.Equal(t, []string{"o1", "o2"}, g.Incoming("a"))
	assert.Nil(t, g.Outgoing("ghost"))

	obs := g.Observers()
	require.Len(t, obs, 2)
	assert.Equal(t, "o1", obs[0].ID)
	assert.Equal(t, "o2", obs[1].ID)
}

func TestGraph_Clone(t *testing.T) {
	g := sampleGraph()
	cp := g.Clone()
	require.Equal(t, g, cp)

	cp.Nodes[0].Actions[0].Args["key"] = "tab"
	cp.Nodes[1].Observer.Args["threshold"] = 50
	cp.Nodes[1].Observer.Args["region"].([]any)[2] = 99
	cp.Nodes[1].Observer.Args["extra"].(map[string]any)["tags"].([]string)[0] = "b"
	cp.Nodes[1].Label = "changed"
	cp.Edges[0].To = "o2"

	assert.Equal(t, "enter", g.Nodes[0].Actions[0].Args["key"])
	assert.Equal(t, 5, g.Nodes[1].Observer.Args["threshold"])
	assert.Equal(t, []any{0, 0, 10, 10}, g.Nodes[1].Observer.Args["region"])
	assert.Equal(t, []string{"a"}, g.Nodes[1].Observer.Args["extra"].(map[string]any)["tags"])
	assert.Equal(t, "First", g.Nodes[1].Label)
	assert.Equal(t, "a", g.Edges[0].To)

	var nilGraph *Graph
	assert.Nil(t, nilGraph.Clone())
}

func TestNode_Kinds(t *testing.T) {
	assert.True(t, NodeObserver.Valid())
	assert.True(t, NodeAction.Valid())
	assert.False(t, NodeKind("sensor").Valid())

	n := Node{ID: "x", Kind: NodeAction}
	assert.True(t, n.IsAction())
	assert.False(t, n.IsObserver())
	assert.Equal(t, "x", n.DisplayName())
}

func TestRegion(t *testing.T) {
	r, err := RegionFromSlice([]int{10, 20, 0, 5})
	require.NoError(t, err)
	assert.Equal(t, Region{X1: 0, Y1: 5, X2: 10, Y2: 20}, r)
	assert.Equal(t, 10, r.Width())
	assert.Equal(t, 15, r.Height())
	assert.False(t, r.Empty())
	assert.Equal(t, "(0,5)-(10,20)", r.String())

	assert.True(t, Region{X1: 3, Y1: 3, X2: 3, Y2: 9}.Empty())

	_, err = RegionFromSlice([]int{1, 2, 3})
	assert.Error(t, err)
}

func TestCapabilitySpec_Clone(t *testing.T) {
	spec := CapabilitySpec{Type: "region", Args: map[string]any{"region": []int{1, 2, 3, 4}}}
	cp := spec.Clone()
	cp.Args["region"].([]int)[0] = 100
	assert.Equal(t, []int{1, 2, 3, 4}, spec.Args["region"])

	assert.Nil(t, CapabilitySpec{Type: "never"}.Clone().Args)
}
