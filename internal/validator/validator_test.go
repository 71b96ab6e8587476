package validator

import (
	"errors"
	"testing"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(id string) domain.Node {
	return domain.Node{ID: id, Kind: domain.NodeObserver, Observer: &domain.CapabilitySpec{Type: registry.TypeNever}}
}

func act(id string, specs ...domain.CapabilitySpec) domain.Node {
	return domain.Node{ID: id, Kind: domain.NodeAction, Actions: specs}
}

var wait = domain.CapabilitySpec{Type: registry.TypeWait, Args: map[string]any{"duration": "10ms"}}

func TestValidateGraph(t *testing.T) {
	reg := registry.Builtin(registry.Devices{})

	t.Run("Valid", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{obs("start"), act("a", wait), obs("b")},
			Edges: []domain.Edge{{From: "start", To: "a"}, {From: "a", To: "b"}},
		}
		r := ValidateGraph(g, reg)
		assert.True(t, r.OK(), "unexpected errors: %v", r.Err())
		assert.Empty(t, r.Warnings)
	})

	t.Run("Broken Link", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{obs("start")},
			Edges: []domain.Edge{{From: "start", To: "ghost_node"}},
		}
		r := ValidateGraph(g, reg)
		require.False(t, r.OK())
		assert.ErrorIs(t, r.Err(), domain.ErrUnknownNode)
	})

	t.Run("Duplicate IDs", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{obs("start"), act("start", wait), act("", wait)},
		}
		r := ValidateGraph(g, reg)
		require.Len(t, r.Errors, 2)
		assert.ErrorIs(t, r.Err(), domain.ErrDuplicateNode)
		assert.NotErrorIs(t, r.Err(), domain.ErrUnknownNode)
	})

	t.Run("Collects Every Problem", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{
				obs("start"),
				act("a", domain.CapabilitySpec{Type: "teleport"}),
				act("b", wait),
				act("c", wait),
			},
			Edges: []domain.Edge{
				{From: "start", To: "a"}, {From: "start", To: "b"},
				{From: "b", To: "c"}, {From: "c", To: "b"},
			},
		}
		r := ValidateGraph(g, reg)
		err := r.Err()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAmbiguousBranch)
		assert.ErrorIs(t, err, domain.ErrBindFailed)
		assert.ErrorIs(t, err, domain.ErrEffectChainCycle)

		var agg *domain.AggregateError
		require.True(t, errors.As(err, &agg))
		assert.GreaterOrEqual(t, len(agg.Errors), 4)
	})

	t.Run("Unreachable And Empty", func(t *testing.T) {
		g := &domain.Graph{
			Nodes: []domain.Node{obs("start"), act("orphan"), {ID: "silent", Kind: domain.NodeObserver}},
		}
		r := ValidateGraph(g, reg)
		assert.True(t, r.OK())
		assert.Len(t, r.Warnings, 4) // orphan unreachable + empty, silent unreachable + no trigger
	})

	t.Run("No Observer", func(t *testing.T) {
		r := ValidateGraph(&domain.Graph{Nodes: []domain.Node{act("a", wait)}}, nil)
		assert.True(t, r.OK())
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0], "nothing to run")
	})

	t.Run("Invalid Start", func(t *testing.T) {
		g := &domain.Graph{Start: "a", Nodes: []domain.Node{obs("o"), act("a", wait)}}
		r := ValidateGraph(g, nil)
		assert.ErrorIs(t, r.Err(), domain.ErrInvalidStart)
	})
}
