package dsl

import (
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/registry"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Label sets the display label.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.node.Label = label
	return n
}

// Trigger sets the observer capability of an observer node.
func (n *NodeBuilder) Trigger(kind string, args map[string]any) *NodeBuilder {
	n.node.Observer = &domain.CapabilitySpec{Type: kind, Args: args}
	return n
}

// Region watches the rectangle (x1,y1)-(x2,y2) and triggers when more than threshold
// pixels changed since the previous poll.
func (n *NodeBuilder) Region(x1, y1, x2, y2, threshold int) *NodeBuilder {
	return n.Trigger(registry.TypeRegion, map[string]any{
		"region":    []int{x1, y1, x2, y2},
		"threshold": threshold,
	})
}

// Do appends an action literal to an action node.
func (n *NodeBuilder) Do(kind string, args map[string]any) *NodeBuilder {
	n.node.Actions = append(n.node.Actions, domain.CapabilitySpec{Type: kind, Args: args})
	return n
}

// Click appends a pointer click.
func (n *NodeBuilder) Click(x, y int, button string) *NodeBuilder {
	args := map[string]any{"x": x, "y": y}
	if button != "" {
		args["button"] = button
	}
	return n.Do(registry.TypeClick, args)
}

// Key appends a key press.
func (n *NodeBuilder) Key(key string) *NodeBuilder {
	return n.Do(registry.TypeKey, map[string]any{"key": key})
}

// Type appends typing of text.
func (n *NodeBuilder) Type(text string) *NodeBuilder {
	return n.Do(registry.TypeType, map[string]any{"text": text})
}

// Wait appends a pause.
func (n *NodeBuilder) Wait(d time.Duration) *NodeBuilder {
	return n.Do(registry.TypeWait, map[string]any{"duration": d.String()})
}

// Go adds an edge to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, target)
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
