package validator

import (
	"fmt"

	"github.com/aretw0/macrograph/internal/compiler"
	"github.com/aretw0/macrograph/pkg/domain"
)

// Report collects the findings of a validation pass.
// Errors prevent the graph from running; warnings do not.
type Report struct {
	Errors   []error
	Warnings []string
}

// OK reports whether no errors were found.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Err returns the errors as a *domain.AggregateError, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &domain.AggregateError{Errors: r.Errors}
}

func (r *Report) errorf(kind error, nodeID, format string, args ...any) {
	var cause error
	if format != "" {
		cause = fmt.Errorf(format, args...)
	}
	r.Errors = append(r.Errors, &domain.CompileError{Kind: kind, NodeID: nodeID, Err: cause})
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateGraph checks g for every structural problem at once, where the compiler stops at the
// first. It crawls from the start observer to find unreachable nodes, and binds every capability
// through b (if non-nil) to catch bad arguments before a run.
func ValidateGraph(g *domain.Graph, b compiler.Binder) *Report {
	r := &Report{}

	// 1. Node table
	nodes := make(map[string]domain.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			r.errorf(domain.ErrDuplicateNode, "", "node with empty id")
			continue
		}
		if _, dup := nodes[n.ID]; dup {
			r.errorf(domain.ErrDuplicateNode, n.ID, "duplicate node id")
			continue
		}
		if !n.Kind.Valid() {
			r.errorf(domain.ErrUnknownNode, n.ID, "unsupported node kind %q", n.Kind)
		}
		nodes[n.ID] = n
	}

	// 2. Edges and branching
	for _, e := range g.Edges {
		if _, ok := nodes[e.From]; !ok {
			r.errorf(domain.ErrUnknownNode, e.From, "edge source")
		}
		if _, ok := nodes[e.To]; !ok {
			r.errorf(domain.ErrUnknownNode, e.To, "edge target")
		}
	}
	for _, n := range g.Nodes {
		if out := g.Outgoing(n.ID); len(out) > 1 {
			r.errorf(domain.ErrAmbiguousBranch, n.ID, "%d outgoing edges", len(out))
		}
	}

	// 3. Capabilities
	for _, n := range g.Nodes {
		switch {
		case n.IsObserver() && n.Observer == nil:
			r.warnf("observer %q has no trigger and will never fire", n.ID)
		case n.IsObserver() && b != nil:
			if _, err := b.BindObserver(*n.Observer); err != nil {
				r.errorf(domain.ErrBindFailed, n.ID, "%v", err)
			}
		case n.IsAction() && len(n.Actions) == 0:
			r.warnf("action node %q has no actions", n.ID)
		case n.IsAction() && b != nil:
			for i, spec := range n.Actions {
				if _, err := b.BindAction(spec); err != nil {
					r.errorf(domain.ErrBindFailed, n.ID, "action #%d: %v", i, err)
				}
			}
		}
	}

	// 4. Start
	observers := g.Observers()
	if len(observers) == 0 {
		r.warnf("%v: nothing to run", domain.ErrNoObserverNode)
		return r
	}
	start := observers[0].ID
	if g.Start != "" {
		n, ok := nodes[g.Start]
		switch {
		case !ok:
			r.errorf(domain.ErrUnknownNode, g.Start, "start marker")
			return r
		case !n.IsObserver():
			r.errorf(domain.ErrInvalidStart, g.Start, "")
			return r
		}
		start = g.Start
	}

	// 5. Crawl from start, following every edge
	visited := make(map[string]bool)
	queue := []string{start}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		for _, target := range g.Outgoing(currentID) {
			if _, ok := nodes[target]; ok && !visited[target] {
				queue = append(queue, target)
			}
		}
	}
	for _, n := range g.Nodes {
		if !visited[n.ID] {
			r.warnf("node %q is unreachable from %q", n.ID, start)
		}
	}

	// 6. Effect chain cycles: action nodes that can reach themselves without passing an observer
	for _, n := range g.Nodes {
		if n.IsAction() && actionCycle(g, nodes, n.ID) {
			r.errorf(domain.ErrEffectChainCycle, n.ID, "")
		}
	}

	return r
}

func actionCycle(g *domain.Graph, nodes map[string]domain.Node, from string) bool {
	seen := make(map[string]bool)
	stack := g.Outgoing(from)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == from {
			return true
		}
		n, ok := nodes[id]
		if !ok || !n.IsAction() || seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, g.Outgoing(id)...)
	}
	return false
}
