package compiler

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/macrograph/internal/logging"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/observer"
	"github.com/aretw0/macrograph/pkg/ports"
)

// Binder turns capability specs into live observers and actions.
// *registry.Registry implements it.
type Binder interface {
	BindObserver(spec domain.CapabilitySpec) (ports.Observer, error)
	BindAction(spec domain.CapabilitySpec) (ports.Action, error)
}

// Compiler translates a raw graph into an Automaton.
type Compiler struct {
	binder  Binder
	lenient bool
	logger  *slog.Logger
}

// Option configures the Compiler.
type Option func(*Compiler)

// WithLenientBranching keeps only the first outgoing edge of a node with several,
// recording a warning instead of failing. Use it for graphs authored before branching was rejected.
func WithLenientBranching(lenient bool) Option {
	return func(c *Compiler) {
		c.lenient = lenient
	}
}

// WithLogger sets the logger used for compile warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a compiler binding capabilities through b.
func New(b Binder, opts ...Option) *Compiler {
	c := &Compiler{
		binder: b,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds the automaton for g.
//
// It returns (nil, nil) when g contains no observer node: there is nothing to run, which is
// not an error at this level. Structural problems are returned as *domain.CompileError.
// The raw graph is only read, never modified.
func (c *Compiler) Compile(g *domain.Graph) (*Automaton, error) {
	b := &build{
		c:      c,
		g:      g,
		nodes:  make(map[string]domain.Node, len(g.Nodes)),
		index:  make(map[string]int),
		warned: make(map[string]bool),
		auto:   &Automaton{Name: g.Name, Start: NoSuccessor},
	}
	return b.run()
}

// build holds the per-compile state so that a Compiler is reusable and stateless.
type build struct {
	c     *Compiler
	g     *domain.Graph
	nodes map[string]domain.Node
	index map[string]int // observer node ID -> transition index
	auto  *Automaton

	warned map[string]bool
}

func (b *build) run() (*Automaton, error) {
	// 1. Index nodes and check edges reference known nodes
	for _, n := range b.g.Nodes {
		if n.ID == "" {
			return nil, &domain.CompileError{Kind: domain.ErrDuplicateNode, Err: fmt.Errorf("%s node without id", n.Kind)}
		}
		if _, dup := b.nodes[n.ID]; dup {
			return nil, &domain.CompileError{Kind: domain.ErrDuplicateNode, NodeID: n.ID}
		}
		b.nodes[n.ID] = n
	}
	for _, e := range b.g.Edges {
		if _, ok := b.nodes[e.From]; !ok {
			return nil, &domain.CompileError{Kind: domain.ErrUnknownNode, NodeID: e.From}
		}
		if _, ok := b.nodes[e.To]; !ok {
			return nil, &domain.CompileError{Kind: domain.ErrUnknownNode, NodeID: e.To}
		}
	}

	// 2. One transition per observer node, in node order
	for _, n := range b.g.Nodes {
		if !n.IsObserver() {
			continue
		}
		obs, err := b.bindObserver(n)
		if err != nil {
			return nil, err
		}
		t := &Transition{
			Index:     len(b.auto.Transitions),
			NodeID:    n.ID,
			Label:     n.Label,
			Observer:  obs,
			Successor: NoSuccessor,
		}
		b.index[n.ID] = t.Index
		b.auto.Transitions = append(b.auto.Transitions, t)
	}

	if len(b.auto.Transitions) == 0 {
		return nil, nil
	}

	// 3. Resolve effect chains and successors
	for _, t := range b.auto.Transitions {
		if err := b.link(t); err != nil {
			return nil, err
		}
	}

	// 4. Pick the start transition
	start, err := b.start()
	if err != nil {
		return nil, err
	}
	b.auto.Start = start

	return b.auto, nil
}

func (b *build) bindObserver(n domain.Node) (ports.Observer, error) {
	if n.Observer == nil {
		b.warn(n.ID, "observer node has no trigger configured; it will never fire")
		return observer.Never(), nil
	}
	obs, err := b.c.binder.BindObserver(*n.Observer)
	if err != nil {
		return nil, &domain.CompileError{Kind: domain.ErrBindFailed, NodeID: n.ID, Err: err}
	}
	return obs, nil
}

// next returns the single target followed out of id, applying the branching policy.
func (b *build) next(id string) (string, bool, error) {
	out := b.g.Outgoing(id)
	switch len(out) {
	case 0:
		return "", false, nil
	case 1:
		return out[0], true, nil
	}

	if !b.c.lenient {
		return "", false, &domain.CompileError{
			Kind:   domain.ErrAmbiguousBranch,
			NodeID: id,
			Err:    fmt.Errorf("%d outgoing edges", len(out)),
		}
	}
	b.warn(id, fmt.Sprintf("%d outgoing edges; only the edge to %q is followed", len(out), out[0]))
	return out[0], true, nil
}

// link walks the action chain leaving the observer of t, flattening every action literal met
// until the next observer node (the successor) or the end of the chain (terminal).
func (b *build) link(t *Transition) error {
	target, ok, err := b.next(t.NodeID)
	if err != nil || !ok {
		return err
	}

	visited := make(map[string]bool)
	for {
		node := b.nodes[target]
		if node.IsObserver() {
			t.Successor = b.index[node.ID]
			return nil
		}
		if !node.IsAction() {
			return &domain.CompileError{
				Kind:   domain.ErrUnknownNode,
				NodeID: node.ID,
				Err:    fmt.Errorf("unsupported node kind %q", node.Kind),
			}
		}

		if visited[node.ID] {
			return &domain.CompileError{Kind: domain.ErrEffectChainCycle, NodeID: node.ID}
		}
		visited[node.ID] = true

		for i, spec := range node.Actions {
			act, err := b.c.binder.BindAction(spec)
			if err != nil {
				return &domain.CompileError{
					Kind:   domain.ErrBindFailed,
					NodeID: node.ID,
					Err:    fmt.Errorf("action #%d: %w", i, err),
				}
			}
			t.Effects = append(t.Effects, act)
		}
		t.EffectNodes = append(t.EffectNodes, node.ID)

		target, ok, err = b.next(node.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil // Terminal
		}
	}
}

// start resolves the start transition. The explicit Graph.Start marker wins; otherwise the first
// observer node in the graph's node order is used.
func (b *build) start() (int, error) {
	if b.g.Start == "" {
		return 0, nil
	}
	n, ok := b.nodes[b.g.Start]
	if !ok {
		return 0, &domain.CompileError{Kind: domain.ErrUnknownNode, NodeID: b.g.Start}
	}
	if !n.IsObserver() {
		return 0, &domain.CompileError{Kind: domain.ErrInvalidStart, NodeID: n.ID}
	}
	return b.index[n.ID], nil
}

// warn records a diagnostic once per node and message: a shared action node is walked once
// per observer reaching it.
func (b *build) warn(nodeID, msg string) {
	key := nodeID + "\x00" + msg
	if b.warned[key] {
		return
	}
	b.warned[key] = true
	b.auto.Diagnostics = append(b.auto.Diagnostics, Diagnostic{
		Severity: SeverityWarning,
		NodeID:   nodeID,
		Message:  msg,
	})
	b.c.logger.Warn("compile warning", "node_id", nodeID, "msg", msg)
}
