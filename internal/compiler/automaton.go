package compiler

import (
	"github.com/aretw0/macrograph/pkg/ports"
)

// NoSuccessor marks a terminal transition.
const NoSuccessor = -1

// Transition is one compiled transition record: an observer, the ordered effects to run when it
// triggers, and the transition to move to afterwards.
type Transition struct {
	Index  int
	NodeID string
	Label  string

	// Observer is owned exclusively by this transition.
	Observer ports.Observer

	// Effects run strictly in order when Observer triggers. May be empty.
	Effects []ports.Action

	// EffectNodes lists the action nodes whose literals were flattened into Effects, in chain order.
	EffectNodes []string

	// Successor is the index of the next transition in Automaton.Transitions, or NoSuccessor.
	Successor int
}

// Terminal reports whether the automaton halts after this transition fires.
func (t *Transition) Terminal() bool {
	return t.Successor == NoSuccessor
}

// Automaton is the compiled, immutable form of a raw graph.
// Transitions form an arena indexed by Transition.Index; successors are indices, so merge points
// in the raw graph become shared successors without ownership cycles.
type Automaton struct {
	Name        string
	Transitions []*Transition
	Start       int
	Diagnostics []Diagnostic
}

// StartTransition returns the transition the automaton begins in.
func (a *Automaton) StartTransition() *Transition {
	return a.Transitions[a.Start]
}

// Next returns the successor of t, or nil if t is terminal.
func (a *Automaton) Next(t *Transition) *Transition {
	if t.Successor == NoSuccessor {
		return nil
	}
	return a.Transitions[t.Successor]
}

// Lookup returns the transition compiled from the given observer node.
func (a *Automaton) Lookup(nodeID string) (*Transition, bool) {
	for _, t := range a.Transitions {
		if t.NodeID == nodeID {
			return t, true
		}
	}
	return nil, false
}

// Severity of a compile diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
)

// Diagnostic is a non-fatal finding recorded while compiling.
type Diagnostic struct {
	Severity Severity
	NodeID   string
	Message  string
}
