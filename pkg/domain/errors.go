package domain

import (
	"errors"
	"fmt"
)

// Compile-time taxonomy.
var (
	// ErrNoObserverNode is reported when a raw graph has nothing to run.
	// It is a non-fatal condition, not a crash.
	ErrNoObserverNode = errors.New("no observer node found")

	// ErrEffectChainCycle is returned when a chain of action nodes never terminates.
	ErrEffectChainCycle = errors.New("effect chain cycle")

	// ErrAmbiguousBranch is returned when a node has more than one outgoing edge.
	ErrAmbiguousBranch = errors.New("ambiguous branch")

	// ErrUnknownNode is returned when an edge or the start marker references a missing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode is returned when two nodes share an ID, or a node has none.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrInvalidStart is returned when the explicit start marker does not name an observer node.
	ErrInvalidStart = errors.New("start node is not an observer")

	// ErrBindFailed is returned when a capability spec cannot be turned into an observer or action.
	ErrBindFailed = errors.New("capability binding failed")

	// ErrUnknownCapability is returned by registries for unregistered capability types.
	ErrUnknownCapability = errors.New("unknown capability type")
)

// Runtime taxonomy.
var (
	ErrObserverFailed = errors.New("observer failed")
	ErrActionFailed   = errors.New("action failed")
	ErrAlreadyRunning = errors.New("an automaton is already running")
	ErrNotRunning     = errors.New("no automaton is running")
	ErrStopTimeout    = errors.New("timed out waiting for automaton to stop")
	ErrRunNotFound    = errors.New("run not found")
	ErrLockLost       = errors.New("run lock lost")
	ErrNilAutomaton   = errors.New("nil automaton")
)

// CompileError is a structural problem found while compiling a raw graph.
type CompileError struct {
	Kind   error  // One of the compile-time sentinels
	NodeID string // Offending node, if any
	Err    error  // Underlying cause, if any
}

func (e *CompileError) Error() string {
	msg := e.Kind.Error()
	if e.NodeID != "" {
		msg = fmt.Sprintf("%s at node %q", msg, e.NodeID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CompileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// RuntimeError is a failure raised by an observer poll or an action during a run.
type RuntimeError struct {
	Kind   error // ErrObserverFailed or ErrActionFailed
	RunID  string
	NodeID string // Observer node owning the transition
	Action int    // Index into the effect sequence, -1 for observer failures
	Err    error
}

func (e *RuntimeError) Error() string {
	if e.Action >= 0 {
		return fmt.Sprintf("%s: transition %q effect #%d: %v", e.Kind, e.NodeID, e.Action, e.Err)
	}
	return fmt.Sprintf("%s: transition %q: %v", e.Kind, e.NodeID, e.Err)
}

func (e *RuntimeError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

type fatalError struct{ err error }

func (f fatalError) Error() string { return f.err.Error() }
func (f fatalError) Unwrap() error { return f.err }

// Fatal marks err as fatal: the engine aborts the run regardless of its failure policy.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return fatalError{err: err}
}

// IsFatal reports whether err (or anything it wraps) was marked with Fatal.
func IsFatal(err error) bool {
	var f fatalError
	return errors.As(err, &f)
}

// AggregateError collects several independent errors (e.g. validation findings).
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error { return e.Errors }
