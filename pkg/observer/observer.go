package observer

import (
	"context"

	"github.com/aretw0/macrograph/pkg/ports"
)

// Func adapts an ordinary function to ports.Observer.
type Func func(ctx context.Context) (bool, error)

// IsTriggered calls f(ctx).
func (f Func) IsTriggered(ctx context.Context) (bool, error) {
	return f(ctx)
}

type never struct{}

func (never) IsTriggered(context.Context) (bool, error) { return false, nil }

func (never) String() string { return "never" }

// Never returns an observer whose trigger can never be satisfied.
// It keeps an automaton well-formed when an observer node has no configured trigger.
func Never() ports.Observer {
	return never{}
}

// IsNever reports whether o is the Never observer.
func IsNever(o ports.Observer) bool {
	_, ok := o.(never)
	return ok
}
