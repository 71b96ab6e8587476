package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileError(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  *CompileError
		want string
	}{
		{"kind only", &CompileError{Kind: ErrNoObserverNode}, "no observer node found"},
		{"with node", &CompileError{Kind: ErrAmbiguousBranch, NodeID: "o1"}, `ambiguous branch at node "o1"`},
		{"with cause", &CompileError{Kind: ErrBindFailed, NodeID: "a", Err: cause}, `capability binding failed at node "a": boom`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.err.Kind)
		})
	}

	wrapped := fmt.Errorf("compile: %w", &CompileError{Kind: ErrBindFailed, Err: cause})
	assert.ErrorIs(t, wrapped, ErrBindFailed)
	assert.ErrorIs(t, wrapped, cause)

	var ce *CompileError
	assert.ErrorAs(t, wrapped, &ce)
}

func TestRuntimeError(t *testing.T) {
	cause := errors.New("no display")

	obs := &RuntimeError{Kind: ErrObserverFailed, NodeID: "o1", Action: -1, Err: cause}
	assert.Equal(t, `observer failed: transition "o1": no display`, obs.Error())
	assert.ErrorIs(t, obs, ErrObserverFailed)
	assert.ErrorIs(t, obs, cause)

	act := &RuntimeError{Kind: ErrActionFailed, NodeID: "o1", Action: 2, Err: cause}
	assert.Equal(t, `action failed: transition "o1" effect #2: no display`, act.Error())
	assert.ErrorIs(t, act, ErrActionFailed)
	assert.NotErrorIs(t, act, ErrObserverFailed)
}

func TestFatal(t *testing.T) {
	assert.Nil(t, Fatal(nil))

	cause := errors.New("device unplugged")
	err := Fatal(cause)
	assert.Equal(t, "device unplugged", err.Error())
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, cause)

	assert.True(t, IsFatal(&RuntimeError{Kind: ErrActionFailed, Err: err}))
	assert.False(t, IsFatal(cause))
}

func TestAggregateError(t *testing.T) {
	a := errors.New("first")
	single := &AggregateError{Errors: []error{a}}
	assert.Equal(t, "first", single.Error())

	b := &CompileError{Kind: ErrUnknownNode, NodeID: "x"}
	agg := &AggregateError{Errors: []error{a, b}}
	assert.Equal(t, "2 errors:\n  1. first\n  2. unknown node at node \"x\"\n", agg.Error())
	assert.ErrorIs(t, agg, a)
	assert.ErrorIs(t, agg, ErrUnknownNode)
}
