package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart        EventType = "run_start"
	EventRunStop         EventType = "run_stop"
	EventTransitionEnter EventType = "transition_enter"
	EventTrigger         EventType = "trigger"
	EventActionExecute   EventType = "action_execute"
	EventError           EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RunEvent marks the start or end of a run.
type RunEvent struct {
	EventBase
	Status  RunStatus  `json:"status"`
	Outcome RunOutcome `json:"outcome,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// TransitionEvent describes the automaton entering or firing a transition.
type TransitionEvent struct {
	EventBase
	NodeID  string `json:"node_id"`
	Label   string `json:"label,omitempty"`
	Effects int    `json:"effects"`
	Polls   int    `json:"polls,omitempty"` // Polls spent on this transition before it fired
}

// ActionEvent describes one executed effect.
type ActionEvent struct {
	EventBase
	NodeID   string        `json:"node_id"`
	Index    int           `json:"index"`
	Action   string        `json:"action"`
	Duration time.Duration `json:"duration"`
	IsError  bool          `json:"is_error,omitempty"`
}

// ErrorEvent reports a failure during a poll/act cycle.
type ErrorEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Error  error  `json:"-"`
	Fatal  bool   `json:"fatal"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run on the worker goroutine and must not block.
type LifecycleHooks struct {
	OnRunStart        func(context.Context, *RunEvent)
	OnRunStop         func(context.Context, *RunEvent)
	OnTransitionEnter func(context.Context, *TransitionEvent)
	OnTrigger         func(context.Context, *TransitionEvent)
	OnActionExecute   func(context.Context, *ActionEvent)
	OnError           func(context.Context, *ErrorEvent)
}
