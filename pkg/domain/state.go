package domain

import "time"

// RunStatus is the lifecycle state of the execution engine.
type RunStatus string

const (
	StatusIdle     RunStatus = "idle"     // No automaton has been started
	StatusRunning  RunStatus = "running"  // Poll/act loop is active
	StatusStopping RunStatus = "stopping" // Stop requested, waiting for the loop to reach a safe point
	StatusStopped  RunStatus = "stopped"  // Loop exited
)

// RunOutcome explains why a run reached StatusStopped.
type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed" // Terminal transition reached
	OutcomeStopped   RunOutcome = "stopped"   // External stop request
	OutcomeFailed    RunOutcome = "failed"    // Observer or action failure aborted the run
)

// RunRecord is the persisted summary of a single automaton run.
type RunRecord struct {
	ID        string     `json:"id"`
	Graph     string     `json:"graph,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   time.Time  `json:"ended_at,omitempty"`
	Status    RunStatus  `json:"status"`
	Outcome   RunOutcome `json:"outcome,omitempty"`
	Error     string     `json:"error,omitempty"`

	// Counters
	Polls       int `json:"polls"`
	Transitions int `json:"transitions"`
	Actions     int `json:"actions"`

	// Path lists the observer node IDs entered, in order.
	Path []string `json:"path,omitempty"`
}

// Duration returns how long the run lasted (so far, if still running).
func (r RunRecord) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.EndedAt.Sub(r.StartedAt)
}
