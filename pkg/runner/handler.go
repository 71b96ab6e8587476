package runner

import (
	"github.com/aretw0/macrograph/pkg/domain"
)

// Reporter turns run lifecycle events into output.
// Hooks are invoked from the run goroutine while Message and Summary are called by the
// Runner, so implementations must be safe for concurrent use.
type Reporter interface {
	// Hooks returns the callbacks to register on the engine.
	Hooks() domain.LifecycleHooks

	// Message reports a host-level notice (e.g. "stopping").
	Message(msg string) error

	// Summary reports the final record of a run.
	Summary(rec domain.RunRecord) error
}

type nopReporter struct{}

func (nopReporter) Hooks() domain.LifecycleHooks       { return domain.LifecycleHooks{} }
func (nopReporter) Message(string) error               { return nil }
func (nopReporter) Summary(rec domain.RunRecord) error { return nil }
