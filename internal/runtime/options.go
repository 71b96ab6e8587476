package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
)

// FailurePolicy decides what a run does when an observer or action fails.
type FailurePolicy string

const (
	// AbortOnFailure stores the error in the run's error slot and stops the run.
	AbortOnFailure FailurePolicy = "abort"
	// ContinueOnFailure reports the error on Run.Errors, abandons the rest of the cycle's
	// effects and keeps polling the same transition. Errors marked domain.Fatal still abort.
	ContinueOnFailure FailurePolicy = "continue"
)

// ParseFailurePolicy converts a config string into a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", AbortOnFailure:
		return AbortOnFailure, nil
	case ContinueOnFailure:
		return ContinueOnFailure, nil
	}
	return "", fmt.Errorf("unknown failure policy %q", s)
}

// DefaultLockKey is the distributed lock key used when none is configured.
const DefaultLockKey = "macrograph:run"

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithPollInterval sets the wait between polls of an observer that did not trigger.
func WithPollInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithStopTimeout bounds how long Run.Stop waits for the worker to reach Stopped.
func WithStopTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.stopTimeout = d
		}
	}
}

// WithFailurePolicy sets the failure policy for new runs.
func WithFailurePolicy(p FailurePolicy) EngineOption {
	return func(e *Engine) {
		if p != "" {
			e.policy = p
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLocker makes Start acquire a distributed lock, so that a single automaton drives the
// screen across processes. wait bounds the acquisition; zero means try briefly once.
func WithLocker(locker ports.DistributedLocker, key string, wait time.Duration) EngineOption {
	return func(e *Engine) {
		e.locker = locker
		if key != "" {
			e.lockKey = key
		}
		if wait > 0 {
			e.lockWait = wait
		}
	}
}

// WithLockTTL sets how long the run lock survives without a refresh (default 5s).
// The run refreshes it every ttl/3 while it lives. Zero takes locks that never expire.
func WithLockTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		if ttl >= 0 {
			e.lockTTL = ttl
		}
	}
}

// WithRunFinished registers a callback invoked with the final record of every run,
// before Run.Done is closed.
func WithRunFinished(fn func(domain.RunRecord)) EngineOption {
	return func(e *Engine) {
		e.onFinish = fn
	}
}
