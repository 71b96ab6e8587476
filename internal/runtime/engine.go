package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/macrograph/internal/compiler"
	"github.com/aretw0/macrograph/internal/logging"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
)

const defaultLockWait = 50 * time.Millisecond

// Engine starts compiled automata on a background worker, one at a time.
type Engine struct {
	pollInterval time.Duration
	stopTimeout  time.Duration
	policy       FailurePolicy
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	locker       ports.DistributedLocker
	lockKey      string
	lockWait     time.Duration
	lockTTL      time.Duration
	onFinish     func(domain.RunRecord)

	mu     sync.Mutex
	active *Run
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		pollInterval: domain.DefaultPollInterval,
		stopTimeout:  domain.DefaultStopTimeout,
		policy:       AbortOnFailure,
		logger:       logging.NewNop(),
		lockKey:      DefaultLockKey,
		lockWait:     defaultLockWait,
		lockTTL:      domain.DefaultLockTTL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PollInterval returns the configured poll interval.
func (e *Engine) PollInterval() time.Duration { return e.pollInterval }

// Policy returns the configured failure policy.
func (e *Engine) Policy() FailurePolicy { return e.policy }

// Start moves the engine from Idle to Running and begins polling auto on a new goroutine.
// The run outlives ctx: only Run.Stop (or reaching a terminal transition, or an aborting
// failure) ends it. ctx bounds the distributed lock acquisition and carries values to hooks.
func (e *Engine) Start(ctx context.Context, auto *compiler.Automaton) (*Run, error) {
	if auto == nil || len(auto.Transitions) == 0 {
		return nil, domain.ErrNilAutomaton
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil && !e.active.finished() {
		return nil, fmt.Errorf("%w: run %s", domain.ErrAlreadyRunning, e.active.ID())
	}

	l, err := e.lock(ctx)
	if err != nil {
		return nil, err
	}

	r := newRun(e, auto, l)
	e.active = r

	e.logger.Info("run started", "run_id", r.id, "graph", auto.Name, "transitions", len(auto.Transitions))
	runCtx := context.WithoutCancel(ctx)
	if l.refresh != nil {
		r.leaseWG.Add(1)
		go r.keepAlive(runCtx)
	}
	go r.loop(runCtx)

	return r, nil
}

// lock acquires the distributed run lock, if a locker is configured.
// Locks expire after lockTTL unless refreshed, so they are only taken with a ttl from lockers
// that can refresh them.
func (e *Engine) lock(ctx context.Context) (lease, error) {
	if e.locker == nil {
		return lease{}, nil
	}

	var ttl time.Duration
	refresher, ok := e.locker.(ports.LockRefresher)
	switch {
	case ok:
		ttl = e.lockTTL
	case e.lockTTL > 0:
		e.logger.Warn("locker cannot refresh locks, run lock will not expire", "key", e.lockKey)
	}

	lockCtx, cancel := context.WithTimeout(ctx, e.lockWait)
	unlock, err := e.locker.Lock(lockCtx, e.lockKey, ttl)
	cancel()
	if err != nil {
		return lease{}, fmt.Errorf("%w: lock %s: %v", domain.ErrAlreadyRunning, e.lockKey, err)
	}

	l := lease{unlock: unlock}
	if ttl > 0 {
		key := e.lockKey
		l.every = max(ttl/3, time.Millisecond)
		l.refresh = func(ctx context.Context) error {
			return refresher.Refresh(ctx, key, ttl)
		}
	}
	return l, nil
}

// Current returns the most recently started run, or nil if none was started.
func (e *Engine) Current() *Run {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Status reports Idle before the first run, and the status of the latest run afterwards.
func (e *Engine) Status() domain.RunStatus {
	r := e.Current()
	if r == nil {
		return domain.StatusIdle
	}
	return r.Status()
}

// Stop stops the active run, if any. See Run.Stop.
func (e *Engine) Stop(ctx context.Context) error {
	r := e.Current()
	if r == nil || r.finished() {
		return domain.ErrNotRunning
	}
	return r.Stop(ctx)
}
