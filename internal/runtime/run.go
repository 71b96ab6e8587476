package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/macrograph/internal/compiler"
	"github.com/aretw0/macrograph/pkg/action"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/google/uuid"
)

const errorBuffer = 32

// lease is the distributed run lock held by a run. refresh is nil for locks that never expire.
type lease struct {
	unlock  ports.UnlockFunc
	refresh func(context.Context) error
	every   time.Duration
}

// Run is the handle to one automaton executing on a background goroutine.
type Run struct {
	id     string
	auto   *compiler.Automaton
	engine *Engine
	logger *slog.Logger
	lease  lease

	leaseDone chan struct{}
	leaseWG   sync.WaitGroup

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	errs     chan error

	// polls on the current transition; touched only by the loop goroutine
	polls int

	mu     sync.Mutex
	err    error
	record domain.RunRecord
}

func newRun(e *Engine, auto *compiler.Automaton, l lease) *Run {
	id := uuid.NewString()
	return &Run{
		id:     id,
		auto:   auto,
		engine: e,
		logger: e.logger.With("run_id", id),
		lease:  l,
		stopCh: make(chan struct{}),

		leaseDone: make(chan struct{}),
		done:      make(chan struct{}),
		errs:      make(chan error, errorBuffer),
		record: domain.RunRecord{
			ID:        id,
			Graph:     auto.Name,
			StartedAt: time.Now(),
			Status:    domain.StatusRunning,
		},
	}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Automaton returns the automaton being executed.
func (r *Run) Automaton() *compiler.Automaton { return r.auto }

// Status returns the current lifecycle state.
func (r *Run) Status() domain.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record.Status
}

// Record returns a snapshot of the run's record.
func (r *Run) Record() domain.RunRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.record
	rec.Path = append([]string(nil), r.record.Path...)
	return rec
}

// Err returns the error that aborted the run, if any.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Errors delivers every observer or action failure as it happens.
// The channel is closed when the run stops.
func (r *Run) Errors() <-chan error { return r.errs }

// Done is closed once the run reaches Stopped.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run stops or ctx is done, and returns the run's error.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop asks the loop to exit at its next safe point and waits for it to reach Stopped.
// An in-flight action is never interrupted; Stop waits for it, bounded by the engine's stop
// timeout and ctx. Calling Stop on a stopped run is a no-op.
func (r *Run) Stop(ctx context.Context) error {
	r.requestStop()

	timer := time.NewTimer(r.engine.stopTimeout)
	defer timer.Stop()

	select {
	case <-r.done:
		return nil
	case <-timer.C:
		return domain.ErrStopTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Run) requestStop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		if r.record.Status == domain.StatusRunning {
			r.record.Status = domain.StatusStopping
		}
		r.mu.Unlock()
		close(r.stopCh)
	})
}

// stopOutcome is the outcome of a run that exits on a stop request: failed if the stop was
// forced by an error (a lost run lock), stopped otherwise.
func (r *Run) stopOutcome() domain.RunOutcome {
	if r.Err() != nil {
		return domain.OutcomeFailed
	}
	return domain.OutcomeStopped
}

func (r *Run) finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

func (r *Run) stopRequested() bool {
	select {
	case <-r.stopCh:
		return true
	default:
		return false
	}
}

// sleep waits one poll interval. It returns false if a stop was requested meanwhile.
func (r *Run) sleep() bool {
	timer := time.NewTimer(r.engine.pollInterval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.stopCh:
		return false
	}
}

func (r *Run) loop(ctx context.Context) {
	r.emitRunStart(ctx)

	outcome := domain.OutcomeCompleted
	defer func() {
		// Observer and action panics are handled by poll and execute; this catches hooks.
		if p := recover(); p != nil {
			r.logger.Error("run loop panicked", "err", panicError(p))
			r.setErr(panicError(p))
			outcome = domain.OutcomeFailed
		}
		r.finish(ctx, outcome)
	}()

	cur := r.auto.StartTransition()
	r.enter(ctx, cur)

	for cur != nil {
		if r.stopRequested() {
			outcome = r.stopOutcome()
			return
		}

		triggered, err := poll(ctx, cur.Observer)
		r.polls++
		r.mu.Lock()
		r.record.Polls++
		r.mu.Unlock()

		if err != nil {
			if r.fail(ctx, cur, -1, err) {
				outcome = domain.OutcomeFailed
				return
			}
			if !r.sleep() {
				outcome = r.stopOutcome()
				return
			}
			continue
		}

		if !triggered {
			if !r.sleep() {
				outcome = r.stopOutcome()
				return
			}
			continue
		}

		r.emitTransition(ctx, domain.EventTrigger, cur)
		r.logger.Debug("transition triggered", "transition", cur.NodeID, "effects", len(cur.Effects))

		if ok, abort := r.act(ctx, cur); abort {
			outcome = domain.OutcomeFailed
			return
		} else if !ok {
			if !r.sleep() {
				outcome = r.stopOutcome()
				return
			}
			continue
		}

		cur = r.auto.Next(cur)
		if cur != nil {
			r.enter(ctx, cur)
		}
	}
}

// act runs the effect sequence of t in order, each to completion.
// ok is false if an effect failed; abort is true if the run must stop because of it.
func (r *Run) act(ctx context.Context, t *compiler.Transition) (ok, abort bool) {
	for i, a := range t.Effects {
		start := time.Now()
		err := execute(ctx, a)
		elapsed := time.Since(start)

		r.mu.Lock()
		r.record.Actions++
		r.mu.Unlock()

		if h := r.engine.hooks.OnActionExecute; h != nil {
			h(ctx, &domain.ActionEvent{
				EventBase: r.base(domain.EventActionExecute),
				NodeID:    t.NodeID,
				Index:     i,
				Action:    action.Describe(a),
				Duration:  elapsed,
				IsError:   err != nil,
			})
		}

		if err != nil {
			return false, r.fail(ctx, t, i, err)
		}
	}
	return true, false
}

// fail reports a failed poll (index -1) or effect and reports whether the run must abort.
func (r *Run) fail(ctx context.Context, t *compiler.Transition, index int, cause error) bool {
	kind := domain.ErrActionFailed
	if index < 0 {
		kind = domain.ErrObserverFailed
	}
	err := &domain.RuntimeError{Kind: kind, RunID: r.id, NodeID: t.NodeID, Action: index, Err: cause}
	abort := r.engine.policy == AbortOnFailure || domain.IsFatal(cause)

	r.logger.Error("cycle failed", "transition", t.NodeID, "action", index, "fatal", abort, "err", cause)

	if h := r.engine.hooks.OnError; h != nil {
		h(ctx, &domain.ErrorEvent{
			EventBase: r.base(domain.EventError),
			NodeID:    t.NodeID,
			Error:     err,
			Fatal:     abort,
		})
	}

	select {
	case r.errs <- err:
	default:
		r.logger.Warn("error channel full, error only logged", "err", err)
	}

	if abort {
		r.setErr(err)
	}
	return abort
}

func (r *Run) enter(ctx context.Context, t *compiler.Transition) {
	r.polls = 0
	r.mu.Lock()
	r.record.Transitions++
	r.record.Path = append(r.record.Path, t.NodeID)
	r.mu.Unlock()

	r.logger.Debug("transition entered", "transition", t.NodeID)
	r.emitTransition(ctx, domain.EventTransitionEnter, t)
}

func (r *Run) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

func (r *Run) finish(ctx context.Context, outcome domain.RunOutcome) {
	r.mu.Lock()
	r.record.Status = domain.StatusStopped
	r.record.Outcome = outcome
	r.record.EndedAt = time.Now()
	if r.err != nil {
		r.record.Error = r.err.Error()
	}
	r.mu.Unlock()

	close(r.leaseDone)
	r.leaseWG.Wait()
	if r.lease.unlock != nil {
		if err := r.lease.unlock(context.Background()); err != nil {
			r.logger.Warn("failed to release run lock", "err", err)
		}
	}

	rec := r.Record()
	r.logger.Info("run stopped", "outcome", outcome, "polls", rec.Polls, "actions", rec.Actions)

	if h := r.engine.hooks.OnRunStop; h != nil {
		h(ctx, &domain.RunEvent{
			EventBase: r.base(domain.EventRunStop),
			Status:    domain.StatusStopped,
			Outcome:   outcome,
			Error:     rec.Error,
		})
	}
	if r.engine.onFinish != nil {
		r.engine.onFinish(rec)
	}

	close(r.errs)
	close(r.done)
}

// keepAlive refreshes the run lock until the run finishes. A lock that is lost (expired or taken
// over) stops the run; other refresh errors are retried on the next tick.
func (r *Run) keepAlive(ctx context.Context) {
	defer r.leaseWG.Done()

	ticker := time.NewTicker(r.lease.every)
	defer ticker.Stop()

	for {
		select {
		case <-r.leaseDone:
			return
		case <-ticker.C:
		}

		refreshCtx, cancel := context.WithTimeout(ctx, r.lease.every)
		err := r.lease.refresh(refreshCtx)
		cancel()

		switch {
		case err == nil:
		case errors.Is(err, domain.ErrLockLost):
			r.logger.Error("run lock lost, stopping", "err", err)
			r.setErr(err)
			r.requestStop()
			return
		default:
			r.logger.Warn("failed to refresh run lock", "err", err)
		}
	}
}

func (r *Run) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: r.id}
}

func (r *Run) emitRunStart(ctx context.Context) {
	if h := r.engine.hooks.OnRunStart; h != nil {
		h(ctx, &domain.RunEvent{EventBase: r.base(domain.EventRunStart), Status: domain.StatusRunning})
	}
}

func (r *Run) emitTransition(ctx context.Context, typ domain.EventType, t *compiler.Transition) {
	h := r.engine.hooks.OnTransitionEnter
	if typ == domain.EventTrigger {
		h = r.engine.hooks.OnTrigger
	}
	if h == nil {
		return
	}
	h(ctx, &domain.TransitionEvent{
		EventBase: r.base(typ),
		NodeID:    t.NodeID,
		Label:     t.Label,
		Effects:   len(t.Effects),
		Polls:     r.polls,
	})
}

// poll and execute turn a panicking capability into a fatal error, so that it is reported
// like any other failure and aborts the run under either policy.
func poll(ctx context.Context, o ports.Observer) (triggered bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = domain.Fatal(panicError(p))
		}
	}()
	return o.IsTriggered(ctx)
}

func execute(ctx context.Context, a ports.Action) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = domain.Fatal(panicError(p))
		}
	}()
	return a.Execute(ctx)
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
