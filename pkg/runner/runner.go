package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/macrograph"
	"github.com/aretw0/macrograph/internal/logging"
	"github.com/aretw0/macrograph/pkg/domain"
)

// Engine is the part of macrograph.Engine the Runner needs.
type Engine interface {
	Start(ctx context.Context) (*macrograph.Run, error)
}

// Runner starts a run and blocks in the foreground until it stops.
type Runner struct {
	Engine   Engine
	Reporter Reporter

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// MaxDuration stops the run after this long. Zero means no limit.
	MaxDuration time.Duration

	// InterruptSource asks the runner to stop the run, like Ctrl+C.
	InterruptSource <-chan struct{}

	// HandleSignals turns SIGINT/SIGTERM into a graceful stop.
	HandleSignals bool
}

// NewRunner creates a Runner for engine. Signals are handled and nothing is reported by default.
func NewRunner(engine Engine, opts ...Option) *Runner {
	r := &Runner{
		Engine:        engine,
		HandleSignals: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Reporter == nil {
		r.Reporter = nopReporter{}
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run starts the automaton and waits until it stops.
// A graph with nothing to run is reported and returns domain.ErrNoObserverNode.
// The returned error is the run's own error (nil for completed or stopped runs), or the
// reason the stop could not be confirmed.
func (r *Runner) Run(ctx context.Context) (domain.RunRecord, error) {
	var signals <-chan struct{}
	var sm *SignalManager
	if r.HandleSignals {
		sm = NewSignalManager()
		defer sm.Stop()
		signals = sm.Done()
	}

	run, err := r.Engine.Start(ctx)
	if errors.Is(err, domain.ErrNoObserverNode) {
		r.report(r.Reporter.Message("no observer node found, nothing to run"))
		return domain.RunRecord{}, err
	}
	if err != nil {
		return domain.RunRecord{}, err
	}
	r.Logger.Debug("runner attached", "run_id", run.ID())

	var deadline <-chan time.Time
	if r.MaxDuration > 0 {
		timer := time.NewTimer(r.MaxDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	errs := run.Errors()
	reason := ""
wait:
	for {
		select {
		case <-run.Done():
			break wait
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			r.Logger.Debug("run reported error", "run_id", run.ID(), "err", err)
		case <-signals:
			reason = "interrupted"
			break wait
		case <-r.InterruptSource:
			reason = "interrupt requested"
			break wait
		case <-deadline:
			reason = fmt.Sprintf("time limit of %s reached", r.MaxDuration)
			break wait
		case <-ctx.Done():
			reason = ctx.Err().Error()
			break wait
		}
	}

	if reason != "" {
		if err := r.stop(run, sm, reason); err != nil {
			rec := run.Record()
			r.report(r.Reporter.Summary(rec))
			return rec, err
		}
	}

	rec := run.Record()
	r.report(r.Reporter.Summary(rec))
	return rec, run.Err()
}

// stop asks the run to stop. With signal handling on, a second signal abandons the wait.
func (r *Runner) stop(run *macrograph.Run, sm *SignalManager, reason string) error {
	r.report(r.Reporter.Message(fmt.Sprintf("%s, stopping run %s", reason, run.ID())))

	ctx := context.Background()
	if sm != nil {
		sm.Reset()
		ctx = sm.Context()
	}
	if err := run.Stop(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("stop abandoned by a second interrupt")
		}
		return fmt.Errorf("failed to stop run %s: %w", run.ID(), err)
	}
	return nil
}

func (r *Runner) report(err error) {
	if err != nil {
		r.Logger.Warn("reporter failed", "err", err)
	}
}
