package runner

import (
	"log/slog"
	"time"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithReporter configures where run events and the final summary are written.
func WithReporter(rep Reporter) Option {
	return func(r *Runner) {
		r.Reporter = rep
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithMaxDuration stops the run after d. Zero means no limit.
func WithMaxDuration(d time.Duration) Option {
	return func(r *Runner) {
		r.MaxDuration = d
	}
}

// WithInterruptSource sets a channel that asks the runner to stop the run, like Ctrl+C.
func WithInterruptSource(ch <-chan struct{}) Option {
	return func(r *Runner) {
		r.InterruptSource = ch
	}
}

// WithSignals enables or disables OS signal handling (enabled by default).
func WithSignals(enabled bool) Option {
	return func(r *Runner) {
		r.HandleSignals = enabled
	}
}
