package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/muesli/termenv"
)

// TextReporter writes human readable progress lines.
type TextReporter struct {
	mu      sync.Mutex
	out     *termenv.Output
	verbose bool
}

// TextReporterOption defines configuration for TextReporter.
type TextReporterOption func(*TextReporter)

// WithVerbose also reports every transition entry and every executed effect.
func WithVerbose(v bool) TextReporterOption {
	return func(r *TextReporter) {
		r.verbose = v
	}
}

// WithProfile forces a colour profile instead of detecting it from the writer.
func WithProfile(p termenv.Profile) TextReporterOption {
	return func(r *TextReporter) {
		r.out = termenv.NewOutput(r.out.Writer(), termenv.WithProfile(p))
	}
}

// NewTextReporter creates a reporter writing to w (stdout if nil).
func NewTextReporter(w io.Writer, opts ...TextReporterOption) *TextReporter {
	if w == nil {
		w = os.Stdout
	}
	r := &TextReporter{out: termenv.NewOutput(w)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TextReporter) printf(color, mark, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	styled := r.out.String(mark).Foreground(r.out.Color(color)).Bold()
	fmt.Fprintf(r.out, "%s %s\n", styled, fmt.Sprintf(format, args...))
}

// Hooks returns callbacks printing run progress.
func (r *TextReporter) Hooks() domain.LifecycleHooks {
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			r.printf("12", ">", "run %s started", e.RunID)
		},
		OnTrigger: func(_ context.Context, e *domain.TransitionEvent) {
			r.printf("10", "*", "%s triggered after %d polls, %d effects", nodeName(e.NodeID, e.Label), e.Polls, e.Effects)
		},
		OnError: func(_ context.Context, e *domain.ErrorEvent) {
			if e.Fatal {
				r.printf("9", "x", "%s failed: %v", e.NodeID, e.Error)
				return
			}
			r.printf("11", "!", "%s failed, continuing: %v", e.NodeID, e.Error)
		},
	}
	if r.verbose {
		hooks.OnTransitionEnter = func(_ context.Context, e *domain.TransitionEvent) {
			r.printf("8", "-", "watching %s", nodeName(e.NodeID, e.Label))
		}
		hooks.OnActionExecute = func(_ context.Context, e *domain.ActionEvent) {
			status := "ok"
			if e.IsError {
				status = "failed"
			}
			r.printf("8", " ", "%s (%s, %s)", e.Action, e.Duration.Round(time.Millisecond), status)
		}
	}
	return hooks
}

// Message prints a notice.
func (r *TextReporter) Message(msg string) error {
	r.printf("11", "!", "%s", msg)
	return nil
}

// Summary prints the final outcome and counters of a run.
func (r *TextReporter) Summary(rec domain.RunRecord) error {
	color := "10"
	if rec.Outcome == domain.OutcomeFailed {
		color = "9"
	}
	r.printf(color, "=", "run %s %s: %d transitions, %d actions, %d polls in %s",
		rec.ID, rec.Outcome, rec.Transitions, rec.Actions, rec.Polls, rec.Duration().Round(time.Millisecond))
	if rec.Error != "" {
		r.printf("9", " ", "error: %s", rec.Error)
	}
	return nil
}

func nodeName(id, label string) string {
	if label == "" || label == id {
		return id
	}
	return fmt.Sprintf("%s (%s)", id, label)
}
