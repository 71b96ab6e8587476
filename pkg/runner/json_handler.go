package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
)

// JSONReporter writes one JSON object per event (JSON Lines), for hosts that drive the CLI.
type JSONReporter struct {
	mu      sync.Mutex
	Encoder *json.Encoder
	err     error
}

// Event types emitted by JSONReporter besides the domain lifecycle events.
const (
	EventMessage domain.EventType = "message"
	EventSummary domain.EventType = "summary"
)

type errorLine struct {
	*domain.ErrorEvent
	Message string `json:"error"`
}

type messageLine struct {
	Timestamp time.Time        `json:"timestamp"`
	Type      domain.EventType `json:"type"`
	Message   string           `json:"message"`
}

type summaryLine struct {
	Timestamp time.Time        `json:"timestamp"`
	Type      domain.EventType `json:"type"`
	Run       domain.RunRecord `json:"run"`
}

// NewJSONReporter creates a reporter writing to w (stdout if nil).
func NewJSONReporter(w io.Writer) *JSONReporter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONReporter{Encoder: json.NewEncoder(w)}
}

func (r *JSONReporter) emit(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Encoder.Encode(v); err != nil {
		if r.err == nil {
			r.err = err
		}
		return err
	}
	return nil
}

// Hooks returns callbacks encoding every lifecycle event.
func (r *JSONReporter) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart:        func(_ context.Context, e *domain.RunEvent) { _ = r.emit(e) },
		OnRunStop:         func(_ context.Context, e *domain.RunEvent) { _ = r.emit(e) },
		OnTransitionEnter: func(_ context.Context, e *domain.TransitionEvent) { _ = r.emit(e) },
		OnTrigger:         func(_ context.Context, e *domain.TransitionEvent) { _ = r.emit(e) },
		OnActionExecute:   func(_ context.Context, e *domain.ActionEvent) { _ = r.emit(e) },
		OnError: func(_ context.Context, e *domain.ErrorEvent) {
			msg := ""
			if e.Error != nil {
				msg = e.Error.Error()
			}
			_ = r.emit(errorLine{ErrorEvent: e, Message: msg})
		},
	}
}

// Message encodes a notice.
func (r *JSONReporter) Message(msg string) error {
	return r.emit(messageLine{Timestamp: time.Now(), Type: EventMessage, Message: msg})
}

// Summary encodes the final run record.
func (r *JSONReporter) Summary(rec domain.RunRecord) error {
	return r.emit(summaryLine{Timestamp: time.Now(), Type: EventSummary, Run: rec})
}

// Err returns the first write error, if any. Hook callbacks cannot return errors.
func (r *JSONReporter) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
