package device

import (
	"context"
	"log/slog"
	"sync"
)

// EventKind is the type of a recorded input event.
type EventKind string

const (
	EventClick EventKind = "click"
	EventPress EventKind = "press"
	EventType  EventKind = "type"
)

// Event is one dispatched input.
type Event struct {
	Kind   EventKind
	X, Y   int
	Button string
	Key    string
	Text   string
}

// Recorder implements ports.Pointer and ports.Keyboard by recording every event.
// Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Click records a click.
func (r *Recorder) Click(ctx context.Context, x, y int, button string) error {
	r.add(Event{Kind: EventClick, X: x, Y: y, Button: button})
	return nil
}

// Press records a key press.
func (r *Recorder) Press(ctx context.Context, key string) error {
	r.add(Event{Kind: EventPress, Key: key})
	return nil
}

// Type records typed text.
func (r *Recorder) Type(ctx context.Context, text string) error {
	r.add(Event{Kind: EventType, Text: text})
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Logger implements ports.Pointer and ports.Keyboard by logging instead of dispatching.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a dry-run input device.
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Click logs a click.
func (l *Logger) Click(ctx context.Context, x, y int, button string) error {
	l.logger.InfoContext(ctx, "dry-run click", "x", x, "y", y, "button", button)
	return nil
}

// Press logs a key press.
func (l *Logger) Press(ctx context.Context, key string) error {
	l.logger.InfoContext(ctx, "dry-run key", "key", key)
	return nil
}

// Type logs typed text.
func (l *Logger) Type(ctx context.Context, text string) error {
	l.logger.InfoContext(ctx, "dry-run type", "text", text)
	return nil
}
