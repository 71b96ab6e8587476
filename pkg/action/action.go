// Package action provides the effector side of the automaton: implementations of ports.Action.
//
// Each action performs a single device call with no built-in retry; failures are returned to the
// engine, which applies its failure policy.
package action

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/macrograph/pkg/jitter"
	"github.com/aretw0/macrograph/pkg/ports"
)

// Mouse buttons understood by Click.
const (
	ButtonLeft   = "left"
	ButtonRight  = "right"
	ButtonMiddle = "middle"
)

// Func adapts an ordinary function to ports.Action.
type Func func(ctx context.Context) error

// Execute calls f(ctx).
func (f Func) Execute(ctx context.Context) error {
	return f(ctx)
}

// Click presses a pointer button at the given screen coordinates.
type Click struct {
	X, Y   int
	Button string
	Jitter int // Per-axis pixel radius; 0 clicks the exact point

	pointer ports.Pointer
}

// NewClick creates a click action. An empty button defaults to ButtonLeft.
func NewClick(p ports.Pointer, x, y int, button string) *Click {
	if button == "" {
		button = ButtonLeft
	}
	return &Click{X: x, Y: y, Button: button, pointer: p}
}

// Execute implements ports.Action.
func (c *Click) Execute(ctx context.Context) error {
	x, y := jitter.Point(c.X, c.Y, c.Jitter)
	if err := c.pointer.Click(ctx, x, y, c.Button); err != nil {
		return fmt.Errorf("click %s at (%d,%d): %w", c.Button, x, y, err)
	}
	return nil
}

func (c *Click) String() string {
	return fmt.Sprintf("click(%d,%d,%s)", c.X, c.Y, c.Button)
}

// KeyPress presses a single key (e.g. "enter", "f5").
type KeyPress struct {
	Key      string
	keyboard ports.Keyboard
}

// NewKeyPress creates a key press action.
func NewKeyPress(k ports.Keyboard, key string) *KeyPress {
	return &KeyPress{Key: key, keyboard: k}
}

// Execute implements ports.Action.
func (k *KeyPress) Execute(ctx context.Context) error {
	if err := k.keyboard.Press(ctx, k.Key); err != nil {
		return fmt.Errorf("press %q: %w", k.Key, err)
	}
	return nil
}

func (k *KeyPress) String() string { return "key(" + k.Key + ")" }

// TypeText types a string.
type TypeText struct {
	Text     string
	keyboard ports.Keyboard
}

// NewTypeText creates a typing action.
func NewTypeText(k ports.Keyboard, text string) *TypeText {
	return &TypeText{Text: text, keyboard: k}
}

// Execute implements ports.Action.
func (t *TypeText) Execute(ctx context.Context) error {
	if err := t.keyboard.Type(ctx, t.Text); err != nil {
		return fmt.Errorf("type %d chars: %w", len(t.Text), err)
	}
	return nil
}

func (t *TypeText) String() string { return fmt.Sprintf("type(%q)", t.Text) }

// Wait pauses the effect sequence, with an optional random variation around Duration.
type Wait struct {
	Duration  time.Duration
	Variation float64
}

// Execute implements ports.Action. It returns early with ctx.Err() if ctx is cancelled.
func (w *Wait) Execute(ctx context.Context) error {
	d := jitter.Delay(w.Duration, w.Variation)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (w *Wait) String() string { return "wait(" + w.Duration.String() + ")" }

// Describe returns a short human readable name for an action.
func Describe(a ports.Action) string {
	if s, ok := a.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", a)
}
