package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/macrograph"
	"github.com/aretw0/macrograph/pkg/action"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/dsl"
	"github.com/aretw0/macrograph/pkg/observer"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/aretw0/macrograph/pkg/registry"
	"github.com/aretw0/macrograph/pkg/runner"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, b *dsl.Builder, hooks domain.LifecycleHooks, counter *atomic.Int64) *macrograph.Engine {
	t.Helper()
	reg := registry.Builtin(registry.Devices{})
	reg.RegisterObserver("always", func(map[string]any) (ports.Observer, error) {
		return observer.Func(func(context.Context) (bool, error) { return true, nil }), nil
	})
	reg.RegisterAction("count", func(map[string]any) (ports.Action, error) {
		return action.Func(func(context.Context) error {
			counter.Add(1)
			return nil
		}), nil
	})
	reg.RegisterAction("boom", func(map[string]any) (ports.Action, error) {
		return action.Func(func(context.Context) error { return errors.New("boom") }), nil
	})

	eng, err := macrograph.New(
		macrograph.WithLoader(b.Build()),
		macrograph.WithRegistry(reg),
		macrograph.WithLifecycleHooks(hooks),
		macrograph.WithPollInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	return eng
}

func onceGraph() *dsl.Builder {
	b := dsl.New("once")
	b.Observer("watch").Label("Watch").Trigger("always", nil).Go("act")
	b.Action("act").Do("count", nil).Do("count", nil)
	return b
}

func neverGraph() *dsl.Builder {
	b := dsl.New("idle")
	b.Observer("wait").Trigger(registry.TypeNever, nil).Go("act")
	b.Action("act").Do("count", nil)
	return b
}

func TestRunner_Completes(t *testing.T) {
	var counter atomic.Int64
	var out bytes.Buffer
	rep := runner.NewTextReporter(&out, runner.WithProfile(termenv.Ascii), runner.WithVerbose(true))
	eng := newEngine(t, onceGraph(), rep.Hooks(), &counter)

	rec, err := runner.NewRunner(eng, runner.WithReporter(rep), runner.WithSignals(false)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeCompleted, rec.Outcome)
	assert.Equal(t, int64(2), counter.Load())

	text := out.String()
	assert.Contains(t, text, "started")
	assert.Contains(t, text, "watch (Watch) triggered after 1 polls, 2 effects")
	assert.Contains(t, text, "watching watch (Watch)")
	assert.Contains(t, text, "completed: 1 transitions, 2 actions, 1 polls")
}

func TestRunner_NothingToRun(t *testing.T) {
	var counter atomic.Int64
	var out bytes.Buffer
	rep := runner.NewTextReporter(&out, runner.WithProfile(termenv.Ascii))

	b := dsl.New("empty")
	b.Action("act").Do("count", nil)
	eng := newEngine(t, b, rep.Hooks(), &counter)

	_, err := runner.NewRunner(eng, runner.WithReporter(rep), runner.WithSignals(false)).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoObserverNode)
	assert.Contains(t, out.String(), "nothing to run")
}

func TestRunner_InterruptSource(t *testing.T) {
	var counter atomic.Int64
	var out bytes.Buffer
	rep := runner.NewTextReporter(&out, runner.WithProfile(termenv.Ascii))
	eng := newEngine(t, neverGraph(), rep.Hooks(), &counter)

	interrupt := make(chan struct{})
	time.AfterFunc(30*time.Millisecond, func() { close(interrupt) })

	rec, err := runner.NewRunner(eng,
		runner.WithReporter(rep),
		runner.WithSignals(false),
		runner.WithInterruptSource(interrupt),
	).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeStopped, rec.Outcome)
	assert.Equal(t, int64(0), counter.Load())
	assert.Greater(t, rec.Polls, 1)
	assert.Contains(t, out.String(), "interrupt requested, stopping run")
}

func TestRunner_MaxDuration(t *testing.T) {
	var counter atomic.Int64
	eng := newEngine(t, neverGraph(), domain.LifecycleHooks{}, &counter)

	start := time.Now()
	rec, err := runner.NewRunner(eng, runner.WithSignals(false), runner.WithMaxDuration(40*time.Millisecond)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeStopped, rec.Outcome)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRunner_ContextCancel(t *testing.T) {
	var counter atomic.Int64
	eng := newEngine(t, neverGraph(), domain.LifecycleHooks{}, &counter)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	rec, err := runner.NewRunner(eng, runner.WithSignals(false)).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeStopped, rec.Outcome)
}

func TestRunner_FailedRun(t *testing.T) {
	var counter atomic.Int64
	var out bytes.Buffer
	rep := runner.NewTextReporter(&out, runner.WithProfile(termenv.Ascii))

	b := dsl.New("broken")
	b.Observer("watch").Trigger("always", nil).Go("act")
	b.Action("act").Do("boom", nil)
	eng := newEngine(t, b, rep.Hooks(), &counter)

	rec, err := runner.NewRunner(eng, runner.WithReporter(rep), runner.WithSignals(false)).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrActionFailed)
	assert.Equal(t, domain.OutcomeFailed, rec.Outcome)
	assert.Contains(t, out.String(), "watch failed: ")
	assert.Contains(t, out.String(), "error: ")
}

func TestJSONReporter(t *testing.T) {
	var counter atomic.Int64
	var out bytes.Buffer
	rep := runner.NewJSONReporter(&out)
	eng := newEngine(t, onceGraph(), rep.Hooks(), &counter)

	_, err := runner.NewRunner(eng, runner.WithReporter(rep), runner.WithSignals(false)).Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, rep.Err())

	var types []domain.EventType
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var line struct {
			Type domain.EventType `json:"type"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), scanner.Text())
		types = append(types, line.Type)
	}

	require.NotEmpty(t, types)
	assert.Equal(t, domain.EventRunStart, types[0])
	assert.Contains(t, types, domain.EventTrigger)
	assert.Contains(t, types, domain.EventActionExecute)
	assert.Equal(t, runner.EventSummary, types[len(types)-1])
}

func TestJSONReporter_Error(t *testing.T) {
	var out bytes.Buffer
	rep := runner.NewJSONReporter(&out)

	rep.Hooks().OnError(context.Background(), &domain.ErrorEvent{
		EventBase: domain.EventBase{Type: domain.EventError, RunID: "r"},
		NodeID:    "watch",
		Error:     errors.New("screen gone"),
		Fatal:     true,
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "screen gone", line["error"])
	assert.Equal(t, "watch", line["node_id"])
	assert.Equal(t, true, line["fatal"])
}
