package macrograph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/macrograph/internal/compiler"
	"github.com/aretw0/macrograph/internal/logging"
	"github.com/aretw0/macrograph/internal/runtime"
	"github.com/aretw0/macrograph/internal/validator"
	"github.com/aretw0/macrograph/pkg/adapters/memory"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/aretw0/macrograph/pkg/registry"
)

type (
	// Run is the handle of a running automaton.
	Run = runtime.Run
	// Automaton is a compiled graph.
	Automaton = compiler.Automaton
	// FailurePolicy decides whether a failing observer or action aborts the run.
	FailurePolicy = runtime.FailurePolicy
	// Report is the result of Validate.
	Report = validator.Report
)

const (
	AbortOnFailure    = runtime.AbortOnFailure
	ContinueOnFailure = runtime.ContinueOnFailure
)

// Engine is the high-level entry point for the Macrograph library.
// It loads the raw graph, compiles it and drives the runtime engine, and it implements
// ports.Controller for the CLI, HTTP and MCP surfaces.
type Engine struct {
	runtime     *runtime.Engine
	loader      ports.GraphLoader
	registry    *registry.Registry
	store       ports.RunStore
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
	compileOpts []compiler.Option
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader sets the source of the raw graph. Required.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithRegistry sets the capability registry used to bind observers and actions.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithDevices binds the builtin capabilities to the given devices.
// It is shorthand for WithRegistry(registry.Builtin(dev)).
func WithDevices(dev registry.Devices) Option {
	return func(e *Engine) {
		e.registry = registry.Builtin(dev)
	}
}

// WithRunStore sets where finished run records are persisted (default: in memory).
func WithRunStore(s ports.RunStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithName labels the engine (and its logs and run records).
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// WithPollInterval sets the wait between polls of an observer that did not trigger (default 100ms).
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithPollInterval(d))
	}
}

// WithStopTimeout bounds how long Stop waits for the run to finish (default 1s).
func WithStopTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithStopTimeout(d))
	}
}

// WithFailurePolicy sets what a run does when an observer or action fails (default AbortOnFailure).
func WithFailurePolicy(p FailurePolicy) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithFailurePolicy(p))
	}
}

// WithLenientBranching accepts nodes with several outgoing edges, following only the first.
func WithLenientBranching(lenient bool) Option {
	return func(e *Engine) {
		e.compileOpts = append(e.compileOpts, compiler.WithLenientBranching(lenient))
	}
}

// WithLocker guards runs with a distributed lock, so a single automaton drives the screen
// across processes.
func WithLocker(l ports.DistributedLocker, key string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLocker(l, key, 0))
	}
}

// WithLockTTL sets how long the distributed run lock survives a crashed holder (default 5s).
// The running automaton keeps refreshing it; zero takes locks that never expire.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLockTTL(ttl))
	}
}

// New initializes a new Macrograph Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		return nil, errors.New("a graph loader is required (use WithLoader)")
	}
	if eng.registry == nil {
		eng.registry = registry.Builtin(registry.Devices{})
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("graph", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithRunFinished(eng.persist),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)
	eng.runtime = runtime.NewEngine(runtimeOpts...)

	eng.compileOpts = append([]compiler.Option{compiler.WithLogger(eng.logger)}, eng.compileOpts...)

	return eng, nil
}

// Compile loads the current raw graph and compiles it.
// A graph without observer nodes compiles to (nil, nil).
func (e *Engine) Compile(ctx context.Context) (*Automaton, error) {
	g, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	if g.Name == "" {
		g.Name = e.Name
	}
	return compiler.New(e.registry, e.compileOpts...).Compile(g)
}

// Start compiles the current graph and starts it.
// It returns domain.ErrNoObserverNode when there is nothing to run; structural problems are
// returned as *domain.CompileError before anything runs.
func (e *Engine) Start(ctx context.Context) (*Run, error) {
	auto, err := e.Compile(ctx)
	if err != nil {
		return nil, err
	}
	if auto == nil {
		e.logger.Warn("no observer node found, cannot run")
		return nil, domain.ErrNoObserverNode
	}
	return e.runtime.Start(ctx, auto)
}

// StartRun is Start for controllers that only need the run record.
func (e *Engine) StartRun(ctx context.Context) (domain.RunRecord, error) {
	r, err := e.Start(ctx)
	if err != nil {
		return domain.RunRecord{}, err
	}
	return r.Record(), nil
}

// Stop stops the active run and waits for it, bounded by the stop timeout.
func (e *Engine) Stop(ctx context.Context) error {
	return e.runtime.Stop(ctx)
}

// Current returns the latest run, or nil before the first Start.
func (e *Engine) Current() *Run {
	return e.runtime.Current()
}

// Status returns the engine status and the record of the latest run, if any.
func (e *Engine) Status() (domain.RunStatus, *domain.RunRecord) {
	r := e.runtime.Current()
	if r == nil {
		return domain.StatusIdle, nil
	}
	rec := r.Record()
	return rec.Status, &rec
}

// Inspect returns the current raw graph for visualization or introspection tools.
func (e *Engine) Inspect(ctx context.Context) (*domain.Graph, error) {
	return e.loader.Load(ctx)
}

// Validate checks the current graph for every structural and binding problem.
func (e *Engine) Validate(ctx context.Context) (*Report, error) {
	g, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	return validator.ValidateGraph(g, e.registry), nil
}

// History returns persisted run records, most recent first.
func (e *Engine) History(ctx context.Context) ([]domain.RunRecord, error) {
	return e.store.List(ctx)
}

// RunRecord returns a single persisted run record.
func (e *Engine) RunRecord(ctx context.Context, runID string) (domain.RunRecord, error) {
	return e.store.Load(ctx, runID)
}

// Loader returns the underlying GraphLoader used by the engine.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}

// Registry returns the capability registry used by the engine.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

func (e *Engine) persist(rec domain.RunRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.store.Save(ctx, rec); err != nil {
		e.logger.Error("failed to persist run record", "run_id", rec.ID, "err", err)
	}
}

var _ ports.Controller = (*Engine)(nil)
