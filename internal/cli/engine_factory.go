package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/macrograph"
	"github.com/aretw0/macrograph/internal/config"
	"github.com/aretw0/macrograph/internal/runtime"
	"github.com/aretw0/macrograph/pkg/adapters/device"
	"github.com/aretw0/macrograph/pkg/adapters/file"
	"github.com/aretw0/macrograph/pkg/adapters/redis"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/observability"
	"github.com/aretw0/macrograph/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

// lockPrefix namespaces the run lock keys in Redis (the locker appends "lock:").
const lockPrefix = "macrograph:"

// Setup is an engine together with the observability wired into it.
type Setup struct {
	Engine   *macrograph.Engine
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Journal  *observability.Journal

	closers []func() error
}

// Close releases the connections opened for the engine.
func (s *Setup) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// createEngine initializes a Macrograph engine from cfg with standard CLI conventions:
// the graph file named in cfg, devices from cfg.Devices, Redis persistence when configured,
// and logging, metrics and journal hooks chained with extra.
func createEngine(cfg *config.Config, logger *slog.Logger, extra ...domain.LifecycleHooks) (*Setup, error) {
	if cfg.Graph == "" {
		return nil, errors.New("no graph file given (pass it as an argument or set graph in the config)")
	}

	s := &Setup{
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Journal:  observability.NewJournal(200),
	}

	metrics, err := observability.NewMetrics(s.Registry)
	if err != nil {
		return nil, fmt.Errorf("error registering metrics: %w", err)
	}
	s.Metrics = metrics

	devices, err := createDevices(cfg.Devices, logger)
	if err != nil {
		return nil, err
	}

	policy, err := runtime.ParseFailurePolicy(cfg.Engine.FailurePolicy)
	if err != nil {
		return nil, err
	}

	hooks := []domain.LifecycleHooks{
		observability.LoggingHooks(logger),
		metrics.Hooks(),
		s.Journal.Hooks(),
	}
	hooks = append(hooks, extra...)

	engineOpts := []macrograph.Option{
		macrograph.WithLoader(file.NewLoader(cfg.Graph)),
		macrograph.WithDevices(devices),
		macrograph.WithLogger(logger),
		macrograph.WithLifecycleHooks(observability.Combine(hooks...)),
		macrograph.WithPollInterval(cfg.Engine.PollInterval),
		macrograph.WithStopTimeout(cfg.Engine.StopTimeout),
		macrograph.WithFailurePolicy(policy),
		macrograph.WithLenientBranching(cfg.Engine.LenientBranching),
	}

	if cfg.Redis.URL != "" {
		opts := []redis.Option{redis.WithPrefix(cfg.Redis.Prefix)}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store, err := redis.New(cfg.Redis.URL, opts...)
		if err != nil {
			return nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		s.closers = append(s.closers, store.Client().Close)
		engineOpts = append(engineOpts, macrograph.WithRunStore(store))

		if cfg.Redis.Lock {
			locker := redis.NewLocker(store.Client(), lockPrefix)
			engineOpts = append(engineOpts,
				macrograph.WithLocker(locker, cfg.Redis.LockKey),
				macrograph.WithLockTTL(cfg.Redis.LockTTL),
			)
		}
		logger.Debug("redis persistence enabled", "prefix", cfg.Redis.Prefix, "lock", cfg.Redis.Lock)
	}

	eng, err := macrograph.New(engineOpts...)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	s.Engine = eng
	return s, nil
}

// createDevices builds the screen and input devices. Without a frames directory the region
// observer cannot bind; without dry-run the input actions cannot, since the CLI ships no
// native input driver.
func createDevices(cfg config.DevicesConfig, logger *slog.Logger) (registry.Devices, error) {
	var dev registry.Devices
	if cfg.Frames != "" {
		frames, err := device.LoadDir(cfg.Frames)
		if err != nil {
			return dev, fmt.Errorf("error loading frames: %w", err)
		}
		dev.Screen = frames
	}
	if cfg.DryRun {
		input := device.NewLogger(logger)
		dev.Pointer = input
		dev.Keyboard = input
	}
	return dev, nil
}
