package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/macrograph/internal/logging"
	"github.com/aretw0/macrograph/internal/runtime"
	"github.com/aretw0/macrograph/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "macrograph.yaml"

// Config is the complete CLI configuration.
type Config struct {
	// Graph is the default graph file for commands that take one.
	Graph   string        `yaml:"graph"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Redis   RedisConfig   `yaml:"redis"`
	HTTP    HTTPConfig    `yaml:"http"`
	Devices DevicesConfig `yaml:"devices"`
}

// EngineConfig tunes the compiler and runtime.
type EngineConfig struct {
	PollInterval     time.Duration `yaml:"poll_interval"`
	StopTimeout      time.Duration `yaml:"stop_timeout"`
	FailurePolicy    string        `yaml:"failure_policy"` // "abort" or "continue"
	LenientBranching bool          `yaml:"lenient_branching"`
}

// LoggingConfig selects the log level and format ("text" or "json").
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RedisConfig enables the Redis run store and the cross-process run lock.
// An empty URL disables both.
type RedisConfig struct {
	URL     string        `yaml:"url"`
	Prefix  string        `yaml:"prefix"`
	TTL     time.Duration `yaml:"ttl"`
	Lock    bool          `yaml:"lock"`
	LockKey string        `yaml:"lock_key"`
	// LockTTL is how long the run lock outlives a crashed holder; the run refreshes it meanwhile.
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// HTTPConfig configures the control API.
type HTTPConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// DevicesConfig selects the screen and input devices of the CLI.
type DevicesConfig struct {
	// Frames is a directory of PNG frames replayed as the screen.
	Frames string `yaml:"frames"`
	// DryRun logs input instead of dispatching it.
	DryRun bool `yaml:"dry_run"`
}

// Default returns a Config with the engine defaults.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			PollInterval:  domain.DefaultPollInterval,
			StopTimeout:   domain.DefaultStopTimeout,
			FailurePolicy: string(runtime.AbortOnFailure),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Redis: RedisConfig{
			Prefix:  "macrograph:run:",
			LockKey: runtime.DefaultLockKey,
			LockTTL: domain.DefaultLockTTL,
		},
		HTTP: HTTPConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Devices: DevicesConfig{
			DryRun: true,
		},
	}
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values
//  2. YAML file values (a missing file keeps the defaults)
//  3. Environment variables MACROGRAPH_*
//
// Command-line flags are applied on top by the caller.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	str := map[string]*string{
		"MACROGRAPH_GRAPH":          &cfg.Graph,
		"MACROGRAPH_LOG_LEVEL":      &cfg.Logging.Level,
		"MACROGRAPH_LOG_FORMAT":     &cfg.Logging.Format,
		"MACROGRAPH_FAILURE_POLICY": &cfg.Engine.FailurePolicy,
		"MACROGRAPH_REDIS_URL":      &cfg.Redis.URL,
		"MACROGRAPH_HTTP_ADDR":      &cfg.HTTP.Addr,
		"MACROGRAPH_FRAMES":         &cfg.Devices.Frames,
	}
	for env, dst := range str {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	dur := map[string]*time.Duration{
		"MACROGRAPH_POLL_INTERVAL": &cfg.Engine.PollInterval,
		"MACROGRAPH_STOP_TIMEOUT":  &cfg.Engine.StopTimeout,
		"MACROGRAPH_LOCK_TTL":      &cfg.Redis.LockTTL,
	}
	for env, dst := range dur {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*dst = d
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.PollInterval <= 0 {
		errs = append(errs, errors.New("engine.poll_interval must be positive"))
	}
	if c.Engine.StopTimeout <= 0 {
		errs = append(errs, errors.New("engine.stop_timeout must be positive"))
	}
	if _, err := runtime.ParseFailurePolicy(c.Engine.FailurePolicy); err != nil {
		errs = append(errs, fmt.Errorf("engine.failure_policy: %w", err))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	if c.Redis.Lock && c.Redis.URL == "" {
		errs = append(errs, errors.New("redis.lock requires redis.url"))
	}
	if c.Redis.LockTTL < 0 {
		errs = append(errs, errors.New("redis.lock_ttl must not be negative"))
	}
	return errors.Join(errs...)
}
