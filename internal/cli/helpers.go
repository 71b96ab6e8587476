package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/macrograph/internal/config"
	"github.com/aretw0/macrograph/internal/logging"
)

// createLogger configures the application logger from cfg.
// It writes to Stderr (to separate from Stdout reports and JSON-RPC).
func createLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.Logging.Format), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// Overrides are command-line values applied on top of the config file and environment.
// Empty fields leave the config untouched.
type Overrides struct {
	Graph     string
	LogLevel  string
	LogFormat string
	Frames    string
	RedisURL  string
	HTTPAddr  string
	Policy    string
}

// Prepare loads the config at path, applies overrides, validates the result and builds the
// logger. A missing config file means defaults.
func Prepare(path string, o Overrides) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	for dst, v := range map[*string]string{
		&cfg.Graph:                o.Graph,
		&cfg.Logging.Level:        o.LogLevel,
		&cfg.Logging.Format:       o.LogFormat,
		&cfg.Devices.Frames:       o.Frames,
		&cfg.Redis.URL:            o.RedisURL,
		&cfg.HTTP.Addr:            o.HTTPAddr,
		&cfg.Engine.FailurePolicy: o.Policy,
	} {
		if v != "" {
			*dst = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validating config: %w", err)
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
