package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/macrograph/internal/cli"
	"github.com/aretw0/macrograph/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "macrograph",
	Short: "Macrograph compiles observer/action graphs into screen automatons and runs them",
	Long: `Macrograph turns a graph of observers (screen region watchers) and actions (clicks, keys,
typing, waits) into an automaton of transitions, then runs it as a background poll/act loop.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Config file (missing file = defaults)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis URL for run history and the run lock")
	rootCmd.PersistentFlags().String("frames", "", "Directory of PNG frames replayed as the screen")
}

// prepare loads the configuration for cmd. The first positional argument, if any, is the graph file.
func prepare(cmd *cobra.Command, args []string) (*config.Config, *slog.Logger, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	o := cli.Overrides{}
	o.LogLevel, _ = flags.GetString("log-level")
	o.LogFormat, _ = flags.GetString("log-format")
	o.RedisURL, _ = flags.GetString("redis-url")
	o.Frames, _ = flags.GetString("frames")
	if len(args) > 0 {
		o.Graph = args[0]
	}
	if flags.Lookup("policy") != nil {
		o.Policy, _ = flags.GetString("policy")
	}
	if flags.Lookup("addr") != nil {
		o.HTTPAddr, _ = flags.GetString("addr")
	}

	cfg, logger, err := cli.Prepare(path, o)
	if err != nil {
		return nil, nil, err
	}
	if flags.Changed("dry-run") {
		cfg.Devices.DryRun, _ = flags.GetBool("dry-run")
	}
	return cfg, logger, nil
}
