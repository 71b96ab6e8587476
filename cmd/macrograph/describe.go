package main

import (
	"github.com/aretw0/macrograph/internal/cli"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [graph]",
	Short: "Compile the graph and print its transitions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := prepare(cmd, args)
		if err != nil {
			return err
		}
		return cli.Describe(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [graph]",
	Short: "List stored runs (needs --redis-url to outlive the process)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := prepare(cmd, args)
		if err != nil {
			return err
		}
		return cli.History(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(historyCmd)
}
