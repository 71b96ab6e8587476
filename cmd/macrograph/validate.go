package main

import (
	"github.com/aretw0/macrograph/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph]",
	Short: "Check the graph for consistency",
	Long: `Reports every structural problem at once: unknown edge targets, ambiguous branches, effect
chain cycles, bad capability arguments and unreachable nodes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := prepare(cmd, args)
		if err != nil {
			return err
		}
		return cli.Validate(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("dry-run", true, "Bind input actions to the logging device")
}
