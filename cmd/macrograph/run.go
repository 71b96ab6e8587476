package main

import (
	"github.com/aretw0/macrograph/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [graph]",
	Short: "Compile a graph and run it in the foreground",
	Long: `Compiles the graph and runs the automaton until it reaches a terminal transition, fails,
or is interrupted. Ctrl+C stops the run gracefully; a second Ctrl+C stops waiting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := prepare(cmd, args)
		if err != nil {
			return err
		}

		opts := cli.RunOptions{}
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")
		opts.For, _ = cmd.Flags().GetDuration("for")

		return cli.Run(cmd.Context(), cfg, opts, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Report events as JSON lines")
	runCmd.Flags().BoolP("verbose", "v", false, "Report every transition and effect")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
	runCmd.Flags().Duration("for", 0, "Stop the run after this long")
	runCmd.Flags().String("policy", "", "Failure policy: abort or continue")
	runCmd.Flags().Bool("dry-run", true, "Log input actions instead of dispatching them")
}
