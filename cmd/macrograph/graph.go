package main

import (
	"github.com/aretw0/macrograph/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph]",
	Short: "Export the graph visualization",
	Long: `Outputs a Mermaid diagram of the raw graph (graph TD), optionally highlighting the path of
a stored run, or of the compiled automaton (--states).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := prepare(cmd, args)
		if err != nil {
			return err
		}
		opts := cli.GraphOptions{}
		opts.States, _ = cmd.Flags().GetBool("states")
		opts.RunID, _ = cmd.Flags().GetString("run")
		return cli.Graph(cmd.Context(), cfg, opts, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("states", false, "Render the compiled automaton as a state diagram")
	graphCmd.Flags().String("run", "", "Overlay the path of a stored run")
}
