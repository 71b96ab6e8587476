package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/macrograph/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [graph]",
	Short: "Start the HTTP control API",
	Long: `Exposes the engine over HTTP: start and stop runs, read status, history, the graph,
recent events and Prometheus metrics. The graph file is re-read on every start.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := prepare(cmd, args)
		if err != nil {
			return err
		}

		// Create a context that cancels on interrupt signal
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Serve(ctx, cfg, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().String("policy", "", "Failure policy: abort or continue")
	serveCmd.Flags().Bool("dry-run", true, "Log input actions instead of dispatching them")
}
