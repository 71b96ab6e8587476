package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/macrograph/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [graph]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the engine as an MCP Server, so AI agents can start, stop and inspect runs as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP (--sse-addr).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := prepare(cmd, args)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("sse-addr")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.ServeMCP(ctx, cfg, addr, logger)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("sse-addr", "", "Serve over SSE on this address instead of stdio")
	mcpCmd.Flags().Bool("dry-run", true, "Log input actions instead of dispatching them")
}
