package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/macrograph"
	"github.com/aretw0/macrograph/internal/config"
	"github.com/aretw0/macrograph/internal/presentation/graph"
	"github.com/aretw0/macrograph/internal/presentation/tui"
	httpAdapter "github.com/aretw0/macrograph/pkg/adapters/http"
	"github.com/aretw0/macrograph/pkg/adapters/mcp"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrInvalidGraph is returned by Validate when the graph has errors.
var ErrInvalidGraph = errors.New("graph is invalid")

func versionString() string {
	return strings.TrimSpace(macrograph.Version)
}

// Validate reports every structural and binding problem of the graph.
func Validate(ctx context.Context, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	setup, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	report, err := setup.Engine.Validate(ctx)
	if err != nil {
		return err
	}
	if err := writeMarkdown(w, tui.DescribeReport(report)); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%w: %d errors", ErrInvalidGraph, len(report.Errors))
	}
	return nil
}

// GraphOptions selects what the graph command renders.
type GraphOptions struct {
	// States renders the compiled automaton instead of the raw graph.
	States bool
	// RunID overlays the path of a stored run on the raw graph.
	RunID string
}

// Graph writes a Mermaid diagram of the graph.
func Graph(ctx context.Context, cfg *config.Config, opts GraphOptions, w io.Writer, logger *slog.Logger) error {
	setup, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	if opts.States {
		auto, err := setup.Engine.Compile(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(w, graph.GenerateStateDiagram(auto))
		return nil
	}

	g, err := setup.Engine.Inspect(ctx)
	if err != nil {
		return err
	}

	var overlay *graph.GraphOverlay
	if opts.RunID != "" {
		rec, err := setup.Engine.RunRecord(ctx, opts.RunID)
		if err != nil {
			return fmt.Errorf("error loading run %s: %w", opts.RunID, err)
		}
		overlay = graph.OverlayFromRecord(rec)
	}

	fmt.Fprint(w, graph.GenerateMermaid(g, overlay))
	return nil
}

// Describe compiles the graph and prints the transition table.
func Describe(ctx context.Context, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	setup, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	auto, err := setup.Engine.Compile(ctx)
	if err != nil {
		return err
	}
	return writeMarkdown(w, tui.DescribeAutomaton(auto))
}

// History prints stored runs, most recent first.
func History(ctx context.Context, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	setup, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	runs, err := setup.Engine.History(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		printSystemMessage(w, "No runs recorded.")
		return nil
	}
	for _, rec := range runs {
		fmt.Fprintf(w, "%s  %s\n", rec.StartedAt.Format(time.RFC3339), tui.StatusLine(w, rec.Status, &rec))
	}
	return nil
}

func writeMarkdown(w io.Writer, md string) error {
	out, err := tui.NewRenderer(w)(md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// Serve exposes the engine over the HTTP control API until ctx is cancelled.
// The active run, if any, is stopped on shutdown.
func Serve(ctx context.Context, cfg *config.Config, w io.Writer, logger *slog.Logger) error {
	setup, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	opts := []httpAdapter.Option{
		httpAdapter.WithJournal(setup.Journal),
		httpAdapter.WithLogger(logger),
	}
	if cfg.HTTP.Metrics {
		opts = append(opts, httpAdapter.WithMetrics(promhttp.HandlerFor(setup.Registry, promhttp.HandlerOpts{})))
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpAdapter.NewHandler(setup.Engine, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	printSystemMessage(w, "Serving %s on %s", cfg.Graph, srv.Addr)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stopActive(shutdownCtx, setup.Engine, logger)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("graceful shutdown did not complete: %w", err)
	}
	printSystemMessage(w, "Server stopped gracefully")
	return nil
}

// ServeMCP exposes the engine as an MCP server over stdio, or over SSE when addr is set.
func ServeMCP(ctx context.Context, cfg *config.Config, addr string, logger *slog.Logger) error {
	setup, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer setup.Close()

	srv := mcp.NewServer(setup.Engine, mcp.WithVersion(versionString()), mcp.WithLogger(logger))
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stopActive(stopCtx, setup.Engine, logger)
	}()

	if addr == "" {
		logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	}
	if err := srv.ServeSSE(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func stopActive(ctx context.Context, eng *macrograph.Engine, logger *slog.Logger) {
	if status, _ := eng.Status(); status != domain.StatusRunning && status != domain.StatusStopping {
		return
	}
	if err := eng.Stop(ctx); err != nil && !errors.Is(err, domain.ErrNotRunning) {
		logger.Warn("failed to stop active run", "err", err)
	}
}
