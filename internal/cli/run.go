package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/macrograph/internal/config"
	"github.com/aretw0/macrograph/internal/presentation/tui"
	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/runner"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	JSON    bool          // Report events as JSON lines
	Verbose bool          // Report every transition entry and effect
	For     time.Duration // Stop the run after this long (0 = until done or Ctrl+C)
	Quiet   bool          // No banner

	// Interrupt stops the run like Ctrl+C. Used by tests and embedding hosts.
	Interrupt <-chan struct{}
	// NoSignals disables OS signal handling.
	NoSignals bool
}

// Run compiles the graph of cfg and runs it in the foreground until it completes, fails,
// or is interrupted. A graph with nothing to run is reported but is not an error.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions, stdout io.Writer, logger *slog.Logger) error {
	var rep runner.Reporter
	if opts.JSON {
		rep = runner.NewJSONReporter(stdout)
	} else {
		if !opts.Quiet {
			tui.PrintBanner(stdout, versionString())
		}
		rep = runner.NewTextReporter(stdout, runner.WithVerbose(opts.Verbose))
	}

	setup, err := createEngine(cfg, logger, rep.Hooks())
	if err != nil {
		return err
	}
	defer setup.Close()

	r := runner.NewRunner(setup.Engine,
		runner.WithReporter(rep),
		runner.WithLogger(logger),
		runner.WithMaxDuration(opts.For),
		runner.WithInterruptSource(opts.Interrupt),
		runner.WithSignals(!opts.NoSignals),
	)

	_, err = r.Run(ctx)
	if errors.Is(err, domain.ErrNoObserverNode) {
		return nil
	}
	return err
}
