/*
Package runner drives a Macrograph automaton in the foreground.

It is the bridge between a background run and a terminal host: it starts the run, reports
lifecycle events as they happen, and turns Ctrl+C (or an interrupt channel, or a time limit)
into a graceful stop. A second Ctrl+C while stopping abandons the wait.

# Key Components

  - Runner: starts a run and blocks until it stops.
  - Reporter: turns lifecycle events into output. TextReporter writes human readable lines,
    JSONReporter writes one JSON object per line.
  - SignalManager: re-armable OS signal context.

# Usage

	rep := runner.NewTextReporter(os.Stdout)
	eng, _ := macrograph.New(
		macrograph.WithLoader(loader),
		macrograph.WithLifecycleHooks(rep.Hooks()),
	)

	rec, err := runner.NewRunner(eng, runner.WithReporter(rep)).Run(ctx)
*/
package runner
