/*
Package macrograph compiles editor-authored observer/action graphs into automata and runs them.

A raw graph has two kinds of nodes. Observer nodes watch something (a screen region, by default)
and report when it changed. Action nodes hold an ordered list of effects (clicks, key presses,
typing, waits). Edges connect them in chains:

	watch-dialog -> click-ok -> type-name -> watch-next

The compiler turns every observer node into one transition: the observer, the flattened effects
of the action chain that leaves it, and the next observer as successor. The engine then polls the
current observer on a background goroutine, runs the effects in order when it triggers, and moves
on, until it reaches a transition with no successor or is stopped.

# Usage

	loader := file.NewLoader("macro.yaml")

	eng, err := macrograph.New(
		macrograph.WithLoader(loader),
		macrograph.WithDevices(registry.Devices{Screen: screen, Pointer: pointer}),
	)
	if err != nil {
		log.Fatal(err)
	}

	run, err := eng.Start(ctx)
	if errors.Is(err, domain.ErrNoObserverNode) {
		log.Println("nothing to run")
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	// ... later, from another goroutine
	if err := run.Stop(ctx); err != nil {
		log.Println(err)
	}

Observers and actions are injected through a registry.Registry, so hosts can add their own
capability types without touching the compiler or the engine.
*/
package macrograph
