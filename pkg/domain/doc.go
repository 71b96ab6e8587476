/*
Package domain contains the core domain models of the macrograph engine.

It defines the raw graph authored in the editor (observer and action nodes linked by edges),
the run lifecycle (status, outcome, records), lifecycle events, and the error taxonomy shared
by the compiler and the execution engine. This package is kept pure and free of I/O.

# Key Entities

  - Graph / Node / Edge: the UI-decoupled raw graph. Node order is the designated iteration order.
  - CapabilitySpec: a typed, parameterised description of an observer or action.
  - RunStatus / RunRecord: the execution engine state machine and its persisted summary.
  - LifecycleHooks: callbacks fired by the engine for observability.
*/
package domain
