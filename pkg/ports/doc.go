/*
Package ports defines the driven ports (interfaces) for the macrograph engine.

These interfaces decouple the compiler and the execution engine from concrete sensors,
effectors, graph sources and storage backends.

# Key Interfaces

  - Observer / Action: the two capability contracts the compiler and engine depend on.
  - ScreenCapturer / Pointer / Keyboard: device collaborators used by concrete capabilities.
  - GraphLoader: supplies the raw graph (file, memory, editor).
  - RunStore: persists run records.
  - DistributedLocker: keeps one automaton running across processes.
  - Controller: the start/stop/status surface exposed to hosts.
*/
package ports
