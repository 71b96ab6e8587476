/*
Package observer provides the sensor side of the automaton: implementations of ports.Observer.

  - Region watches a rectangular screen area and triggers when enough pixels change between polls.
  - Never can never trigger; the compiler substitutes it for observer nodes nobody configured.
  - Func adapts a plain function.

New sensor kinds are added by implementing ports.Observer and registering a factory in
package registry; neither the compiler nor the engine needs to change.
*/
package observer
