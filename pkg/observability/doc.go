/*
Package observability provides lifecycle hooks for monitoring the Macrograph engine.

It includes structured logging hooks, Prometheus metrics, an in-memory journal of recent events
for control surfaces, and Combine to attach several of them to one engine.
*/
package observability
