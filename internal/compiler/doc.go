// Package compiler translates the raw observer/action graph into an Automaton.
//
// Every observer node becomes one Transition. The single edge leaving an observer is followed
// through a chain of action nodes; all their action literals are flattened, in chain order, into
// the transition's effect sequence. The chain ends at the next observer node (the successor) or
// when no edge leaves the last action node (terminal).
//
// Cycles among action nodes are detected with a visited set and reported as
// domain.ErrEffectChainCycle. Nodes with several outgoing edges are rejected with
// domain.ErrAmbiguousBranch unless lenient branching is enabled, in which case the first edge
// wins and a Diagnostic is recorded.
package compiler
