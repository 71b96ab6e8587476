// Package runtime executes compiled automata.
//
// An Engine runs at most one automaton at a time on a background goroutine. The loop polls the
// current transition's observer; when it triggers, the transition's effects run strictly in
// order and the automaton advances to the successor. When it does not, the loop waits one poll
// interval. Stop is observed at the top of the loop and during the wait, never in the middle of
// an effect sequence.
//
// Lifecycle:
//
//	Idle -> Running -> Stopping -> Stopped
//	            \__________________/   (terminal transition or aborting failure)
package runtime
