package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
)

// Entry is one journaled event.
type Entry struct {
	Timestamp time.Time        `json:"timestamp"`
	Type      domain.EventType `json:"type"`
	RunID     string           `json:"run_id"`
	NodeID    string           `json:"node_id,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// Journal keeps the most recent events in a ring buffer.
// Safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewJournal creates a journal holding up to size entries.
func NewJournal(size int) *Journal {
	if size <= 0 {
		size = 100
	}
	return &Journal{entries: make([]Entry, size)}
}

func (j *Journal) add(base domain.EventBase, nodeID, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[j.next] = Entry{Timestamp: base.Timestamp, Type: base.Type, RunID: base.RunID, NodeID: nodeID, Message: msg}
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
}

// Entries returns the journaled events, oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.full {
		return append([]Entry(nil), j.entries[:j.next]...)
	}
	out := make([]Entry, 0, len(j.entries))
	out = append(out, j.entries[j.next:]...)
	return append(out, j.entries[:j.next]...)
}

// Hooks returns lifecycle hooks writing to the journal.
func (j *Journal) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			j.add(e.EventBase, "", "run started")
		},
		OnRunStop: func(ctx context.Context, e *domain.RunEvent) {
			msg := string(e.Outcome)
			if e.Error != "" {
				msg += ": " + e.Error
			}
			j.add(e.EventBase, "", msg)
		},
		OnTransitionEnter: func(ctx context.Context, e *domain.TransitionEvent) {
			j.add(e.EventBase, e.NodeID, fmt.Sprintf("waiting (%d effects)", e.Effects))
		},
		OnTrigger: func(ctx context.Context, e *domain.TransitionEvent) {
			j.add(e.EventBase, e.NodeID, fmt.Sprintf("triggered after %d polls", e.Polls))
		},
		OnActionExecute: func(ctx context.Context, e *domain.ActionEvent) {
			msg := fmt.Sprintf("#%d %s (%s)", e.Index, e.Action, e.Duration.Round(time.Millisecond))
			if e.IsError {
				msg += " failed"
			}
			j.add(e.EventBase, e.NodeID, msg)
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			j.add(e.EventBase, e.NodeID, e.Error.Error())
		},
	}
}
