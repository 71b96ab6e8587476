package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// The engine uses it to keep a single automaton running across several processes
// that drive the same screen.
type DistributedLocker interface {
	// Lock attempts to acquire a distributed lock for the given key.
	// It blocks until the lock is acquired or the context is canceled.
	// A zero ttl means the lock does not expire on its own.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// LockRefresher is implemented by lockers that can extend a lock they still hold.
// The engine only takes expiring locks from lockers that implement it.
type LockRefresher interface {
	// Refresh resets the ttl of the lock held on key.
	// It returns domain.ErrLockLost if the lock expired or is now owned by someone else.
	Refresh(ctx context.Context, key string, ttl time.Duration) error
}
