package ports

import "context"

// Observer polls an environment signal and reports whether its trigger condition holds.
// Implementations may keep state between polls (e.g. the last captured frame).
// An error means the poll itself failed, not that the trigger is false.
type Observer interface {
	IsTriggered(ctx context.Context) (bool, error)
}

// Action performs one atomic, side-effecting operation.
// The engine never consumes a return value, only the error.
type Action interface {
	Execute(ctx context.Context) error
}
