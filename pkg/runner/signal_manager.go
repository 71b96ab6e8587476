package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalManager exposes OS signals as a context that can be re-armed after each signal.
type SignalManager struct {
	signals []os.Signal
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewSignalManager creates a new manager and immediately starts listening.
// With no signals given it captures SIGINT (Ctrl+C) and SIGTERM.
func NewSignalManager(sigs ...os.Signal) *SignalManager {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	sm := &SignalManager{signals: sigs}
	sm.Reset()
	return sm
}

// Context returns the current signal context. It is cancelled by the next signal.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Done is shorthand for Context().Done().
func (sm *SignalManager) Done() <-chan struct{} {
	return sm.ctx.Done()
}

// Reset re-arms the listener so a subsequent signal can be observed.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(context.Background(), sm.signals...)
}

// Stop permanently stops the signal listener.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}
