package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/macrograph/pkg/domain"
)

// Combine fans every event out to all hooks, in argument order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnRunStart = chain(out.OnRunStart, h.OnRunStart)
		out.OnRunStop = chain(out.OnRunStop, h.OnRunStop)
		out.OnTransitionEnter = chain(out.OnTransitionEnter, h.OnTransitionEnter)
		out.OnTrigger = chain(out.OnTrigger, h.OnTrigger)
		out.OnActionExecute = chain(out.OnActionExecute, h.OnActionExecute)
		out.OnError = chain(out.OnError, h.OnError)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LoggingHooks logs every lifecycle event at debug level (errors at warn).
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Start", "run_id", e.RunID)
		},
		OnRunStop: func(ctx context.Context, e *domain.RunEvent) {
			logger.Debug("Run Stop", "run_id", e.RunID, "outcome", e.Outcome)
		},
		OnTransitionEnter: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("Enter Transition", "run_id", e.RunID, "node_id", e.NodeID, "effects", e.Effects)
		},
		OnTrigger: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("Trigger", "run_id", e.RunID, "node_id", e.NodeID, "polls", e.Polls)
		},
		OnActionExecute: func(ctx context.Context, e *domain.ActionEvent) {
			logger.Debug("Action", "run_id", e.RunID, "node_id", e.NodeID, "action", e.Action,
				"index", e.Index, "duration", e.Duration, "is_error", e.IsError)
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			logger.Warn("Cycle Error", "run_id", e.RunID, "node_id", e.NodeID, "fatal", e.Fatal, "err", e.Error)
		},
	}
}
