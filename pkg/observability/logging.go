package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/vending/pkg/domain"
)

// LogHooks returns hooks that write an audit line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "coin_inserted",
				"run_id", e.RunID,
				"seq", e.Record.Seq,
				"from", int(e.Record.From),
				"coin", int(e.Record.Coin),
				"to", int(e.Record.To),
			)
		},
		OnAccept: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "price_met", "run_id", e.RunID, "total", e.Total, "change", e.Change)
		},
		OnDispense: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "dispensed", "run_id", e.RunID, "change", e.Change)
		},
		OnReset: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "reset", "run_id", e.RunID)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.WarnContext(ctx, "rejected", "run_id", e.RunID, "operation", e.Operation, "reason", e.Reason)
		},
	}
}
