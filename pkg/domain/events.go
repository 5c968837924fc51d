package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition"
	EventAccept     EventType = "accept"
	EventDispense   EventType = "dispense"
	EventReset      EventType = "reset"
	EventReject     EventType = "reject"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// TransitionEvent is emitted for every accepted coin.
type TransitionEvent struct {
	EventBase
	Record TransitionRecord `json:"record"`
}

// RunEvent is emitted when a run is accepted, dispensed or reset.
type RunEvent struct {
	EventBase
	Level  Level `json:"level"`
	Total  int   `json:"total"`
	Change int   `json:"change"`
}

// RejectEvent is emitted when an operation is silently ignored.
type RejectEvent struct {
	EventBase
	Operation string       `json:"operation"`
	Reason    RejectReason `json:"reason"`
	Coin      Coin         `json:"coin,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside the engine and must not call its write operations.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnAccept     func(context.Context, *RunEvent)
	OnDispense   func(context.Context, *RunEvent)
	OnReset      func(context.Context, *RunEvent)
	OnReject     func(context.Context, *RejectEvent)
}

// ComposeHooks returns hooks that call each of the given hooks in order.
func ComposeHooks(all ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range all {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnAccept: func(ctx context.Context, e *RunEvent) {
			for _, h := range all {
				if h.OnAccept != nil {
					h.OnAccept(ctx, e)
				}
			}
		},
		OnDispense: func(ctx context.Context, e *RunEvent) {
			for _, h := range all {
				if h.OnDispense != nil {
					h.OnDispense(ctx, e)
				}
			}
		},
		OnReset: func(ctx context.Context, e *RunEvent) {
			for _, h := range all {
				if h.OnReset != nil {
					h.OnReset(ctx, e)
				}
			}
		},
		OnReject: func(ctx context.Context, e *RejectEvent) {
			for _, h := range all {
				if h.OnReject != nil {
					h.OnReject(ctx, e)
				}
			}
		},
	}
}
