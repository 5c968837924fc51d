package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/ports"
)

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithDelay sets the transition delay during which the run is busy.
// Zero (the default) settles every transition immediately.
func WithDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.delay = d
	}
}

// WithPublisher adds a publisher that receives every committed snapshot.
func WithPublisher(p ports.RunPublisher) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.publishers = append(e.publishers, p)
		}
	}
}

// WithClock overrides the wall clock used to timestamp records and events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRunIDGenerator overrides how run identifiers are generated.
func WithRunIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newRunID = gen
		}
	}
}
