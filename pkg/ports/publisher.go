package ports

import (
	"context"

	"github.com/aretw0/vending/pkg/domain"
)

// RunPublisher receives each run snapshot the engine commits.
// Implementations must not block for long: the engine publishes in order,
// while holding its write lock.
type RunPublisher interface {
	Publish(ctx context.Context, state domain.RunState) error
}

// RunSubscriber streams run snapshots. The returned channel is closed when ctx is done.
type RunSubscriber interface {
	Subscribe(ctx context.Context) (<-chan domain.RunState, error)
}
