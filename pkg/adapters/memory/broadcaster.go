package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/vending/pkg/domain"
)

// DefaultBuffer is the number of snapshots buffered per subscriber.
const DefaultBuffer = 16

// Broadcaster implements ports.RunPublisher and ports.RunSubscriber in memory.
// Safe for concurrent use. Slow subscribers drop snapshots rather than block the engine.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan domain.RunState]struct{}
	buffer      int
	closed      bool
	done        chan struct{}
	logger      *slog.Logger
}

// Option configures the Broadcaster.
type Option func(*Broadcaster)

// WithBuffer sets the per-subscriber buffer size.
func WithBuffer(n int) Option {
	return func(b *Broadcaster) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithLogger configures a logger for dropped snapshots.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broadcaster) {
		b.logger = logger
	}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(opts ...Option) *Broadcaster {
	b := &Broadcaster{
		subscribers: make(map[chan domain.RunState]struct{}),
		buffer:      DefaultBuffer,
		done:        make(chan struct{}),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new subscriber until ctx is done.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan domain.RunState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, domain.ErrPublisherClosed
	}

	ch := make(chan domain.RunState, b.buffer)
	b.subscribers[ch] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			b.remove(ch)
		case <-b.done:
		}
	}()

	return ch, nil
}

func (b *Broadcaster) remove(ch chan domain.RunState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// Publish fans the snapshot out to every subscriber without blocking.
func (b *Broadcaster) Publish(ctx context.Context, state domain.RunState) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return domain.ErrPublisherClosed
	}

	for ch := range b.subscribers {
		select {
		case ch <- state.Clone():
		default:
			// Drop snapshot if channel is full (slow client)
			b.logger.Warn("Broadcaster: subscriber buffer full, dropping snapshot", "run_id", state.RunID)
		}
	}
	return nil
}

// Len returns the number of active subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscription. Further publishes fail with ErrPublisherClosed.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
	return nil
}
