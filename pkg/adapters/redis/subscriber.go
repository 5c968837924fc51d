package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/vending/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned by Latest when nothing has been published yet.
var ErrNoSnapshot = errors.New("no snapshot published")

// Subscriber implements ports.RunSubscriber over Redis pub/sub.
type Subscriber struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

type SubscriberOption func(*Subscriber)

// WithSubscriberPrefix sets the key and channel prefix. It must match the publisher's.
func WithSubscriberPrefix(prefix string) SubscriberOption {
	return func(s *Subscriber) {
		s.prefix = prefix
	}
}

// WithSubscriberLogger configures a logger for malformed messages.
func WithSubscriberLogger(logger *slog.Logger) SubscriberOption {
	return func(s *Subscriber) {
		s.logger = logger
	}
}

// NewSubscriber creates a subscriber from an existing client.
func NewSubscriber(client *backend.Client, opts ...SubscriberOption) *Subscriber {
	s := &Subscriber{
		client: client,
		prefix: DefaultPrefix,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe streams published snapshots until ctx is done.
// It returns once the subscription is confirmed by the server.
func (s *Subscriber) Subscribe(ctx context.Context) (<-chan domain.RunState, error) {
	pubsub := s.client.Subscribe(ctx, channel(s.prefix))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to redis: %w", err)
	}

	out := make(chan domain.RunState, 16)
	msgs := pubsub.Channel()

	go func() {
		defer close(out)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var state domain.RunState
				if err := json.Unmarshal([]byte(msg.Payload), &state); err != nil {
					s.logger.Warn("ignoring malformed snapshot", "channel", msg.Channel, "err", err)
					continue
				}
				select {
				case out <- state:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Latest returns the most recently published snapshot.
func (s *Subscriber) Latest(ctx context.Context) (domain.RunState, error) {
	val, err := s.client.Get(ctx, latestKey(s.prefix)).Result()
	if err != nil {
		if err == backend.Nil {
			return domain.RunState{}, ErrNoSnapshot
		}
		return domain.RunState{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state domain.RunState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return domain.RunState{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return state, nil
}
