package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/vending/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key and channel used by the adapter.
const DefaultPrefix = "vending:"

// Publisher implements ports.RunPublisher over Redis pub/sub.
//
// Each snapshot is published as JSON on the snapshot channel and cached under
// the latest key so watchers that join late can render the current run.
// The engine never reads the cache back.
type Publisher struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Publisher)

// WithTTL sets the expiration of the cached latest snapshot.
func WithTTL(ttl time.Duration) Option {
	return func(p *Publisher) {
		p.ttl = ttl
	}
}

// WithPrefix sets the key and channel prefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// New creates a publisher with its own client.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		prefix: DefaultPrefix,
		ttl:    time.Hour,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Channel is the pub/sub channel snapshots are published on.
func (p *Publisher) Channel() string {
	return channel(p.prefix)
}

// Publish sends the snapshot to every subscriber.
func (p *Publisher) Publish(ctx context.Context, state domain.RunState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, latestKey(p.prefix), data, p.ttl)
	pipe.Publish(ctx, channel(p.prefix), data)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

func channel(prefix string) string {
	return prefix + "snapshots"
}

func latestKey(prefix string) string {
	return prefix + "latest"
}
