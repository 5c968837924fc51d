package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/vending/internal/runtime"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	var events []string
	hooks := domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			events = append(events, "transition:"+e.Record.Coin.String())
		},
		OnAccept: func(ctx context.Context, e *domain.RunEvent) {
			events = append(events, "accept")
			assert.Equal(t, 5, e.Change)
		},
		OnDispense: func(ctx context.Context, e *domain.RunEvent) {
			events = append(events, "dispense")
		},
		OnReset: func(ctx context.Context, e *domain.RunEvent) {
			events = append(events, "reset")
			assert.Equal(t, domain.EventReset, e.Type)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			events = append(events, "reject:"+e.Operation+":"+string(e.Reason))
		},
	}

	e := newTestEngine(t, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	e.Dispense(ctx)
	insertAll(t, e, 10, 25, 5)
	e.Dispense(ctx)
	_, err := e.InsertCoin(ctx, 5)
	require.NoError(t, err)
	e.Reset(ctx)

	assert.Equal(t, []string{
		"reject:dispense:not_accepting",
		"transition:10¢",
		"transition:25¢",
		"accept",
		"transition:5¢",
		"dispense",
		"reject:insert_coin:delivered",
		"reset",
	}, events)
}

func TestEngine_ComposedHooks(t *testing.T) {
	var a, b int
	hooks := domain.ComposeHooks(
		domain.LifecycleHooks{OnTransition: func(context.Context, *domain.TransitionEvent) { a++ }},
		domain.LifecycleHooks{OnTransition: func(context.Context, *domain.TransitionEvent) { b++ }},
		domain.LifecycleHooks{},
	)

	e := newTestEngine(t, runtime.WithLifecycleHooks(hooks))
	insertAll(t, e, 5, 5)
	e.Dispense(context.Background())

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
}

type recordingPublisher struct {
	mu     sync.Mutex
	states []domain.RunState
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, s domain.RunState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, s)
	return p.err
}

func TestEngine_PublishesEveryCommit(t *testing.T) {
	pub := &recordingPublisher{}
	e := newTestEngine(t, runtime.WithPublisher(pub))
	ctx := context.Background()

	insertAll(t, e, 25)
	e.Dispense(ctx) // ignored, not published
	insertAll(t, e, 10)
	e.Dispense(ctx)
	e.Reset(ctx)

	require.Len(t, pub.states, 4)
	assert.Equal(t, domain.Level(25), pub.states[0].Current)
	assert.True(t, pub.states[1].Accepting)
	assert.True(t, pub.states[2].Delivered)
	assert.Equal(t, "run-2", pub.states[3].RunID)
}

func TestEngine_PublisherErrorsDoNotFailOperations(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("backend down")}
	e := newTestEngine(t, runtime.WithPublisher(pub))

	s, err := e.InsertCoin(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, domain.Level(10), s.Current)
	assert.Len(t, pub.states, 1)
}

func TestEngine_PublishesSettle(t *testing.T) {
	pub := &recordingPublisher{}
	e := newTestEngine(t, runtime.WithPublisher(pub), runtime.WithDelay(1))

	insertAll(t, e, 5)
	require.NoError(t, e.Idle(context.Background()))

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.states, 2)
	assert.True(t, pub.states[0].Busy)
	assert.False(t, pub.states[1].Busy)
}
