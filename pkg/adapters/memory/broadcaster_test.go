package memory_test

import (
	"context"
	goruntime "runtime"
	"testing"
	"time"

	"github.com/aretw0/vending/internal/logging"
	"github.com/aretw0/vending/pkg/adapters/memory"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_Contract(t *testing.T) {
	b := memory.NewBroadcaster(memory.WithLogger(logging.NewNop()))
	defer b.Close()

	ports.RunPublisherContract(t, b, b)
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := memory.NewBroadcaster(memory.WithBuffer(1), memory.WithLogger(logging.NewNop()))
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, domain.RunState{RunID: "a", Current: 5}))
	require.NoError(t, b.Publish(ctx, domain.RunState{RunID: "a", Current: 10}))

	got := <-ch
	assert.Equal(t, domain.Level(5), got.Current)

	select {
	case extra := <-ch:
		t.Fatalf("expected second snapshot to be dropped, got %+v", extra)
	default:
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := memory.NewBroadcaster()

	ch, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "Close must be idempotent")

	_, ok := <-ch
	assert.False(t, ok, "subscription must be closed")

	assert.ErrorIs(t, b.Publish(context.Background(), domain.RunState{}), domain.ErrPublisherClosed)
	_, err = b.Subscribe(context.Background())
	assert.ErrorIs(t, err, domain.ErrPublisherClosed)
}

func TestBroadcaster_UnsubscribeOnCancel(t *testing.T) {
	b := memory.NewBroadcaster()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	_, err := b.Subscribe(ctx)
	require.NoError(t, err)

	cancel()
	assert.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestBroadcaster_SubscribersGetPrivateCopies(t *testing.T) {
	b := memory.NewBroadcaster(memory.WithLogger(logging.NewNop()))
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := b.Subscribe(ctx)
	require.NoError(t, err)
	second, err := b.Subscribe(ctx)
	require.NoError(t, err)

	state := domain.RunState{RunID: "a", Current: 10, Coins: []domain.Coin{10}, Log: []domain.TransitionRecord{{Seq: 1, From: 0, To: 10, Coin: 10}}}
	require.NoError(t, b.Publish(ctx, state))

	got := <-first
	got.Coins[0] = 999
	got.Log[0].To = 999

	other := <-second
	assert.Equal(t, []domain.Coin{10}, other.Coins)
	assert.Equal(t, domain.Level(10), other.Log[0].To)
	assert.Equal(t, []domain.Coin{10}, state.Coins, "the published value must not change")
}

func TestBroadcaster_CloseReleasesSubscriptions(t *testing.T) {
	before := goruntime.NumGoroutine()

	b := memory.NewBroadcaster(memory.WithLogger(logging.NewNop()))
	for range 50 {
		_, err := b.Subscribe(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 50, b.Len())

	require.NoError(t, b.Close())
	assert.Eventually(t, func() bool {
		return goruntime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond, "subscription watchers must exit on Close")
}
