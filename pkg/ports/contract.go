package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/vending/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPublisherContract runs a suite of tests to verify that a publisher and the
// subscriber reading from it adhere to the fan-out contract.
func RunPublisherContract(t *testing.T, pub RunPublisher, sub RunSubscriber) {
	runID := "contract-run-" + time.Now().Format("20060102150405")

	t.Run("Publish and Receive In Order", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch, err := sub.Subscribe(ctx)
		require.NoError(t, err, "Subscribe should not return error")

		first := domain.RunState{RunID: runID, Current: 10, Total: 10, Coins: []domain.Coin{10}}
		second := domain.RunState{RunID: runID, Current: 30, Total: 35, Change: 5, Accepting: true, Coins: []domain.Coin{10, 25}}

		require.NoError(t, publishEventually(t, ctx, pub, ch, first))
		require.NoError(t, pub.Publish(ctx, second), "Publish should not return error")

		got := receive(t, ch)
		assert.Equal(t, runID, got.RunID)
		assert.Equal(t, domain.Level(30), got.Current)
		assert.Equal(t, 5, got.Change)
		assert.True(t, got.Accepting)
		assert.Equal(t, []domain.Coin{10, 25}, got.Coins)
	})

	t.Run("Channel Closes On Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := sub.Subscribe(ctx)
		require.NoError(t, err)

		cancel()

		deadline := time.After(2 * time.Second)
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return
				}
			case <-deadline:
				t.Fatal("subscription channel was not closed after cancel")
			}
		}
	})
}

// publishEventually publishes until the subscriber observes the snapshot.
// Remote subscribers may need a moment before they receive anything.
func publishEventually(t *testing.T, ctx context.Context, pub RunPublisher, ch <-chan domain.RunState, state domain.RunState) error {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if err := pub.Publish(ctx, state); err != nil {
			return err
		}
		select {
		case got := <-ch:
			if got.RunID == state.RunID && got.Current == state.Current {
				return nil
			}
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("subscriber never received the published snapshot")
		}
	}
}

func receive(t *testing.T, ch <-chan domain.RunState) domain.RunState {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got, ok := <-ch:
			require.True(t, ok, "channel closed unexpectedly")
			// Skip duplicates left over from publishEventually.
			if got.Current == 10 {
				continue
			}
			return got
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}
