package runtime_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/aretw0/vending/internal/runtime"
	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	seq := 0
	base := []runtime.EngineOption{
		runtime.WithClock(func() time.Time { return epoch }),
		runtime.WithRunIDGenerator(func() string {
			seq++
			return fmt.Sprintf("run-%d", seq)
		}),
	}
	return runtime.NewEngine(automaton.Default(), append(base, opts...)...)
}

func insertAll(t *testing.T, e *runtime.Engine, coins ...domain.Coin) domain.RunState {
	t.Helper()
	var state domain.RunState
	for _, c := range coins {
		var err error
		state, err = e.InsertCoin(context.Background(), c)
		require.NoError(t, err)
	}
	return state
}

func TestEngine_InitialRun(t *testing.T) {
	e := newTestEngine(t)
	s := e.Snapshot()

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, domain.Level(0), s.Current)
	assert.Equal(t, "q0", s.Label)
	assert.Equal(t, 30, s.Remaining)
	assert.False(t, s.Accepting)
	assert.False(t, s.Delivered)
	assert.Empty(t, s.Log)
	assert.True(t, s.CanInsert())
	assert.False(t, s.CanDispense())
}

func TestEngine_ScenarioA_OvershootGivesChange(t *testing.T) {
	e := newTestEngine(t)

	s := insertAll(t, e, 10)
	assert.Equal(t, domain.Level(10), s.Current)
	assert.False(t, s.Accepting)
	assert.Equal(t, 0, s.Change)

	s = insertAll(t, e, 25)
	assert.Equal(t, domain.Level(30), s.Current, "must saturate at the top level")
	assert.Equal(t, "q6", s.Label)
	assert.True(t, s.Accepting)
	assert.Equal(t, 35, s.Total)
	assert.Equal(t, 5, s.Change)
	assert.Equal(t, 0, s.Remaining)

	require.Len(t, s.Log, 2)
	assert.Equal(t, domain.TransitionRecord{Seq: 1, From: 0, To: 10, Coin: 10, At: epoch}, s.Log[0])
	assert.Equal(t, domain.TransitionRecord{Seq: 2, From: 10, To: 30, Coin: 25, At: epoch}, s.Log[1])
}

func TestEngine_ScenarioB_ExactPrice(t *testing.T) {
	e := newTestEngine(t)

	for i := 1; i <= 5; i++ {
		s := insertAll(t, e, 5)
		assert.False(t, s.Accepting, "must not accept after %d nickels", i)
	}

	s := insertAll(t, e, 5)
	assert.True(t, s.Accepting)
	assert.Equal(t, domain.Level(30), s.Current)
	assert.Equal(t, 0, s.Change)
	assert.Len(t, s.Log, 6)
}

func TestEngine_ScenarioC_DispenseBeforeAccepting(t *testing.T) {
	e := newTestEngine(t)
	before := insertAll(t, e, 25)

	after := e.Dispense(context.Background())

	assert.Equal(t, before, after)
	assert.False(t, after.Delivered)
	assert.Equal(t, domain.Level(25), after.Current)
}

func TestEngine_ScenarioD_FrozenAfterDelivery(t *testing.T) {
	e := newTestEngine(t)
	insertAll(t, e, 25, 10)

	delivered := e.Dispense(context.Background())
	require.True(t, delivered.Delivered)
	assert.Equal(t, 5, delivered.Change)
	assert.False(t, delivered.CanInsert())

	after, err := e.InsertCoin(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, delivered, after, "insertion after delivery must change nothing")
	assert.Equal(t, delivered, e.Snapshot())

	again := e.Dispense(context.Background())
	assert.Equal(t, delivered, again)

	e.Reset(context.Background())
	s := insertAll(t, e, 5)
	assert.Equal(t, domain.Level(5), s.Current, "reset must re-enable insertion")
}

func TestEngine_ScenarioE_ResetClearsRun(t *testing.T) {
	e := newTestEngine(t)
	insertAll(t, e, 10, 25)
	e.Dispense(context.Background())

	s := e.Reset(context.Background())

	assert.Equal(t, "run-2", s.RunID)
	assert.Equal(t, domain.Level(0), s.Current)
	assert.Empty(t, s.Log)
	assert.Empty(t, s.Coins)
	assert.Equal(t, 0, s.Change)
	assert.Equal(t, 0, s.Total)
	assert.False(t, s.Delivered)
	assert.False(t, s.Accepting)
	assert.Equal(t, s, e.Snapshot())
}

func TestEngine_ResetIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	insertAll(t, e, 10, 10)

	once := e.Reset(context.Background())
	twice := e.Reset(context.Background())

	once.RunID, twice.RunID = "", ""
	assert.Equal(t, once, twice)
}

func TestEngine_FoldAndMonotonicity(t *testing.T) {
	m := automaton.Default()
	alphabet := m.Alphabet()
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		e := newTestEngine(t)
		var word []domain.Coin
		prev := e.Snapshot().Current
		n := rng.Intn(10)

		for i := 0; i < n; i++ {
			c := alphabet[rng.Intn(len(alphabet))]
			word = append(word, c)

			s, err := e.InsertCoin(context.Background(), c)
			require.NoError(t, err)

			assert.Equal(t, m.Run(word), s.Current, "fold invariant for %v", word)
			assert.GreaterOrEqual(t, s.Current, prev, "current must be non-decreasing")
			assert.LessOrEqual(t, s.Current, m.Top())
			assert.Equal(t, m.IsAccepting(s.Current), s.Accepting)
			assert.Equal(t, word, s.Coins)
			prev = s.Current
		}
	}
}

func TestEngine_InsertAfterAcceptingRecomputesChange(t *testing.T) {
	e := newTestEngine(t)
	insertAll(t, e, 25, 5)

	s := insertAll(t, e, 10)
	assert.Equal(t, domain.Level(30), s.Current)
	assert.Equal(t, 40, s.Total)
	assert.Equal(t, 10, s.Change)
	assert.Equal(t, domain.TransitionRecord{Seq: 3, From: 30, To: 30, Coin: 10, At: epoch}, s.Log[2])
}

func TestEngine_InvalidSymbol(t *testing.T) {
	e := newTestEngine(t)
	insertAll(t, e, 5)
	before := e.Snapshot()

	s, err := e.InsertCoin(context.Background(), 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSymbol)
	var symErr *domain.InvalidSymbolError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, domain.Coin(3), symErr.Coin)
	assert.Equal(t, before, s)
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_SnapshotsAreIsolated(t *testing.T) {
	e := newTestEngine(t)
	first := insertAll(t, e, 5)
	insertAll(t, e, 10)

	assert.Equal(t, []domain.Coin{5}, first.Coins, "earlier snapshots must not see later coins")
	assert.Len(t, first.Log, 1)
}

func TestEngine_CallerCannotRewriteHistory(t *testing.T) {
	e := newTestEngine(t)
	returned := insertAll(t, e, 10)

	s := e.Snapshot()
	s.Log[0].To = 999
	s.Coins[0] = 999
	returned.Log[0].Coin = 999
	returned.Coins[0] = 999

	again := e.Snapshot()
	assert.Equal(t, domain.Level(10), again.Log[0].To)
	assert.Equal(t, domain.Coin(10), again.Log[0].Coin)
	assert.Equal(t, []domain.Coin{10}, again.Coins)

	next := insertAll(t, e, 25)
	require.Len(t, next.Log, 2)
	assert.Equal(t, domain.TransitionRecord{Seq: 1, From: 0, To: 10, Coin: 10, At: epoch}, next.Log[0])
	assert.Equal(t, []domain.Coin{10, 25}, next.Coins)
	assert.Equal(t, e.Machine().Run(next.Coins), next.Current, "current must stay the fold of the coins")
}

func TestEngine_BusyRejectsUntilSettled(t *testing.T) {
	e := newTestEngine(t, runtime.WithDelay(20*time.Millisecond))

	s := insertAll(t, e, 25)
	require.True(t, s.Busy)
	assert.False(t, s.CanInsert())

	rejected, err := e.InsertCoin(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, s, rejected, "insertion while busy must be ignored")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.Idle(ctx))

	settled := e.Snapshot()
	assert.False(t, settled.Busy)
	assert.Equal(t, domain.Level(25), settled.Current)

	s = insertAll(t, e, 5)
	assert.Equal(t, domain.Level(30), s.Current)
	require.NoError(t, e.Idle(ctx))

	assert.True(t, e.Dispense(context.Background()).Delivered)
}

func TestEngine_DispenseWhileBusyIsIgnored(t *testing.T) {
	e := newTestEngine(t, runtime.WithDelay(time.Hour))

	insertAll(t, e, 25, 5)
	current := e.Snapshot()
	assert.Equal(t, domain.Level(25), current.Current, "second coin must be ignored while busy")

	assert.Equal(t, current, e.Dispense(context.Background()))
}

func TestEngine_ResetCancelsDelay(t *testing.T) {
	e := newTestEngine(t, runtime.WithDelay(time.Hour))

	s := insertAll(t, e, 10)
	require.True(t, s.Busy)

	idle := make(chan error, 1)
	go func() { idle <- e.Idle(context.Background()) }()

	reset := e.Reset(context.Background())
	assert.False(t, reset.Busy, "reset must clear the busy flag")

	select {
	case err := <-idle:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Idle did not return after reset")
	}

	s = insertAll(t, e, 5)
	assert.Equal(t, domain.Level(5), s.Current)
	assert.True(t, s.Busy)
}

func TestEngine_IdleHonoursContext(t *testing.T) {
	e := newTestEngine(t, runtime.WithDelay(time.Hour))
	insertAll(t, e, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, e.Idle(ctx), context.DeadlineExceeded)
	assert.NoError(t, newTestEngine(t).Idle(context.Background()), "idle engine returns immediately")
}
