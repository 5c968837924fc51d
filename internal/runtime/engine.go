package runtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/ports"
	"github.com/google/uuid"
)

// Engine owns the single run of a vending automaton.
//
// Every operation replaces the run snapshot as a whole. Writers are serialized
// by mu; readers load the snapshot atomically and never block.
type Engine struct {
	machine    *automaton.Machine
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	delay      time.Duration
	publishers []ports.RunPublisher
	now        func() time.Time
	newRunID   func() string

	mu      sync.Mutex
	state   atomic.Pointer[domain.RunState]
	pending *settle
}

// settle is an outstanding transition delay.
type settle struct {
	timer *time.Timer
	done  chan struct{}
}

// NewEngine creates an engine with a fresh run of the given machine.
func NewEngine(machine *automaton.Machine, opts ...EngineOption) *Engine {
	e := &Engine{
		machine:  machine,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	initial := e.freshRun()
	e.state.Store(&initial)
	return e
}

// Machine returns the automaton definition.
func (e *Engine) Machine() *automaton.Machine {
	return e.machine
}

// Snapshot returns a private copy of the current run.
func (e *Engine) Snapshot() domain.RunState {
	return e.state.Load().Clone()
}

// InsertCoin consumes one coin.
//
// A coin outside the alphabet fails with *domain.InvalidSymbolError. Inserting
// into a delivered run, or while a transition delay is outstanding, is ignored:
// the unchanged snapshot is returned.
func (e *Engine) InsertCoin(ctx context.Context, coin domain.Coin) (domain.RunState, error) {
	if err := e.machine.CheckSymbol(coin); err != nil {
		return e.Snapshot(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.Snapshot()
	if current.Delivered {
		e.reject(ctx, current, "insert_coin", domain.RejectDelivered, coin)
		return current, nil
	}
	if current.Busy {
		e.reject(ctx, current, "insert_coin", domain.RejectBusy, coin)
		return current, nil
	}

	to := e.machine.Transition(current.Current, coin)
	record := domain.TransitionRecord{
		Seq:  len(current.Log) + 1,
		From: current.Current,
		To:   to,
		Coin: coin,
		At:   e.now(),
	}

	next := current
	next.Current = to
	next.Label = e.machine.Label(to)
	next.Total = current.Total + int(coin)
	next.Remaining = e.machine.Remaining(to)
	next.Coins = appendCopy(current.Coins, coin)
	next.Log = appendCopy(current.Log, record)
	next.Accepting = e.machine.IsAccepting(to)
	if next.Accepting {
		// Change follows the unclamped total; the clamped level only decides acceptance.
		next.Change = next.Total - e.machine.Price()
	}
	next.Busy = e.delay > 0

	e.commit(ctx, next)
	e.logger.Debug("transition",
		"run_id", next.RunID,
		"seq", record.Seq,
		"from", record.From,
		"coin", record.Coin,
		"to", record.To,
	)
	e.emitTransition(ctx, next.RunID, record)

	if next.Accepting && !current.Accepting {
		e.logger.Info("price met", "run_id", next.RunID, "total", next.Total, "change", next.Change)
		e.emitRun(ctx, domain.EventAccept, next, e.hooks.OnAccept)
	}

	if next.Busy {
		e.startSettle()
	}
	return next.Clone(), nil
}

// Dispense delivers the product of an accepting run and freezes it.
// It is ignored unless the run is accepting, not yet delivered and not busy.
func (e *Engine) Dispense(ctx context.Context) domain.RunState {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.Snapshot()
	switch {
	case current.Busy:
		e.reject(ctx, current, "dispense", domain.RejectBusy, 0)
		return current
	case current.Delivered:
		e.reject(ctx, current, "dispense", domain.RejectDelivered, 0)
		return current
	case !current.Accepting:
		e.reject(ctx, current, "dispense", domain.RejectNotAccepting, 0)
		return current
	}

	next := current
	next.Delivered = true

	e.commit(ctx, next)
	e.logger.Info("product dispensed", "run_id", next.RunID, "change", next.Change)
	e.emitRun(ctx, domain.EventDispense, next, e.hooks.OnDispense)
	return next.Clone()
}

// Reset starts a new run. It always succeeds and cancels any outstanding delay.
func (e *Engine) Reset(ctx context.Context) domain.RunState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelSettle()

	previous := e.Snapshot()
	next := e.freshRun()

	e.commit(ctx, next)
	e.logger.Debug("run reset", "previous_run_id", previous.RunID, "run_id", next.RunID)
	e.emitRun(ctx, domain.EventReset, next, e.hooks.OnReset)
	return next.Clone()
}

// Idle blocks until no transition delay is outstanding or ctx is done.
func (e *Engine) Idle(ctx context.Context) error {
	e.mu.Lock()
	p := e.pending
	e.mu.Unlock()

	if p == nil {
		return nil
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) freshRun() domain.RunState {
	initial := e.machine.Initial()
	return domain.NewRunState(e.newRunID(), initial, e.machine.Label(initial), e.machine.Price())
}

// commit swaps the snapshot and publishes it. Caller must hold mu.
func (e *Engine) commit(ctx context.Context, next domain.RunState) {
	e.state.Store(&next)
	for _, p := range e.publishers {
		if err := p.Publish(ctx, next.Clone()); err != nil {
			e.logger.Warn("failed to publish snapshot", "run_id", next.RunID, "err", err)
		}
	}
}

// startSettle arms the delay that clears the busy flag. Caller must hold mu.
func (e *Engine) startSettle() {
	p := &settle{done: make(chan struct{})}
	p.timer = time.AfterFunc(e.delay, func() {
		e.finishSettle(p)
	})
	e.pending = p
}

func (e *Engine) finishSettle(p *settle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A reset may have cancelled this delay already.
	if e.pending != p {
		return
	}
	e.pending = nil
	close(p.done)

	next := e.Snapshot()
	next.Busy = false
	e.commit(context.Background(), next)
	e.logger.Debug("transition settled", "run_id", next.RunID)
}

// cancelSettle stops an outstanding delay. Caller must hold mu.
func (e *Engine) cancelSettle() {
	if e.pending == nil {
		return
	}
	e.pending.timer.Stop()
	close(e.pending.done)
	e.pending = nil
}

func (e *Engine) reject(ctx context.Context, state domain.RunState, op string, reason domain.RejectReason, coin domain.Coin) {
	e.logger.Debug("operation ignored", "run_id", state.RunID, "op", op, "reason", reason)
	if e.hooks.OnReject != nil {
		e.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: e.base(domain.EventReject, state.RunID),
			Operation: op,
			Reason:    reason,
			Coin:      coin,
		})
	}
}

func (e *Engine) emitTransition(ctx context.Context, runID string, record domain.TransitionRecord) {
	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: e.base(domain.EventTransition, runID),
			Record:    record,
		})
	}
}

func (e *Engine) emitRun(ctx context.Context, t domain.EventType, state domain.RunState, hook func(context.Context, *domain.RunEvent)) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.RunEvent{
		EventBase: e.base(t, state.RunID),
		Level:     state.Current,
		Total:     state.Total,
		Change:    state.Change,
	})
}

func (e *Engine) base(t domain.EventType, runID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		RunID:     runID,
	}
}

// appendCopy never writes into a slice owned by a published snapshot.
func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}
