package vending

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/vending/internal/runtime"
	"github.com/aretw0/vending/pkg/adapters/memory"
	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/ports"
)

// DefaultAnimationDelay is the busy window a machine animates
// between two transitions. Engines default to no delay; hosts opt in.
const DefaultAnimationDelay = 500 * time.Millisecond

// Aliases for the domain types most hosts need.
type (
	Coin     = domain.Coin
	Level    = domain.Level
	RunState = domain.RunState
)

// Engine is the high-level entry point for the vending library.
// It wraps the internal runtime and fans every snapshot out to subscribers.
type Engine struct {
	runtime     *runtime.Engine
	broadcaster *memory.Broadcaster
	config      *domain.MachineConfig
	machine     *automaton.Machine
	hooks       []domain.LifecycleHooks
	publishers  []ports.RunPublisher
	runtimeOpts []runtime.EngineOption
	logger      *slog.Logger
}

var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithConfig builds the machine from a configuration. It is validated by New.
func WithConfig(cfg domain.MachineConfig) Option {
	return func(e *Engine) {
		e.config = &cfg
	}
}

// WithMachine uses an already validated machine. It takes precedence over WithConfig.
func WithMachine(m *automaton.Machine) Option {
	return func(e *Engine) {
		e.machine = m
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. It can be given more than
// once; hooks run in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithAnimationDelay keeps the run busy for d after each accepted coin.
func WithAnimationDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDelay(d))
	}
}

// WithPublisher forwards every committed snapshot to an external publisher,
// such as the redis adapter.
func WithPublisher(p ports.RunPublisher) Option {
	return func(e *Engine) {
		e.publishers = append(e.publishers, p)
	}
}

// WithRuntimeOptions passes low-level options to the internal runtime.
func WithRuntimeOptions(opts ...runtime.EngineOption) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, opts...)
	}
}

// New initializes a vending Engine. Without WithConfig or WithMachine it runs
// the default machine: coins 5, 10 and 25 with a price of 30.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.machine == nil {
		cfg := domain.DefaultMachineConfig()
		if eng.config != nil {
			cfg = *eng.config
		}
		m, err := automaton.New(cfg)
		if err != nil {
			return nil, err
		}
		eng.machine = m
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	eng.logger = eng.logger.With("price", eng.machine.Price())

	eng.broadcaster = memory.NewBroadcaster(memory.WithLogger(eng.logger))

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithPublisher(eng.broadcaster),
	}
	if len(eng.hooks) > 0 {
		runtimeOpts = append(runtimeOpts, runtime.WithLifecycleHooks(domain.ComposeHooks(eng.hooks...)))
	}
	for _, p := range eng.publishers {
		runtimeOpts = append(runtimeOpts, runtime.WithPublisher(p))
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(eng.machine, runtimeOpts...)
	return eng, nil
}

// InsertCoin feeds one coin to the machine.
func (e *Engine) InsertCoin(ctx context.Context, coin domain.Coin) (domain.RunState, error) {
	return e.runtime.InsertCoin(ctx, coin)
}

// Dispense delivers the product if the price has been met.
func (e *Engine) Dispense(ctx context.Context) domain.RunState {
	return e.runtime.Dispense(ctx)
}

// Reset starts a new run.
func (e *Engine) Reset(ctx context.Context) domain.RunState {
	return e.runtime.Reset(ctx)
}

// Snapshot returns the current run.
func (e *Engine) Snapshot() domain.RunState {
	return e.runtime.Snapshot()
}

// Idle blocks until the animation delay of the last coin has elapsed.
func (e *Engine) Idle(ctx context.Context) error {
	return e.runtime.Idle(ctx)
}

// Machine returns the automaton definition.
func (e *Engine) Machine() *automaton.Machine {
	return e.machine
}

// Subscribe streams every new snapshot until ctx is done or the engine is closed.
func (e *Engine) Subscribe(ctx context.Context) (<-chan domain.RunState, error) {
	return e.broadcaster.Subscribe(ctx)
}

// Close ends all subscriptions.
func (e *Engine) Close() error {
	return e.broadcaster.Close()
}
