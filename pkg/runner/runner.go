package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/ports"
)

// Engine is what the runner drives: the port every adapter uses plus Idle,
// so the loop can wait for a transition to settle before reading more input.
type Engine interface {
	ports.Engine
	Idle(ctx context.Context) error
}

// Runner handles the interaction loop of a vending engine using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Headless suppresses the greeting and usage hints.
	Headless bool

	engine Engine
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads commands until the input ends, the user exits or ctx is done.
// An exhausted input or an exit command is a normal termination.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return errors.New("runner: engine is required")
	}
	handler := r.resolveHandler()

	if !r.Headless {
		if err := handler.SystemOutput(ctx, HelpText); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
	if err := handler.Output(ctx, r.engine.Snapshot()); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		text, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				r.Logger.Debug("Runner input: Context cancelled", "err", ctx.Err())
				return ctx.Err()
			}
			return fmt.Errorf("input error: %w", err)
		}

		cmd, err := ParseCommand(text)
		if err != nil {
			if err := handler.SystemOutput(ctx, err.Error()+" (type 'help' for commands)"); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}
		if cmd.Kind == CommandExit {
			return nil
		}

		if err := r.Execute(ctx, handler, cmd); err != nil {
			return err
		}
	}
}

// Execute applies one command and presents the outcome through handler.
// Ignored operations are explained with a system message.
func (r *Runner) Execute(ctx context.Context, handler IOHandler, cmd Command) error {
	before := r.engine.Snapshot()

	var (
		state domain.RunState
		err   error
	)
	switch cmd.Kind {
	case CommandInsert:
		state, err = r.engine.InsertCoin(ctx, cmd.Coin)
		if err != nil {
			var symErr *domain.InvalidSymbolError
			if errors.As(err, &symErr) {
				return handler.SystemOutput(ctx, fmt.Sprintf("Coin %s not accepted. Use one of %v.", symErr.Coin, symErr.Alphabet))
			}
			return err
		}
		if !before.CanInsert() {
			if err := handler.SystemOutput(ctx, rejectInsertReason(before)); err != nil {
				return err
			}
		}
	case CommandDispense:
		state = r.engine.Dispense(ctx)
		if !before.CanDispense() {
			if err := handler.SystemOutput(ctx, rejectDispenseReason(before)); err != nil {
				return err
			}
		}
	case CommandReset:
		state = r.engine.Reset(ctx)
	case CommandState:
		state = r.engine.Snapshot()
	case CommandHelp:
		return handler.SystemOutput(ctx, HelpText)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
	}

	r.Logger.Debug("command applied", "command", cmd.Kind, "level", int(state.Current))
	if err := handler.Output(ctx, state); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	if state.Busy {
		if err := r.engine.Idle(ctx); err != nil {
			return err
		}
		if err := handler.Output(ctx, r.engine.Snapshot()); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
	return nil
}

func rejectInsertReason(run domain.RunState) string {
	if run.Delivered {
		return "Product already delivered. Reset to insert more coins."
	}
	return "Machine is busy, coin ignored."
}

func rejectDispenseReason(run domain.RunState) string {
	switch {
	case run.Busy:
		return "Machine is busy, try again."
	case run.Delivered:
		return "Product already delivered."
	default:
		return fmt.Sprintf("Insert %d¢ more before dispensing.", run.Remaining)
	}
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	// Memoize to prevent creating new Pumps on subsequent Run() calls
	r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	return r.Handler
}
