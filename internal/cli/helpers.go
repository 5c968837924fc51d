package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/vending/internal/logging"
	"github.com/aretw0/vending/internal/presentation/tui"
	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/muesli/termenv"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
		sc.stop.Do(func() {
			signal.Stop(sc.sigCh)
		})
	}()

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout flow UI).
func createLogger(debug bool, format string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug, logging.Format(format))
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// isInterrupted reports whether err only signals a cancelled run.
func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// viewRenderer adapts a RunView to the runner's string renderer.
func viewRenderer(m *automaton.Machine, profile termenv.Profile) func(domain.RunState) string {
	view := tui.RunView{Machine: m, Profile: profile}
	return func(run domain.RunState) string {
		var b strings.Builder
		view.Render(&b, run)
		return strings.TrimRight(b.String(), "\n")
	}
}

// logCompletion prints how an interactive run ended.
func logCompletion(w io.Writer, sig os.Signal, run domain.RunState, err error) {
	if err == nil {
		printSystemMessage(w, "Session ended at %s.", run.Label)
		return
	}
	if !isInterrupted(err) {
		return
	}
	if sig == os.Interrupt {
		fmt.Fprintf(w, "[CTRL+C]\n")
		printSystemMessage(w, "Interrupted at %s.", run.Label)
		return
	}
	fmt.Fprintln(w)
	printSystemMessage(w, "Terminated at %s.", run.Label)
}
