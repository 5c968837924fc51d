package runner

import (
	"context"

	"github.com/aretw0/vending/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the current run to the user.
	Output(ctx context.Context, run domain.RunState) error

	// Input reads one command from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (help, errors, notices).
	// This is distinct from rendering the run.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms a run into display text.
// This allows for TUI rendering without coupling the runner to a terminal library.
type ContentRenderer func(domain.RunState) string
