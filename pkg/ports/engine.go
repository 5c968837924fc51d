package ports

import (
	"context"

	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
)

// Engine defines the contract presentation adapters use to drive a machine.
// Misuse (inserting after delivery, dispensing before acceptance, acting while
// busy) is not an error: the unchanged snapshot is returned.
type Engine interface {
	// InsertCoin consumes one input symbol. It fails only for coins outside the alphabet.
	InsertCoin(ctx context.Context, coin domain.Coin) (domain.RunState, error)

	// Dispense delivers the product and freezes the run.
	Dispense(ctx context.Context) domain.RunState

	// Reset starts a new run, cancelling any outstanding delay.
	Reset(ctx context.Context) domain.RunState

	// Snapshot returns the current run without changing it.
	Snapshot() domain.RunState

	// Machine returns the automaton definition.
	Machine() *automaton.Machine

	// Subscribe streams every new snapshot until ctx is done.
	Subscribe(ctx context.Context) (<-chan domain.RunState, error)
}
