package schema

import (
	"fmt"
	"slices"

	"github.com/aretw0/vending/pkg/domain"
)

// ValidateMachine checks that cfg defines a total, saturating automaton.
// Returns an AggregateError with all validation failures found.
func ValidateMachine(cfg domain.MachineConfig) error {
	var errs []error

	if cfg.Price <= 0 {
		errs = append(errs, &ValidationError{Key: "price", Reason: "must be positive", Value: cfg.Price})
	}

	errs = append(errs, validateCoins(cfg.Coins)...)

	ladderErrs := validateLadder(cfg.States, cfg.Price)
	errs = append(errs, ladderErrs...)

	// Closure only makes sense on a well-formed ladder and alphabet.
	if len(errs) == 0 {
		errs = append(errs, validateClosure(cfg)...)
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func validateCoins(coins []int) []error {
	if len(coins) == 0 {
		return []error{&ValidationError{Key: "coins", Reason: "required"}}
	}

	var errs []error
	seen := make(map[int]bool, len(coins))
	for i, c := range coins {
		key := fmt.Sprintf("coins[%d]", i)
		if c <= 0 {
			errs = append(errs, &ValidationError{Key: key, Reason: "must be a positive denomination", Value: c})
			continue
		}
		if seen[c] {
			errs = append(errs, &ValidationError{Key: key, Reason: "duplicate denomination", Value: c})
		}
		seen[c] = true
	}
	return errs
}

func validateLadder(states []int, price int) []error {
	if len(states) == 0 {
		return []error{&ValidationError{Key: "states", Reason: "required"}}
	}

	var errs []error
	if states[0] != 0 {
		errs = append(errs, &ValidationError{Key: "states[0]", Reason: "initial level must be zero", Value: states[0]})
	}
	for i := 1; i < len(states); i++ {
		if states[i] <= states[i-1] {
			errs = append(errs, &ValidationError{
				Key:    fmt.Sprintf("states[%d]", i),
				Reason: "levels must be strictly increasing",
				Value:  states[i],
			})
		}
	}
	if top := states[len(states)-1]; price > 0 && top != price {
		errs = append(errs, &ValidationError{
			Key:    fmt.Sprintf("states[%d]", len(states)-1),
			Reason: fmt.Sprintf("top level must equal the price %d", price),
			Value:  top,
		})
	}
	return errs
}

// validateClosure ensures the transition function never lands between two levels.
func validateClosure(cfg domain.MachineConfig) []error {
	var errs []error
	for _, s := range cfg.States {
		if s >= cfg.Price {
			continue
		}
		for _, c := range cfg.Coins {
			next := s + c
			if next >= cfg.Price || slices.Contains(cfg.States, next) {
				continue
			}
			errs = append(errs, &ValidationError{
				Key:    "states",
				Reason: fmt.Sprintf("level %d plus coin %d lands outside the ladder", s, c),
				Value:  next,
			})
		}
	}
	return errs
}
