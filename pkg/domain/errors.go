package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidSymbol is matched by every InvalidSymbolError.
var ErrInvalidSymbol = errors.New("invalid input symbol")

// ErrPublisherClosed is returned when publishing to a closed snapshot publisher.
var ErrPublisherClosed = errors.New("publisher closed")

// InvalidSymbolError is returned when a coin outside the configured alphabet is inserted.
// It signals a programming error in the caller, not a user condition.
type InvalidSymbolError struct {
	Coin     Coin
	Alphabet []Coin
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("coin %d is not in the alphabet %v", int(e.Coin), e.Alphabet)
}

// Is makes errors.Is(err, ErrInvalidSymbol) match.
func (e *InvalidSymbolError) Is(target error) bool {
	return target == ErrInvalidSymbol
}
