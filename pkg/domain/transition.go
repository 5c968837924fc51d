package domain

import "time"

// TransitionRecord is the immutable trace of one accepted coin insertion.
// Seq is the 1-based position of the record in the run log.
type TransitionRecord struct {
	Seq  int       `json:"seq"`
	From Level     `json:"from"`
	To   Level     `json:"to"`
	Coin Coin      `json:"coin"`
	At   time.Time `json:"at"`
}
