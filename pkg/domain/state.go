package domain

import "slices"

// RejectReason explains why an operation was ignored by the engine.
type RejectReason string

const (
	RejectDelivered    RejectReason = "delivered"     // Run is frozen until reset
	RejectBusy         RejectReason = "busy"          // A transition delay is still outstanding
	RejectNotAccepting RejectReason = "not_accepting" // Dispense before the price was met
)

// RunState is the snapshot of a run.
//
// Snapshots are values replaced as a whole on every engine operation. The
// engine keeps its own copy and hands out clones, so callers may modify
// what they receive.
type RunState struct {
	// RunID identifies the run since the last reset.
	RunID string `json:"run_id"`

	// Current is the clamped level: min(top, Total).
	Current Level `json:"current"`

	// Label is the state name of Current in the ladder (q0, q1, ...).
	Label string `json:"label"`

	// Accepting is true once the price has been met.
	Accepting bool `json:"accepting"`

	// Delivered is set by a successful dispense and freezes the run.
	Delivered bool `json:"delivered"`

	// Change is Total - price once accepting, zero otherwise.
	Change int `json:"change"`

	// Total is the unclamped sum of all coins inserted in this run.
	Total int `json:"total"`

	// Remaining is the amount still missing to reach the price.
	Remaining int `json:"remaining"`

	// Coins is the input word consumed so far.
	Coins []Coin `json:"coins"`

	// Log holds one record per accepted insertion, in order.
	Log []TransitionRecord `json:"log"`

	// Busy is true while a transition delay is outstanding.
	Busy bool `json:"busy"`
}

// NewRunState creates the initial snapshot of a run.
func NewRunState(runID string, initial Level, label string, price int) RunState {
	return RunState{
		RunID:     runID,
		Current:   initial,
		Label:     label,
		Remaining: max(price-int(initial), 0),
		Coins:     []Coin{},
		Log:       []TransitionRecord{},
	}
}

// Clone returns a deep copy of the snapshot.
func (s RunState) Clone() RunState {
	s.Coins = slices.Clone(s.Coins)
	s.Log = slices.Clone(s.Log)
	if s.Coins == nil {
		s.Coins = []Coin{}
	}
	if s.Log == nil {
		s.Log = []TransitionRecord{}
	}
	return s
}

// CanInsert reports whether a coin insertion would currently be accepted.
func (s RunState) CanInsert() bool {
	return !s.Delivered && !s.Busy
}

// CanDispense reports whether a dispense would currently be accepted.
func (s RunState) CanDispense() bool {
	return s.Accepting && !s.Delivered && !s.Busy
}
