package domain

// StateDiff represents the changes between two run snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// RunID is always present to identify the target.
	RunID string `json:"run_id"`

	// Reset is true when the diff starts a new run; clients drop their local log.
	Reset bool `json:"reset,omitempty"`

	Current   *Level  `json:"current,omitempty"`
	Label     *string `json:"label,omitempty"`
	Accepting *bool   `json:"accepting,omitempty"`
	Delivered *bool   `json:"delivered,omitempty"`
	Change    *int    `json:"change,omitempty"`
	Total     *int    `json:"total,omitempty"`
	Remaining *int    `json:"remaining,omitempty"`
	Busy      *bool   `json:"busy,omitempty"`

	// Appended contains the new transition records since the old snapshot.
	Appended []TransitionRecord `json:"appended,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, or newState belongs to another run, it returns a diff
// representing the entire newState.
func Diff(oldState, newState *RunState) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		RunID: newState.RunID,
	}

	if oldState == nil || oldState.RunID != newState.RunID {
		diff.Reset = oldState != nil
		oldState = nil
	}

	if oldState == nil || oldState.Current != newState.Current {
		diff.Current = ptr(newState.Current)
	}
	if oldState == nil || oldState.Label != newState.Label {
		diff.Label = ptr(newState.Label)
	}
	if oldState == nil || oldState.Accepting != newState.Accepting {
		diff.Accepting = ptr(newState.Accepting)
	}
	if oldState == nil || oldState.Delivered != newState.Delivered {
		diff.Delivered = ptr(newState.Delivered)
	}
	if oldState == nil || oldState.Change != newState.Change {
		diff.Change = ptr(newState.Change)
	}
	if oldState == nil || oldState.Total != newState.Total {
		diff.Total = ptr(newState.Total)
	}
	if oldState == nil || oldState.Remaining != newState.Remaining {
		diff.Remaining = ptr(newState.Remaining)
	}
	if oldState == nil || oldState.Busy != newState.Busy {
		diff.Busy = ptr(newState.Busy)
	}

	diff.Appended = diffLog(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffLog assumes the log is append-only within a run.
func diffLog(old *RunState, new *RunState) []TransitionRecord {
	if len(new.Log) == 0 {
		return nil
	}
	if old == nil {
		return new.Log
	}
	if len(new.Log) > len(old.Log) {
		return new.Log[len(old.Log):]
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return !d.Reset &&
		d.Current == nil &&
		d.Label == nil &&
		d.Accepting == nil &&
		d.Delivered == nil &&
		d.Change == nil &&
		d.Total == nil &&
		d.Remaining == nil &&
		d.Busy == nil &&
		len(d.Appended) == 0
}

func ptr[T any](v T) *T {
	return &v
}
