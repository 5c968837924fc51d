package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/muesli/termenv"
)

const (
	colorCurrent   = "#facc15"
	colorVisited   = "#60a5fa"
	colorAccepting = "#4ade80"
	colorMuted     = "#6b7280"
)

// RunView renders a run for terminals.
type RunView struct {
	Machine *automaton.Machine
	Profile termenv.Profile
}

// Ladder draws the state ladder, highlighting the current level:
//
//	q0 ─ q1 ─ [q2] ─ q3 ─ q4 ─ q5 ─ ((q6))
func (v RunView) Ladder(run domain.RunState) string {
	visited := make(map[domain.Level]bool, len(run.Log))
	for _, rec := range run.Log {
		visited[rec.From] = true
	}

	parts := make([]string, 0, len(v.Machine.States()))
	for _, s := range v.Machine.States() {
		label := v.Machine.Label(s)
		if v.Machine.IsAccepting(s) {
			label = "((" + label + "))"
		}

		style := v.Profile.String(label)
		switch {
		case s == run.Current:
			color := colorCurrent
			if run.Accepting {
				color = colorAccepting
			}
			style = v.Profile.String("[" + label + "]").Bold().Foreground(v.Profile.Color(color))
		case visited[s]:
			style = style.Foreground(v.Profile.Color(colorVisited))
		default:
			style = style.Foreground(v.Profile.Color(colorMuted))
		}
		parts = append(parts, style.String())
	}
	return strings.Join(parts, " ─ ")
}

// Status summarizes the run in one line.
func (v RunView) Status(run domain.RunState) string {
	var status string
	switch {
	case run.Delivered:
		status = fmt.Sprintf("Delivered. Change: %d¢. Reset to start again.", run.Change)
	case run.Accepting:
		status = fmt.Sprintf("Price met with %d¢. Change: %d¢. Dispense to collect.", run.Total, run.Change)
	case run.Busy:
		status = "Processing..."
	default:
		status = fmt.Sprintf("Inserted %d¢, %d¢ to go.", run.Total, run.Remaining)
	}

	color := colorCurrent
	if run.Accepting {
		color = colorAccepting
	}
	return v.Profile.String(status).Foreground(v.Profile.Color(color)).String()
}

// Word renders the input word read so far, such as "10¢ · 25¢".
func (v RunView) Word(run domain.RunState) string {
	if len(run.Coins) == 0 {
		return "ε"
	}
	coins := make([]string, len(run.Coins))
	for i, c := range run.Coins {
		coins[i] = c.String()
	}
	return strings.Join(coins, " · ")
}

// Log renders one line per transition record.
func (v RunView) Log(run domain.RunState) []string {
	lines := make([]string, len(run.Log))
	for i, rec := range run.Log {
		lines[i] = fmt.Sprintf("#%d  δ(%s, %s) = %s",
			rec.Seq,
			v.Machine.Label(rec.From),
			rec.Coin,
			v.Machine.Label(rec.To),
		)
	}
	return lines
}

// Render writes the full view of a run.
func (v RunView) Render(w io.Writer, run domain.RunState) {
	fmt.Fprintln(w, v.Ladder(run))
	fmt.Fprintln(w, v.Status(run))
	fmt.Fprintf(w, "Input: %s\n", v.Word(run))
	for _, line := range v.Log(run) {
		fmt.Fprintln(w, v.Profile.String("  "+line).Foreground(v.Profile.Color(colorMuted)))
	}
}
