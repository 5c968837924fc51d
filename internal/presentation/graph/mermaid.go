package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
)

// GraphOverlay contains dynamic run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.Level
	CurrentState  domain.Level
	Delivered     bool
}

// OverlayFromRun marks the levels a run went through.
func OverlayFromRun(run domain.RunState) *GraphOverlay {
	overlay := &GraphOverlay{
		CurrentState: run.Current,
		Delivered:    run.Delivered,
	}
	for _, rec := range run.Log {
		overlay.VisitedStates = append(overlay.VisitedStates, rec.From)
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the automaton.
// It applies semantic styling:
// - Initial: ((Circle))
// - Accepting: (((Double circle)))
// - Default: (Rounded)
// Coins leading to the same level share one edge.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(m *automaton.Machine, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range m.States() {
		id := m.Label(s)

		opener, closer := "(", ")"
		switch {
		case m.IsAccepting(s):
			opener, closer = "(((", ")))"
		case s == m.Initial():
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s<br/>%s\"%s\n", id, opener, id, s, closer))
	}

	// Table is state-major, so edges from one level are contiguous.
	type key struct{ from, to domain.Level }
	var order []key
	labels := make(map[key][]string)
	for _, e := range m.Table() {
		k := key{e.From, e.To}
		if _, ok := labels[k]; !ok {
			order = append(order, k)
		}
		labels[k] = append(labels[k], e.Coin.String())
	}
	for _, k := range order {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", m.Label(k.from), strings.Join(labels[k], ", "), m.Label(k.to)))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef delivered fill:#c8e6c9,stroke:#2e7d32,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[domain.Level]bool)
		for _, s := range overlay.VisitedStates {
			if visitedSet[s] || s == overlay.CurrentState || m.Index(s) < 0 {
				continue
			}
			visitedSet[s] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", m.Label(s)))
		}

		if m.Index(overlay.CurrentState) >= 0 {
			class := "current"
			if overlay.Delivered {
				class = "delivered"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", m.Label(overlay.CurrentState), class))
		}
	}

	return sb.String()
}
