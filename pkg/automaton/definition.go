package automaton

import (
	"fmt"
	"strings"
)

// Definition renders the formal definition and the transition table as Markdown.
func (m *Machine) Definition() string {
	var sb strings.Builder

	labels := make([]string, len(m.states))
	for i, s := range m.states {
		labels[i] = m.Label(s)
	}
	symbols := make([]string, len(m.coins))
	for i, c := range m.coins {
		symbols[i] = c.String()
	}

	sb.WriteString("# Vending Machine Automaton\n\n")
	sb.WriteString("M = (Q, Σ, δ, q0, F)\n\n")
	fmt.Fprintf(&sb, "- **Q** = {%s}\n", strings.Join(labels, ", "))
	fmt.Fprintf(&sb, "- **Σ** = {%s}\n", strings.Join(symbols, ", "))
	fmt.Fprintf(&sb, "- **q0** = %s (%s)\n", m.Label(m.Initial()), m.Initial())
	fmt.Fprintf(&sb, "- **F** = {%s} (≥ %d¢)\n", m.Label(m.Top()), m.price)
	fmt.Fprintf(&sb, "- **Price** = %d¢\n\n", m.price)

	sb.WriteString("## Transition function δ(q, a)\n\n")
	sb.WriteString("| q |")
	for _, c := range m.coins {
		fmt.Fprintf(&sb, " %s |", c)
	}
	sb.WriteString("\n|---|")
	for range m.coins {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, s := range m.states[:len(m.states)-1] {
		fmt.Fprintf(&sb, "| %s (%s) |", m.Label(s), s)
		for _, c := range m.coins {
			fmt.Fprintf(&sb, " %s |", m.Label(m.Transition(s, c)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
