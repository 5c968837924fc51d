package automaton

import (
	"fmt"
	"slices"

	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/schema"
)

// Machine is an immutable vending automaton.
type Machine struct {
	states []domain.Level
	coins  []domain.Coin
	price  int
	index  map[domain.Level]int
}

// New validates cfg and builds the automaton it describes.
func New(cfg domain.MachineConfig) (*Machine, error) {
	if err := schema.ValidateMachine(cfg); err != nil {
		return nil, fmt.Errorf("invalid machine definition: %w", err)
	}

	m := &Machine{
		states: make([]domain.Level, len(cfg.States)),
		coins:  make([]domain.Coin, len(cfg.Coins)),
		price:  cfg.Price,
		index:  make(map[domain.Level]int, len(cfg.States)),
	}
	for i, s := range cfg.States {
		m.states[i] = domain.Level(s)
		m.index[domain.Level(s)] = i
	}
	for i, c := range cfg.Coins {
		m.coins[i] = domain.Coin(c)
	}
	slices.Sort(m.coins)
	return m, nil
}

// MustNew is like New but panics on an invalid definition.
func MustNew(cfg domain.MachineConfig) *Machine {
	m, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// Default returns the 30¢ machine with the {5¢, 10¢, 25¢} alphabet.
func Default() *Machine {
	return MustNew(domain.DefaultMachineConfig())
}

// Config returns the definition the machine was built from.
func (m *Machine) Config() domain.MachineConfig {
	cfg := domain.MachineConfig{
		States: make([]int, len(m.states)),
		Coins:  make([]int, len(m.coins)),
		Price:  m.price,
	}
	for i, s := range m.states {
		cfg.States[i] = int(s)
	}
	for i, c := range m.coins {
		cfg.Coins[i] = int(c)
	}
	return cfg
}

// States returns the ordered state set Q.
func (m *Machine) States() []domain.Level { return slices.Clone(m.states) }

// Alphabet returns the coin alphabet Σ in ascending order.
func (m *Machine) Alphabet() []domain.Coin { return slices.Clone(m.coins) }

// Price returns the acceptance threshold.
func (m *Machine) Price() int { return m.price }

// Initial returns q0.
func (m *Machine) Initial() domain.Level { return m.states[0] }

// Top returns the saturating, absorbing accepting level.
func (m *Machine) Top() domain.Level { return m.states[len(m.states)-1] }

// Transition computes δ(s, c) = min(top, s + c). It is total: it never fails,
// for any level and any coin.
func (m *Machine) Transition(s domain.Level, c domain.Coin) domain.Level {
	next := int(s) + int(c)
	if next >= int(m.Top()) {
		return m.Top()
	}
	return domain.Level(next)
}

// IsAccepting reports whether s has met the price.
func (m *Machine) IsAccepting(s domain.Level) bool {
	return int(s) >= m.price
}

// Run folds δ over the word starting at q0 (the extended transition δ*).
func (m *Machine) Run(word []domain.Coin) domain.Level {
	s := m.Initial()
	for _, c := range word {
		s = m.Transition(s, c)
	}
	return s
}

// Accepts reports whether the word drives the machine into F.
func (m *Machine) Accepts(word []domain.Coin) bool {
	return m.IsAccepting(m.Run(word))
}

// Contains reports whether c belongs to the alphabet.
func (m *Machine) Contains(c domain.Coin) bool {
	return slices.Contains(m.coins, c)
}

// CheckSymbol returns an InvalidSymbolError when c is outside the alphabet.
func (m *Machine) CheckSymbol(c domain.Coin) error {
	if m.Contains(c) {
		return nil
	}
	return &domain.InvalidSymbolError{Coin: c, Alphabet: m.Alphabet()}
}

// Index returns the position of s in the ladder, or -1.
func (m *Machine) Index(s domain.Level) int {
	if i, ok := m.index[s]; ok {
		return i
	}
	return -1
}

// Label names s after its ladder position (q0, q1, ...).
func (m *Machine) Label(s domain.Level) string {
	if i := m.Index(s); i >= 0 {
		return fmt.Sprintf("q%d", i)
	}
	return s.String()
}

// Remaining returns the amount still missing from s to the price.
func (m *Machine) Remaining(s domain.Level) int {
	return max(m.price-int(s), 0)
}

// Edge is one entry of the transition table.
type Edge struct {
	From domain.Level `json:"from"`
	Coin domain.Coin  `json:"coin"`
	To   domain.Level `json:"to"`
}

// Table enumerates δ over (Q \ {top}) × Σ, state-major, in ladder and
// alphabet order. The absorbing top level has no row.
func (m *Machine) Table() []Edge {
	rows := m.states[:len(m.states)-1]
	edges := make([]Edge, 0, len(rows)*len(m.coins))
	for _, s := range rows {
		for _, c := range m.coins {
			edges = append(edges, Edge{From: s, Coin: c, To: m.Transition(s, c)})
		}
	}
	return edges
}

// Summary is the serializable view of a machine.
type Summary struct {
	States    []domain.Level `json:"states"`
	Labels    []string       `json:"labels"`
	Coins     []domain.Coin  `json:"coins"`
	Price     int            `json:"price"`
	Initial   domain.Level   `json:"initial"`
	Accepting []domain.Level `json:"accepting"`
	Table     []Edge         `json:"table"`
}

// Summary describes the machine for hosts that render or export it.
func (m *Machine) Summary() Summary {
	sum := Summary{
		States:  m.States(),
		Coins:   m.Alphabet(),
		Price:   m.price,
		Initial: m.Initial(),
		Table:   m.Table(),
	}
	for _, s := range m.states {
		sum.Labels = append(sum.Labels, m.Label(s))
		if m.IsAccepting(s) {
			sum.Accepting = append(sum.Accepting, s)
		}
	}
	return sum
}
