package automaton_test

import (
	"errors"
	"testing"

	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidDefinition(t *testing.T) {
	_, err := automaton.New(domain.MachineConfig{States: []int{0, 10}, Coins: []int{5}, Price: 10})
	require.Error(t, err)
	assert.NotEmpty(t, schema.ValidationErrors(err), "validation errors must survive wrapping")

	assert.Panics(t, func() {
		automaton.MustNew(domain.MachineConfig{})
	})
}

func TestTransition_SaturatingLaw(t *testing.T) {
	m := automaton.Default()
	top := int(m.Top())

	for _, s := range m.States() {
		for _, c := range m.Alphabet() {
			want := min(top, int(s)+int(c))
			got := m.Transition(s, c)
			assert.Equal(t, domain.Level(want), got, "δ(%v, %v)", s, c)
			assert.GreaterOrEqual(t, got, s, "δ must be monotone")
			assert.NotEqual(t, -1, m.Index(got), "δ(%v, %v) must stay on the ladder", s, c)
		}
	}
}

func TestTransition_TopIsAbsorbing(t *testing.T) {
	m := automaton.Default()
	for _, c := range m.Alphabet() {
		assert.Equal(t, m.Top(), m.Transition(m.Top(), c))
	}
}

func TestIsAccepting_OnlyTop(t *testing.T) {
	m := automaton.Default()
	for _, s := range m.States() {
		assert.Equal(t, s == m.Top(), m.IsAccepting(s), "state %v", s)
	}
}

func TestRun_Scenarios(t *testing.T) {
	m := automaton.Default()

	tests := []struct {
		name    string
		word    []domain.Coin
		want    domain.Level
		accepts bool
	}{
		{"Empty Word", nil, 0, false},
		{"Ten Then Quarter", []domain.Coin{10, 25}, 30, true},
		{"Six Nickels", []domain.Coin{5, 5, 5, 5, 5, 5}, 30, true},
		{"Five Nickels", []domain.Coin{5, 5, 5, 5, 5}, 25, false},
		{"Single Quarter", []domain.Coin{25}, 25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Run(tt.word))
			assert.Equal(t, tt.accepts, m.Accepts(tt.word))
		})
	}
}

func TestCheckSymbol(t *testing.T) {
	m := automaton.Default()

	assert.NoError(t, m.CheckSymbol(25))

	err := m.CheckSymbol(50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidSymbol))

	var symErr *domain.InvalidSymbolError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, domain.Coin(50), symErr.Coin)
	assert.Equal(t, []domain.Coin{5, 10, 25}, symErr.Alphabet)
}

func TestLabelsAndRemaining(t *testing.T) {
	m := automaton.Default()

	assert.Equal(t, "q0", m.Label(0))
	assert.Equal(t, "q6", m.Label(30))
	assert.Equal(t, "7¢", m.Label(7))
	assert.Equal(t, 30, m.Remaining(0))
	assert.Equal(t, 5, m.Remaining(25))
	assert.Equal(t, 0, m.Remaining(30))
}

func TestTable(t *testing.T) {
	m := automaton.Default()
	table := m.Table()

	require.Len(t, table, (len(m.States())-1)*len(m.Alphabet()))
	assert.Equal(t, automaton.Edge{From: 0, Coin: 5, To: 5}, table[0])
	assert.Equal(t, automaton.Edge{From: 10, Coin: 25, To: 30}, table[8])
	assert.Equal(t, automaton.Edge{From: 25, Coin: 25, To: 30}, table[len(table)-1])

	for _, e := range table {
		assert.NotEqual(t, m.Top(), e.From, "the absorbing top level has no row")
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	cfg := domain.MachineConfig{States: []int{0, 25, 50}, Coins: []int{50, 25}, Price: 50}
	m := automaton.MustNew(cfg)

	got := m.Config()
	assert.Equal(t, []int{25, 50}, got.Coins, "alphabet is kept sorted")
	assert.Equal(t, cfg.States, got.States)
	assert.Equal(t, 50, got.Price)
}

func TestDefinition(t *testing.T) {
	def := automaton.Default().Definition()

	assert.Contains(t, def, "M = (Q, Σ, δ, q0, F)")
	assert.Contains(t, def, "**Q** = {q0, q1, q2, q3, q4, q5, q6}")
	assert.Contains(t, def, "**Σ** = {5¢, 10¢, 25¢}")
	assert.Contains(t, def, "**F** = {q6} (≥ 30¢)")
	assert.Contains(t, def, "| q1 (5¢) | q2 | q3 | q6 |")
	assert.Contains(t, def, "| q5 (25¢) | q6 | q6 | q6 |")
	assert.NotContains(t, def, "| q6 (30¢) |")
}

func TestSummary(t *testing.T) {
	sum := automaton.Default().Summary()

	assert.Equal(t, []string{"q0", "q1", "q2", "q3", "q4", "q5", "q6"}, sum.Labels)
	assert.Equal(t, []domain.Level{30}, sum.Accepting)
	assert.Equal(t, domain.Level(0), sum.Initial)
	assert.Len(t, sum.Table, 18)
}
