package domain

import "fmt"

// Level is one accumulated-value state of the automaton, in cents.
type Level int

// Coin is an input symbol: a positive coin denomination, in cents.
type Coin int

func (l Level) String() string {
	return fmt.Sprintf("%d¢", int(l))
}

func (c Coin) String() string {
	return fmt.Sprintf("%d¢", int(c))
}

// MachineConfig is the externalized definition of a machine.
// States is the ordered ladder of levels starting at zero; its last element is
// the saturating top level and must equal Price.
type MachineConfig struct {
	States []int `json:"states" yaml:"states" mapstructure:"states"`
	Coins  []int `json:"coins" yaml:"coins" mapstructure:"coins"`
	Price  int   `json:"price" yaml:"price" mapstructure:"price"`
}

// DefaultMachineConfig returns the classic 30¢ machine accepting 5¢, 10¢ and 25¢ coins.
func DefaultMachineConfig() MachineConfig {
	return MachineConfig{
		States: []int{0, 5, 10, 15, 20, 25, 30},
		Coins:  []int{5, 10, 25},
		Price:  30,
	}
}
