/*
Package vending is a deterministic finite automaton (DFA) that models a coin-operated vending machine.

Coins are the input symbols, the accumulated value is the state, and reaching the price is acceptance.
The engine owns the single run of the machine: it applies the transition function, keeps the ordered
transition log and exposes immutable snapshots that presentation hosts (terminal, HTTP, MCP) render.

# Concept

The machine is the 5-tuple M = (Q, Σ, δ, q0, F):

  - Q is a ladder of accumulated values, 0 up to the price. The top level is absorbing.
  - Σ is the coin alphabet, 5¢, 10¢ and 25¢ by default.
  - δ(q, a) = min(top, q + a).
  - q0 is 0 and F holds the top level only.

The clamped level decides acceptance while the unclamped total decides the change handed back.
Once the product is dispensed the run is frozen until Reset.

# Usage

	eng, err := vending.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	eng.InsertCoin(ctx, 10)
	state, _ := eng.InsertCoin(ctx, 25)
	fmt.Println(state.Label, state.Change) // q6 5

	state = eng.Dispense(ctx)
	fmt.Println(state.Delivered) // true

Misuse such as inserting after delivery or dispensing before the price is met is silently ignored:
the unchanged snapshot is returned. Only coins outside the alphabet fail, with *domain.InvalidSymbolError.

# Configuration

A different machine can be described with domain.MachineConfig (see pkg/config for YAML and JSON files):

	eng, err := vending.New(vending.WithConfig(domain.MachineConfig{
		States: []int{0, 10, 20, 30, 40},
		Coins:  []int{10, 20},
		Price:  40,
	}))

# Presentation delay

WithAnimationDelay keeps the run busy for a while after each coin. Insertions and dispensing are
ignored while busy, Reset cancels the delay and Idle waits for it.
*/
package vending
