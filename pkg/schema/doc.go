// Package schema validates machine definitions before an automaton is built.
//
// A definition is valid when it describes a total, deterministic, saturating
// automaton: the ladder starts at zero and ends at the price, every coin is a
// positive, distinct denomination, and every non-top level plus any coin lands
// either on another level of the ladder or at or above the price.
//
// Basic usage:
//
//	cfg := domain.MachineConfig{
//	    States: []int{0, 5, 10, 15, 20, 25, 30},
//	    Coins:  []int{5, 10, 25},
//	    Price:  30,
//	}
//
//	if err := schema.ValidateMachine(cfg); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
//
// All failures are collected into a single AggregateError so a broken
// configuration file can be fixed in one pass.
package schema
