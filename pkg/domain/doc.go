/*
Package domain contains the core domain models of the vending automaton.

It defines the alphabet and state types of the machine, the immutable run
snapshot and its transition log, lifecycle events and the error taxonomy.
This package is kept pure and free of external dependencies like I/O,
configuration parsing or transport concerns.

# Key Entities

  - Level: an accumulated-value state of the automaton (cents).
  - Coin: an input symbol (a coin denomination in cents).
  - TransitionRecord: one consumed coin, from one level to the next.
  - RunState: the snapshot of a run (current level, log, change, flags).
  - MachineConfig: the data that defines a machine (ladder, alphabet, price).
*/
package domain
