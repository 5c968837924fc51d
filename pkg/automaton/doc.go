/*
Package automaton implements the vending machine as a deterministic finite automaton.

A Machine is the 5-tuple M = (Q, Σ, δ, q0, F) built from a validated
domain.MachineConfig:

  - Q is the ladder of accumulated-value levels.
  - Σ is the coin alphabet.
  - δ(q, a) = min(top, q + a) is monotone and saturating.
  - q0 is the zero level.
  - F = {top}: the only level at or above the price.

Every function of Machine is pure. Run-level bookkeeping (log, change,
delivery) lives in the runtime engine.
*/
package automaton
