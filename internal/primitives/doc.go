// Package primitives provides the foundational data structures for the
// table-driven dispatch engine.
//
// It defines the identifier types, the three descriptor kinds (states,
// transitions and free events), the TableConfig that groups them into
// ordered tables, and the builder/binding helpers used to populate a table
// before a machine is initialised.
//
// Core invariants:
//   - Tables are populated once and never mutated after a machine uses them
//   - Registration order is significant: lookups are first-match-wins
//   - StateID 0 (AnyState) and EventID 0 (NoEvent) are reserved
package primitives
