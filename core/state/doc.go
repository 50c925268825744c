// Package state defines PipelineState as an immutable value with rich
// variant data, following the design note that a state machine should
// return new values from a pure transition predicate rather than mutate an
// object in place. This sidesteps the races common to object-oriented state
// machines: can_transition is pure and every transition produces a fresh
// value instead of mutating shared state under a lock.
package state
