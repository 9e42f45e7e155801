// Package graph provides the signal dependency graph that drives robot
// computations.
//
// A [Signal] is a named, recomputable value node. Signals are either leaves,
// whose values are set directly, or derived, whose values are produced by a
// compute function reading other signals:
//
//   - [VectorSignal]: vector-valued node (configuration, CoM, error vectors)
//   - [MatrixSignal]: matrix-valued node (Jacobians)
//
// [Plug] establishes sink := source for subsequent recomputations. Dependency
// edges are fixed once wired; Plug rejects self-loops and cycles.
//
// # Evaluation
//
// Recompute(t) is a synchronous, demand-driven pull: it first recomputes every
// dependency at time t, then the signal itself. A signal already evaluated at
// t is not evaluated again, so diamond-shaped dependency graphs stay cheap.
// The graph is single-threaded; nothing here locks.
package graph
