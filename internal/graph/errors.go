package graph

import "errors"

// Domain errors for graph wiring and evaluation.
var (
	// ErrCycle indicates a plug would make the dependency graph cyclic.
	ErrCycle = errors.New("graph: dependency cycle")

	// ErrSelfPlug indicates an attempt to plug a signal into itself.
	ErrSelfPlug = errors.New("graph: signal plugged into itself")

	// ErrKindMismatch indicates a plug between signals of different kinds.
	ErrKindMismatch = errors.New("graph: plug between vector and matrix signals")

	// ErrNoValue indicates a leaf signal recomputed before any value was set.
	ErrNoValue = errors.New("graph: signal has no value")
)

// EvalError wraps a failure while recomputing a signal, naming the node.
type EvalError struct {
	Signal  string
	Time    int
	Wrapped error
}

func (e *EvalError) Error() string {
	return "graph: recompute " + e.Signal + ": " + e.Wrapped.Error()
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}
