package graph

import "gonum.org/v1/gonum/mat"

// Signal is a named node in the dependency graph. Recompute(t) evaluates the
// node at time index t, pulling every dependency first. Evaluation at a time
// index the node has already seen is a no-op.
type Signal interface {
	Name() string
	Recompute(t int) error

	dependencies() []Signal
	pluggedSource() Signal
	setSource(src Signal) error
}

// VectorSignal carries a Vector value. A leaf signal holds whatever was last
// Set; a derived signal evaluates its compute function; a plugged signal
// copies its source.
type VectorSignal struct {
	name     string
	deps     []Signal
	fn       func(t int) (Vector, error)
	src      *VectorSignal
	value    Vector
	hasValue bool
	evalAt   int
}

// NewVector returns a leaf vector signal with no value yet.
func NewVector(name string) *VectorSignal {
	return &VectorSignal{name: name, evalAt: -1}
}

// DerivedVector returns a vector signal computed by fn. The listed deps are
// recomputed before fn runs; fn reads their values.
func DerivedVector(name string, fn func(t int) (Vector, error), deps ...Signal) *VectorSignal {
	return &VectorSignal{name: name, fn: fn, deps: deps, evalAt: -1}
}

func (s *VectorSignal) Name() string { return s.name }

// Value returns the current value without recomputing.
func (s *VectorSignal) Value() Vector { return s.value }

// Set assigns a value directly. On a leaf signal the value persists until the
// next Set; on a derived or plugged signal it holds only until the next
// recomputation overwrites it.
func (s *VectorSignal) Set(v Vector) {
	s.value = v
	s.hasValue = true
}

func (s *VectorSignal) Recompute(t int) error {
	if s.evalAt == t {
		return nil
	}
	for _, d := range s.deps {
		if err := d.Recompute(t); err != nil {
			return err
		}
	}
	switch {
	case s.src != nil:
		if err := s.src.Recompute(t); err != nil {
			return err
		}
		s.value = s.src.Value().Clone()
		s.hasValue = true
	case s.fn != nil:
		v, err := s.fn(t)
		if err != nil {
			return &EvalError{Signal: s.name, Time: t, Wrapped: err}
		}
		s.value = v
		s.hasValue = true
	default:
		if !s.hasValue {
			return &EvalError{Signal: s.name, Time: t, Wrapped: ErrNoValue}
		}
	}
	s.evalAt = t
	return nil
}

func (s *VectorSignal) dependencies() []Signal { return s.deps }

func (s *VectorSignal) pluggedSource() Signal {
	if s.src == nil {
		return nil
	}
	return s.src
}

func (s *VectorSignal) setSource(src Signal) error {
	vs, ok := src.(*VectorSignal)
	if !ok {
		return ErrKindMismatch
	}
	s.src = vs
	s.evalAt = -1
	return nil
}

// MatrixSignal carries a dense matrix value, typically a Jacobian.
type MatrixSignal struct {
	name     string
	deps     []Signal
	fn       func(t int) (*mat.Dense, error)
	src      *MatrixSignal
	value    *mat.Dense
	hasValue bool
	evalAt   int
}

// NewMatrix returns a leaf matrix signal with no value yet.
func NewMatrix(name string) *MatrixSignal {
	return &MatrixSignal{name: name, evalAt: -1}
}

// DerivedMatrix returns a matrix signal computed by fn after its deps.
func DerivedMatrix(name string, fn func(t int) (*mat.Dense, error), deps ...Signal) *MatrixSignal {
	return &MatrixSignal{name: name, fn: fn, deps: deps, evalAt: -1}
}

func (s *MatrixSignal) Name() string { return s.name }

// Value returns the current value without recomputing.
func (s *MatrixSignal) Value() *mat.Dense { return s.value }

// Set assigns a value directly; see VectorSignal.Set for the override rules.
func (s *MatrixSignal) Set(m *mat.Dense) {
	s.value = m
	s.hasValue = true
}

func (s *MatrixSignal) Recompute(t int) error {
	if s.evalAt == t {
		return nil
	}
	for _, d := range s.deps {
		if err := d.Recompute(t); err != nil {
			return err
		}
	}
	switch {
	case s.src != nil:
		if err := s.src.Recompute(t); err != nil {
			return err
		}
		s.value = mat.DenseCopyOf(s.src.Value())
		s.hasValue = true
	case s.fn != nil:
		m, err := s.fn(t)
		if err != nil {
			return &EvalError{Signal: s.name, Time: t, Wrapped: err}
		}
		s.value = m
		s.hasValue = true
	default:
		if !s.hasValue {
			return &EvalError{Signal: s.name, Time: t, Wrapped: ErrNoValue}
		}
	}
	s.evalAt = t
	return nil
}

func (s *MatrixSignal) dependencies() []Signal { return s.deps }

func (s *MatrixSignal) pluggedSource() Signal {
	if s.src == nil {
		return nil
	}
	return s.src
}

func (s *MatrixSignal) setSource(src Signal) error {
	ms, ok := src.(*MatrixSignal)
	if !ok {
		return ErrKindMismatch
	}
	s.src = ms
	s.evalAt = -1
	return nil
}
