// Package feature defines the error/Jacobian producers consumed by control
// tasks.
//
// A feature exposes an error signal (how far a controlled quantity is from
// its desired value) and the matching Jacobian. [Generic] reads both from
// arbitrary plugged signals and supports a selection mask; [Position] tracks
// an operational-point position against a fixed desired pose.
package feature

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/robolab-io/sotg/internal/graph"
)

// Domain errors for feature evaluation.
var (
	// ErrMaskWidth indicates a selection mask whose width differs from the
	// error vector it filters.
	ErrMaskWidth = errors.New("feature: selection mask width mismatch")

	// ErrBadMask indicates a mask string with characters other than 0/1.
	ErrBadMask = errors.New("feature: malformed selection mask")
)

// Feature is the unit a control task consumes.
type Feature interface {
	Name() string
	Error() *graph.VectorSignal
	Jacobian() *graph.MatrixSignal
}

// Mask selects which components of a feature error participate in the task.
// Entry i corresponds to error component i.
type Mask []bool

// ParseMask reads a mask literal such as "011": character i selects
// component i, '1' keeps it, '0' drops it.
func ParseMask(s string) (Mask, error) {
	m := make(Mask, len(s))
	for i, c := range s {
		switch c {
		case '0':
			m[i] = false
		case '1':
			m[i] = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadMask, s)
		}
	}
	return m, nil
}

// Count returns the number of selected components.
func (m Mask) Count() int {
	n := 0
	for _, b := range m {
		if b {
			n++
		}
	}
	return n
}

func (m Mask) String() string {
	out := make([]byte, len(m))
	for i, b := range m {
		if b {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

// apply filters a vector down to the selected components. A nil mask keeps
// everything.
func (m Mask) apply(v graph.Vector) (graph.Vector, error) {
	if m == nil {
		return v, nil
	}
	if len(m) != len(v) {
		return nil, fmt.Errorf("%w: mask %s over %d components", ErrMaskWidth, m, len(v))
	}
	out := make(graph.Vector, 0, m.Count())
	for i, keep := range m {
		if keep {
			out = append(out, v[i])
		}
	}
	return out, nil
}

// applyRows filters matrix rows down to the selected components.
func (m Mask) applyRows(in *mat.Dense) (*mat.Dense, error) {
	if m == nil {
		return in, nil
	}
	rows, cols := in.Dims()
	if len(m) != rows {
		return nil, fmt.Errorf("%w: mask %s over %d rows", ErrMaskWidth, m, rows)
	}
	out := mat.NewDense(m.Count(), cols, nil)
	r := 0
	for i, keep := range m {
		if keep {
			for c := 0; c < cols; c++ {
				out.Set(r, c, in.At(i, c))
			}
			r++
		}
	}
	return out, nil
}
