package feature

import (
	"gonum.org/v1/gonum/mat"

	"github.com/robolab-io/sotg/internal/graph"
)

// Position tracks an operational-point position against a desired pose.
// Current position and Jacobian come from the given model signals; the
// desired value is a plain vector, so the default "hold position" target is
// just a snapshot of the current value at construction time.
type Position struct {
	name     string
	position *graph.VectorSignal
	jacobian *graph.MatrixSignal
	desired  graph.Vector

	errorOut    *graph.VectorSignal
	jacobianOut *graph.MatrixSignal
}

// NewPosition wires a position feature to live model signals with the given
// initial target.
func NewPosition(name string, position *graph.VectorSignal, jacobian *graph.MatrixSignal, desired graph.Vector) *Position {
	p := &Position{
		name:     name,
		position: position,
		jacobian: jacobian,
		desired:  desired.Clone(),
	}
	p.errorOut = graph.DerivedVector(name+".error", func(int) (graph.Vector, error) {
		return p.position.Value().Sub(p.desired), nil
	}, p.position)
	p.jacobianOut = graph.DerivedMatrix(name+".jacobian", func(int) (*mat.Dense, error) {
		return p.jacobian.Value(), nil
	}, p.jacobian)
	return p
}

func (p *Position) Name() string { return p.name }

// Error is position minus desired.
func (p *Position) Error() *graph.VectorSignal { return p.errorOut }

// Jacobian passes the model's point Jacobian through.
func (p *Position) Jacobian() *graph.MatrixSignal { return p.jacobianOut }

// Desired returns the current target.
func (p *Position) Desired() graph.Vector { return p.desired }

// SetDesired retargets the feature.
func (p *Position) SetDesired(d graph.Vector) { p.desired = d.Clone() }
