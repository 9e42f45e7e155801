package feature

import (
	"gonum.org/v1/gonum/mat"

	"github.com/robolab-io/sotg/internal/graph"
)

// Generic reads its current value and Jacobian from whatever signals are
// plugged into its inputs. With a reference attached, the error is current
// minus reference; without one it is the current value itself. A selection
// mask restricts which components survive, on the error and Jacobian alike.
//
// The same type serves both roles of the feature pair: the live feature gets
// its ErrorIn plugged to a model signal, the desired feature gets a constant
// set on it.
type Generic struct {
	name       string
	errorIn    *graph.VectorSignal
	jacobianIn *graph.MatrixSignal
	mask       Mask
	reference  *Generic

	errorOut    *graph.VectorSignal
	jacobianOut *graph.MatrixSignal
}

// NewGeneric returns a feature with unconnected inputs.
func NewGeneric(name string) *Generic {
	g := &Generic{
		name:       name,
		errorIn:    graph.NewVector(name + ".errorIN"),
		jacobianIn: graph.NewMatrix(name + ".jacobianIN"),
	}
	g.errorOut = graph.DerivedVector(name+".error", func(t int) (graph.Vector, error) {
		cur := g.errorIn.Value()
		if g.reference != nil {
			if err := g.reference.errorIn.Recompute(t); err != nil {
				return nil, err
			}
			cur = cur.Sub(g.reference.errorIn.Value())
		}
		return g.mask.apply(cur)
	}, g.errorIn)
	g.jacobianOut = graph.DerivedMatrix(name+".jacobian", func(int) (*mat.Dense, error) {
		return g.mask.applyRows(g.jacobianIn.Value())
	}, g.jacobianIn)
	return g
}

func (g *Generic) Name() string { return g.name }

// ErrorIn is the input signal carrying the current value; plug a model
// signal into it, or set a constant.
func (g *Generic) ErrorIn() *graph.VectorSignal { return g.errorIn }

// JacobianIn is the input signal carrying the raw Jacobian.
func (g *Generic) JacobianIn() *graph.MatrixSignal { return g.jacobianIn }

// Error is the masked tracking error output.
func (g *Generic) Error() *graph.VectorSignal { return g.errorOut }

// Jacobian is the masked Jacobian output.
func (g *Generic) Jacobian() *graph.MatrixSignal { return g.jacobianOut }

// SetSelection installs a selection mask. The mask width is checked lazily,
// at recomputation, against the actual error width.
func (g *Generic) SetSelection(m Mask) { g.mask = m }

// Selection returns the current mask, nil when everything is selected.
func (g *Generic) Selection() Mask { return g.mask }

// SetReference attaches the desired-value feature; the error output becomes
// current minus reference.
func (g *Generic) SetReference(ref *Generic) { g.reference = ref }

// Reference returns the attached desired-value feature, if any.
func (g *Generic) Reference() *Generic { return g.reference }
