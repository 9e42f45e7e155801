package model

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/robolab-io/sotg/internal/graph"
)

// jacobianStep is the central-difference step used for numeric Jacobians.
const jacobianStep = 1e-6

// frame is a rigid transform: rotation R and origin p in world coordinates.
type frame struct {
	R *mat.Dense
	p [3]float64
}

// rotAxis returns the rotation matrix for an angle about a (non-zero) axis,
// Rodrigues' formula.
func rotAxis(axis [3]float64, angle float64) *mat.Dense {
	n := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	x, y, z := axis[0]/n, axis[1]/n, axis[2]/n
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return mat.NewDense(3, 3, []float64{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	})
}

// rotRPY composes roll-pitch-yaw into a rotation matrix (Rz * Ry * Rx).
func rotRPY(roll, pitch, yaw float64) *mat.Dense {
	rx := rotAxis([3]float64{1, 0, 0}, roll)
	ry := rotAxis([3]float64{0, 1, 0}, pitch)
	rz := rotAxis([3]float64{0, 0, 1}, yaw)
	var m, out mat.Dense
	m.Mul(ry, rx)
	out.Mul(rz, &m)
	return &out
}

func (f frame) apply(v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = f.p[i]
		for k := 0; k < 3; k++ {
			out[i] += f.R.At(i, k) * v[k]
		}
	}
	return out
}

// forward computes the world frame of every joint for configuration q.
// q holds the free-flyer block first, then one angle per joint, so joint i
// reads q[FreeFlyerDim+i]. Parents precede children in the joint slice.
func (d *Description) forward(q graph.Vector) []frame {
	base := frame{
		R: rotRPY(q[3], q[4], q[5]),
		p: [3]float64{q[0], q[1], q[2]},
	}
	frames := make([]frame, len(d.Joints))
	for i, j := range d.Joints {
		parent := base
		if j.Parent >= 0 {
			parent = frames[j.Parent]
		}
		var R mat.Dense
		R.Mul(parent.R, rotAxis(j.Axis, q[FreeFlyerDim+i]))
		frames[i] = frame{R: &R, p: parent.apply(j.Offset)}
	}
	return frames
}

// PointPosition returns the world position of the named reference point.
func (d *Description) PointPosition(ref string, q graph.Vector) (graph.Vector, error) {
	if err := d.checkDim("position", q); err != nil {
		return nil, err
	}
	idx := d.jointIndex(d.Reference[ref])
	if idx < 0 {
		if idx = d.jointIndex(ref); idx < 0 {
			return nil, ErrUnknownReference
		}
	}
	p := d.forward(q)[idx].p
	return graph.Vector{p[0], p[1], p[2]}, nil
}

// CenterOfMass returns the mass-weighted body center in world coordinates.
func (d *Description) CenterOfMass(q graph.Vector) (graph.Vector, error) {
	if err := d.checkDim("position", q); err != nil {
		return nil, err
	}
	frames := d.forward(q)
	var com [3]float64
	total := 0.0
	for i, j := range d.Joints {
		if j.Mass == 0 {
			continue
		}
		p := frames[i].apply(j.CoM)
		for k := 0; k < 3; k++ {
			com[k] += j.Mass * p[k]
		}
		total += j.Mass
	}
	for k := 0; k < 3; k++ {
		com[k] /= total
	}
	return graph.Vector{com[0], com[1], com[2]}, nil
}

// pointJacobian builds the 3xDim Jacobian of fn by central differences.
func (d *Description) pointJacobian(q graph.Vector, fn func(graph.Vector) (graph.Vector, error)) (*mat.Dense, error) {
	n := d.Dimension()
	jac := mat.NewDense(3, n, nil)
	work := q.Clone()
	for col := 0; col < n; col++ {
		orig := work[col]
		work[col] = orig + jacobianStep
		plus, err := fn(work)
		if err != nil {
			return nil, err
		}
		work[col] = orig - jacobianStep
		minus, err := fn(work)
		if err != nil {
			return nil, err
		}
		work[col] = orig
		for row := 0; row < 3; row++ {
			jac.Set(row, col, (plus[row]-minus[row])/(2*jacobianStep))
		}
	}
	return jac, nil
}

// PointJacobian returns the positional Jacobian of a reference point.
func (d *Description) PointJacobian(ref string, q graph.Vector) (*mat.Dense, error) {
	if err := d.checkDim("position", q); err != nil {
		return nil, err
	}
	if _, err := d.PointPosition(ref, q); err != nil {
		return nil, err
	}
	return d.pointJacobian(q, func(qq graph.Vector) (graph.Vector, error) {
		return d.PointPosition(ref, qq)
	})
}

// CoMJacobian returns the positional Jacobian of the center of mass.
func (d *Description) CoMJacobian(q graph.Vector) (*mat.Dense, error) {
	if err := d.checkDim("position", q); err != nil {
		return nil, err
	}
	return d.pointJacobian(q, d.CenterOfMass)
}

// LinearMomentum returns m * Jcom(q) * v, the whole-body linear momentum.
func (d *Description) LinearMomentum(q, v graph.Vector) (graph.Vector, error) {
	if err := d.checkDim("velocity", v); err != nil {
		return nil, err
	}
	jac, err := d.CoMJacobian(q)
	if err != nil {
		return nil, err
	}
	out := graph.Zero(3)
	m := d.TotalMass()
	for row := 0; row < 3; row++ {
		for col := 0; col < d.Dimension(); col++ {
			out[row] += m * jac.At(row, col) * v[col]
		}
	}
	return out, nil
}
