package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/robolab-io/sotg/internal/graph"
)

// Computation-flag property keys recognized by SetProperty.
const (
	PropComputeVelocity         = "ComputeVelocity"
	PropComputeCoM              = "ComputeCoM"
	PropComputeAccelerationCoM  = "ComputeAccelerationCoM"
	PropComputeMomentum         = "ComputeMomentum"
	PropComputeZMP              = "ComputeZMP"
	PropComputeBackwardDynamics = "ComputeBackwardDynamics"
)

// JacobianPrefix is prepended to an operational point name to derive the name
// of its Jacobian signal ("left-wrist" -> "Jleft-wrist").
const JacobianPrefix = "J"

// Dynamics is the live model handle: one articulated-body model exposed as a
// set of signals. The dimension is fixed at construction. The handle is
// mutated only by setting computation flags and by adding operational-point
// signals; it is owned by exactly one robot and never shared.
type Dynamics struct {
	name  string
	desc  *Description
	flags map[string]bool

	position     *graph.VectorSignal
	velocity     *graph.VectorSignal
	acceleration *graph.VectorSignal
	com          *graph.VectorSignal
	jcom         *graph.MatrixSignal
	zmp          *graph.VectorSignal
	momentum     *graph.VectorSignal

	signals map[string]graph.Signal
}

// NewDynamics builds a handle over a validated description. All computation
// flags start off; loaders set their contractual profile after construction.
func NewDynamics(name string, desc *Description) *Dynamics {
	d := &Dynamics{
		name: name,
		desc: desc,
		flags: map[string]bool{
			PropComputeVelocity:         false,
			PropComputeCoM:              false,
			PropComputeAccelerationCoM:  false,
			PropComputeMomentum:         false,
			PropComputeZMP:              false,
			PropComputeBackwardDynamics: false,
		},
		signals: make(map[string]graph.Signal),
	}

	d.position = graph.NewVector(name + ".position")
	d.velocity = graph.NewVector(name + ".velocity")
	d.acceleration = graph.NewVector(name + ".acceleration")

	d.com = graph.DerivedVector(name+".com", func(int) (graph.Vector, error) {
		if !d.flags[PropComputeCoM] {
			return nil, fmt.Errorf("%w: %s", ErrComputationDisabled, PropComputeCoM)
		}
		return desc.CenterOfMass(d.position.Value())
	}, d.position)

	d.jcom = graph.DerivedMatrix(name+".Jcom", func(int) (*mat.Dense, error) {
		if !d.flags[PropComputeCoM] {
			return nil, fmt.Errorf("%w: %s", ErrComputationDisabled, PropComputeCoM)
		}
		return desc.CoMJacobian(d.position.Value())
	}, d.position)

	d.zmp = graph.DerivedVector(name+".zmp", func(t int) (graph.Vector, error) {
		if !d.flags[PropComputeZMP] {
			return nil, fmt.Errorf("%w: %s", ErrComputationDisabled, PropComputeZMP)
		}
		if err := d.com.Recompute(t); err != nil {
			return nil, err
		}
		c := d.com.Value()
		// Static approximation: ground projection of the CoM.
		return graph.Vector{c[0], c[1], 0}, nil
	}, d.com)

	d.momentum = graph.DerivedVector(name+".momentum", func(int) (graph.Vector, error) {
		if !d.flags[PropComputeMomentum] {
			return nil, fmt.Errorf("%w: %s", ErrComputationDisabled, PropComputeMomentum)
		}
		return desc.LinearMomentum(d.position.Value(), d.velocity.Value())
	}, d.position, d.velocity)

	d.signals["position"] = d.position
	d.signals["velocity"] = d.velocity
	d.signals["acceleration"] = d.acceleration
	d.signals["com"] = d.com
	d.signals["Jcom"] = d.jcom
	d.signals["zmp"] = d.zmp
	d.signals["momentum"] = d.momentum

	return d
}

func (d *Dynamics) Name() string { return d.name }

// Dimension returns the configuration size, fixed once loaded.
func (d *Dynamics) Dimension() int { return d.desc.Dimension() }

// Description exposes the underlying parsed model.
func (d *Dynamics) Description() *Description { return d.desc }

func (d *Dynamics) Position() *graph.VectorSignal     { return d.position }
func (d *Dynamics) Velocity() *graph.VectorSignal     { return d.velocity }
func (d *Dynamics) Acceleration() *graph.VectorSignal { return d.acceleration }
func (d *Dynamics) CoM() *graph.VectorSignal          { return d.com }
func (d *Dynamics) JCoM() *graph.MatrixSignal         { return d.jcom }
func (d *Dynamics) ZMP() *graph.VectorSignal          { return d.zmp }
func (d *Dynamics) Momentum() *graph.VectorSignal     { return d.momentum }

// SetPosition assigns the full configuration, validating its length.
func (d *Dynamics) SetPosition(q graph.Vector) error {
	if err := d.desc.checkDim("position", q); err != nil {
		return err
	}
	d.position.Set(q.Clone())
	return nil
}

// SetVelocity assigns the generalized velocity, validating its length.
func (d *Dynamics) SetVelocity(v graph.Vector) error {
	if err := d.desc.checkDim("velocity", v); err != nil {
		return err
	}
	d.velocity.Set(v.Clone())
	return nil
}

// SetAcceleration assigns the generalized acceleration, validating its length.
func (d *Dynamics) SetAcceleration(a graph.Vector) error {
	if err := d.desc.checkDim("acceleration", a); err != nil {
		return err
	}
	d.acceleration.Set(a.Clone())
	return nil
}

// SetProperty toggles a computation flag. Value must be "true" or "false".
func (d *Dynamics) SetProperty(key, value string) error {
	if _, ok := d.flags[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, key)
	}
	switch value {
	case "true":
		d.flags[key] = true
	case "false":
		d.flags[key] = false
	default:
		return fmt.Errorf("%w: %s=%q (want true or false)", ErrUnknownProperty, key, value)
	}
	return nil
}

// Property reads a computation flag back as "true" or "false".
func (d *Dynamics) Property(key string) (string, error) {
	v, ok := d.flags[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProperty, key)
	}
	if v {
		return "true", nil
	}
	return "false", nil
}

// CreateOpPoint materializes a position signal named after the operational
// point and a Jacobian signal with the J prefix, both derived from the
// current configuration. Creating the same point twice is a no-op, so callers
// may declare points idempotently.
func (d *Dynamics) CreateOpPoint(name, reference string) error {
	if _, exists := d.signals[name]; exists {
		return nil
	}
	if ref := d.desc.Reference[reference]; ref == "" && d.desc.jointIndex(reference) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownReference, reference)
	}

	pos := graph.DerivedVector(d.name+"."+name, func(int) (graph.Vector, error) {
		return d.desc.PointPosition(reference, d.position.Value())
	}, d.position)

	jac := graph.DerivedMatrix(d.name+"."+JacobianPrefix+name, func(int) (*mat.Dense, error) {
		return d.desc.PointJacobian(reference, d.position.Value())
	}, d.position)

	d.signals[name] = pos
	d.signals[JacobianPrefix+name] = jac
	return nil
}

// Signal looks up a signal by its short name (position, com, Jcom, an
// operational point name, or its J-prefixed Jacobian).
func (d *Dynamics) Signal(name string) (graph.Signal, error) {
	s, ok := d.signals[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSignal, name)
	}
	return s, nil
}

// VectorSignal looks up a vector-valued signal by short name.
func (d *Dynamics) VectorSignal(name string) (*graph.VectorSignal, error) {
	s, err := d.Signal(name)
	if err != nil {
		return nil, err
	}
	vs, ok := s.(*graph.VectorSignal)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not vector-valued", ErrUnknownSignal, name)
	}
	return vs, nil
}

// MatrixSignal looks up a matrix-valued signal by short name.
func (d *Dynamics) MatrixSignal(name string) (*graph.MatrixSignal, error) {
	s, err := d.Signal(name)
	if err != nil {
		return nil, err
	}
	ms, ok := s.(*graph.MatrixSignal)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not matrix-valued", ErrUnknownSignal, name)
	}
	return ms, nil
}
