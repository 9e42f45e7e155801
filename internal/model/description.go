package model

import (
	"fmt"

	"github.com/robolab-io/sotg/internal/graph"
)

// FreeFlyerDim is the size of the unactuated base block at the head of every
// configuration vector: 3 translation entries followed by 3 rpy entries.
const FreeFlyerDim = 6

// Joint is one revolute joint of the kinematic chain. Parent indexes the
// joints slice; -1 means the joint hangs off the floating base. Offset is the
// joint frame origin in the parent frame, Axis the rotation axis in the joint
// frame. Mass, CoM and Inertia (ixx iyy izz ixy ixz iyz) describe the rigid
// body attached to the joint.
type Joint struct {
	Name    string
	Parent  int
	Axis    [3]float64
	Offset  [3]float64
	Mass    float64
	CoM     [3]float64
	Inertia [6]float64
}

// Description is the passive, parsed form of an articulated-body model.
// Reference maps a reference-point name (e.g. "left-wrist") to the name of
// the joint whose frame realizes it.
type Description struct {
	Name      string
	Joints    []Joint
	Reference map[string]string
}

// Dimension returns the configuration size: free-flyer block plus one entry
// per joint.
func (d *Description) Dimension() int {
	return FreeFlyerDim + len(d.Joints)
}

// Validate checks structural consistency: parents must precede children,
// axes must be non-zero, masses non-negative with at least one positive, and
// every reference must name an existing joint.
func (d *Description) Validate() error {
	totalMass := 0.0
	names := make(map[string]int, len(d.Joints))
	for i, j := range d.Joints {
		if j.Name == "" {
			return fmt.Errorf("%w: joint %d has no name", ErrInvalidDescription, i)
		}
		if _, dup := names[j.Name]; dup {
			return fmt.Errorf("%w: duplicate joint %q", ErrInvalidDescription, j.Name)
		}
		names[j.Name] = i
		if j.Parent >= i {
			return fmt.Errorf("%w: joint %q parent %d not topologically sorted",
				ErrInvalidDescription, j.Name, j.Parent)
		}
		if j.Parent < -1 {
			return fmt.Errorf("%w: joint %q parent %d", ErrInvalidDescription, j.Name, j.Parent)
		}
		if j.Axis == [3]float64{} {
			return fmt.Errorf("%w: joint %q has zero axis", ErrInvalidDescription, j.Name)
		}
		if j.Mass < 0 {
			return fmt.Errorf("%w: joint %q has negative mass", ErrInvalidDescription, j.Name)
		}
		totalMass += j.Mass
	}
	if totalMass <= 0 {
		return fmt.Errorf("%w: total mass is zero", ErrInvalidDescription)
	}
	for ref, joint := range d.Reference {
		if _, ok := names[joint]; !ok {
			return fmt.Errorf("%w: reference %q names unknown joint %q",
				ErrInvalidDescription, ref, joint)
		}
	}
	return nil
}

// jointIndex returns the index of the named joint, or -1.
func (d *Description) jointIndex(name string) int {
	for i, j := range d.Joints {
		if j.Name == name {
			return i
		}
	}
	return -1
}

// TotalMass returns the summed body masses.
func (d *Description) TotalMass() float64 {
	m := 0.0
	for _, j := range d.Joints {
		m += j.Mass
	}
	return m
}

// checkDim validates a full-configuration vector against the description.
func (d *Description) checkDim(what string, v graph.Vector) error {
	if len(v) != d.Dimension() {
		return dimensionError(what, len(v), d.Dimension())
	}
	return nil
}
