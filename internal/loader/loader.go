// Package loader builds model handles from on-disk robot descriptions.
//
// Two strategies produce the same contract:
//
//   - [KXML]: one XML file carrying mesh references, the kinematic chain and
//     (non-standard) inertial parameters.
//   - [VRML]: an extended VRML scene file plus two XML metadata files
//     (body specificities and joint ranks), the OpenHRP layout.
//
// A successful KXML load leaves the handle with the fixed computation-flag
// profile callers rely on: velocity, CoM and ZMP on, everything else off.
// The VRML loader applies the same profile; see DESIGN.md.
package loader

import (
	"errors"
	"fmt"

	"github.com/robolab-io/sotg/internal/model"
)

// ErrModelLoad indicates a descriptor that is unreadable or structurally
// inconsistent. No partial model handle is ever returned alongside it.
var ErrModelLoad = errors.New("loader: model load failed")

// LoadError wraps a load failure with the offending path.
type LoadError struct {
	Path    string
	Wrapped error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loader: %s: %v", e.Path, e.Wrapped)
}

func (e *LoadError) Unwrap() error { return ErrModelLoad }

func loadError(path string, err error) error {
	return &LoadError{Path: path, Wrapped: err}
}

// Loader produces a ready model handle for a named robot.
type Loader interface {
	Load(name string) (*model.Dynamics, error)
}

// applyDefaultProperties sets the contractual post-load flag profile.
func applyDefaultProperties(dyn *model.Dynamics) {
	dyn.SetProperty(model.PropComputeVelocity, "true")
	dyn.SetProperty(model.PropComputeCoM, "true")
	dyn.SetProperty(model.PropComputeAccelerationCoM, "false")
	dyn.SetProperty(model.PropComputeMomentum, "false")
	dyn.SetProperty(model.PropComputeZMP, "true")
	dyn.SetProperty(model.PropComputeBackwardDynamics, "false")
}
