package robot

import (
	"github.com/robolab-io/sotg/internal/loader"
)

// NewHumanoid builds and initializes a robot from a model loader in one
// shot: the half-sitting posture defaults to the zero vector of the loaded
// dimension and initialization runs unconditionally. Any failure aborts
// construction; no half-initialized robot is returned.
func NewHumanoid(name string, l loader.Loader) (*Robot, error) {
	r := New(name)
	dyn, err := l.Load(name + ".dynamics")
	if err != nil {
		return nil, err
	}
	r.SetModel(dyn)
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}
