// Package control provides a minimal joint-space consumer for the task set:
// a proportional law mapping task errors through Jacobian transposes to a
// joint-velocity command. The real prioritized solver lives downstream; this
// one exists so tasks can be exercised and observed.
package control

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/robolab-io/sotg/internal/graph"
	"github.com/robolab-io/sotg/internal/task"
)

// ErrJacobianShape indicates a task whose Jacobian does not match the robot
// dimension or its own error vector.
var ErrJacobianShape = errors.New("control: jacobian shape mismatch")

// Controller accumulates u = -sum(gain * J^T * e) over its tasks.
type Controller struct {
	dim   int
	tasks []*task.Task
}

// New returns a controller over the given tasks for a robot of dimension dim.
func New(dim int, tasks ...*task.Task) *Controller {
	return &Controller{dim: dim, tasks: tasks}
}

// Compute recomputes every member feature at time index at and returns the
// joint-velocity command. Zero-gain tasks contribute nothing but are still
// recomputed.
func (c *Controller) Compute(at int) (graph.Vector, error) {
	u := mat.NewVecDense(c.dim, nil)
	for _, t := range c.tasks {
		for _, f := range t.Features() {
			if err := f.Error().Recompute(at); err != nil {
				return nil, err
			}
			if err := f.Jacobian().Recompute(at); err != nil {
				return nil, err
			}
			e := f.Error().Value()
			jac := f.Jacobian().Value()
			rows, cols := jac.Dims()
			if rows != len(e) || cols != c.dim {
				return nil, fmt.Errorf("%w: task %s feature %s: %dx%d jacobian for %d-error, dimension %d",
					ErrJacobianShape, t.Name(), f.Name(), rows, cols, len(e), c.dim)
			}
			if t.ControlGain() == 0 {
				continue
			}

			ev := mat.NewVecDense(len(e), e)
			var contrib mat.VecDense
			contrib.MulVec(jac.T(), ev)
			u.AddScaledVec(u, -t.ControlGain(), &contrib)
		}
	}
	out := make(graph.Vector, c.dim)
	copy(out, u.RawVector().Data)
	return out, nil
}
