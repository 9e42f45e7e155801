package control

import (
	"context"
	"fmt"
	"sort"

	"github.com/robolab-io/sotg/internal/graph"
	"github.com/robolab-io/sotg/internal/robot"
	"github.com/robolab-io/sotg/internal/task"
)

// Config bounds one tracking run.
type Config struct {
	Dt    float64
	Steps int

	// Offset, when non-nil, is added to the device state before the run so
	// the hold-position tasks have an error to regulate away.
	Offset graph.Vector
}

// Result holds the recorded trajectory of one run.
type Result struct {
	Times    []float64
	States   []graph.Vector
	Controls []graph.Vector
	// Errors maps task name to the error-norm trajectory.
	Errors map[string][]float64
	Steps  int
}

// Run drives the robot's device under the proportional task controller,
// syncing the model configuration from the device each step and recording
// per-task error norms. The robot must be initialized.
func Run(ctx context.Context, r *robot.Robot, cfg Config) (*Result, error) {
	if r.State() != robot.Initialized {
		return nil, robot.ErrNotInitialized
	}
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("control: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("control: steps must be positive, got %d", cfg.Steps)
	}

	byName := r.Tasks()
	names := make([]string, 0, len(byName))
	tasks := make([]*task.Task, 0, len(byName))
	for name, t := range byName {
		names = append(names, name)
		tasks = append(tasks, t)
	}
	sort.Strings(names)

	ctrl := New(r.Dimension(), tasks...)
	result := &Result{
		Times:    make([]float64, 0, cfg.Steps),
		States:   make([]graph.Vector, 0, cfg.Steps),
		Controls: make([]graph.Vector, 0, cfg.Steps),
		Errors:   make(map[string][]float64, len(names)),
	}

	if cfg.Offset != nil {
		if err := r.Device().Set(r.Device().State().Value().Add(cfg.Offset)); err != nil {
			return nil, err
		}
	}

	// Time index 0 was consumed by initialization.
	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.Dynamic().SetPosition(r.Device().State().Value()); err != nil {
			return result, err
		}

		u, err := ctrl.Compute(i)
		if err != nil {
			return result, err
		}
		if err := r.Device().Step(u, cfg.Dt); err != nil {
			return result, err
		}

		result.Times = append(result.Times, float64(i)*cfg.Dt)
		result.States = append(result.States, r.Device().State().Value().Clone())
		result.Controls = append(result.Controls, u.Clone())
		for _, name := range names {
			e, err := byName[name].Error(i)
			if err != nil {
				return result, err
			}
			result.Errors[name] = append(result.Errors[name], e.Norm())
		}
		result.Steps++
	}
	return result, nil
}
