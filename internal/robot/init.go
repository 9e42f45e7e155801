package robot

import (
	"fmt"

	"github.com/robolab-io/sotg/internal/device"
	"github.com/robolab-io/sotg/internal/feature"
	"github.com/robolab-io/sotg/internal/graph"
	"github.com/robolab-io/sotg/internal/model"
	"github.com/robolab-io/sotg/internal/task"
)

// initTime is the nominal time index used for the one synchronous
// recomputation during initialization.
const initTime = 0

// Init runs the ModelLoaded -> Initialized transition. The step order is
// load-bearing: each step reads signals the previous one populated.
//
//  1. Construct a default simulated device when none was supplied.
//  2. Push the half-sitting posture into device and model, zero the
//     velocity and acceleration. The freeflyer frame then coincides with
//     the global frame, so operational point readings below come out in a
//     predictable frame.
//  3. Materialize the operational point signals.
//  4. Recompute com/Jcom once and build the CoM feature pair and task.
//  5. Per operational point: recompute, build a hold-position feature and
//     its task, register both under the point name and the camelCase
//     member name.
//
// A failure part way through leaves the robot non-Initialized and unusable;
// there is no rollback. Initializing twice is rejected.
func (r *Robot) Init() error {
	if r.dynamic == nil {
		return ErrNotInitialized
	}
	if r.state == Initialized {
		return ErrAlreadyInitialized
	}

	if len(r.halfSitting) != r.dimension {
		return fmt.Errorf("%w: half-sitting has %d entries, dimension is %d",
			model.ErrDimensionMismatch, len(r.halfSitting), r.dimension)
	}

	if r.dev == nil {
		r.dev = device.NewSimu(r.name+".device", r.dimension)
	}

	if err := r.dev.Set(r.halfSitting); err != nil {
		return err
	}
	if err := r.dynamic.SetPosition(r.halfSitting); err != nil {
		return err
	}
	if err := r.dynamic.SetVelocity(graph.Zero(r.dimension)); err != nil {
		return err
	}
	if err := r.dynamic.SetAcceleration(graph.Zero(r.dimension)); err != nil {
		return err
	}

	if err := r.initOpPoints(); err != nil {
		return err
	}
	if err := r.initCom(); err != nil {
		return err
	}
	if err := r.initOpPointTasks(); err != nil {
		return err
	}

	r.state = Initialized
	return nil
}

// initOpPoints declares every fixed operational point on the model handle.
// CreateOpPoint is idempotent, so a re-run cannot double-register signals.
func (r *Robot) initOpPoints() error {
	for _, op := range OperationalPoints {
		if err := r.dynamic.CreateOpPoint(op, op); err != nil {
			return err
		}
	}
	return nil
}

// initCom builds the center-of-mass feature pair and its task: the live
// feature plugged to the model's com/Jcom signals under the lateral
// selection, and a desired feature frozen at the current CoM.
func (r *Robot) initCom() error {
	if err := r.dynamic.CoM().Recompute(initTime); err != nil {
		return err
	}
	if err := r.dynamic.JCoM().Recompute(initTime); err != nil {
		return err
	}

	r.featureCom = feature.NewGeneric(r.name + ".feature.com")
	if err := graph.Plug(r.dynamic.CoM(), r.featureCom.ErrorIn()); err != nil {
		return err
	}
	if err := graph.Plug(r.dynamic.JCoM(), r.featureCom.JacobianIn()); err != nil {
		return err
	}
	mask, err := feature.ParseMask(ComSelection)
	if err != nil {
		return err
	}
	r.featureCom.SetSelection(mask)

	r.featureComDes = feature.NewGeneric(r.name + ".feature.ref.com")
	r.featureComDes.ErrorIn().Set(r.dynamic.CoM().Value().Clone())
	r.featureCom.SetReference(r.featureComDes)

	r.comTask = task.New(r.name + ".task.com")
	r.comTask.Add(r.featureCom)
	return r.comTask.SetControlGain(ComTaskGain)
}

// initOpPointTasks builds one hold-position feature and task per point. The
// initial target is the current pose, so every task starts with zero error.
func (r *Robot) initOpPointTasks() error {
	for _, op := range OperationalPoints {
		pos, err := r.dynamic.VectorSignal(op)
		if err != nil {
			return err
		}
		jac, err := r.dynamic.MatrixSignal(model.JacobianPrefix + op)
		if err != nil {
			return err
		}
		if err := pos.Recompute(initTime); err != nil {
			return err
		}
		if err := jac.Recompute(initTime); err != nil {
			return err
		}

		f := feature.NewPosition(r.name+".feature."+op, pos, jac, pos.Value())
		t := task.New(r.name + ".task." + op)
		t.Add(f)
		if err := t.SetControlGain(OpPointTaskGain); err != nil {
			return err
		}

		r.features[op] = f
		r.tasks[op] = t
		r.members[MemberName(op)] = f
	}
	return nil
}
