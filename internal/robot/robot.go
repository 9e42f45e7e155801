// Package robot instantiates everything required for a consistent humanoid
// robot representation: the dynamic model handle, the device, and the usual
// features and tasks — a center-of-mass task for stability and one
// hold-position task per operational point.
package robot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robolab-io/sotg/internal/device"
	"github.com/robolab-io/sotg/internal/feature"
	"github.com/robolab-io/sotg/internal/graph"
	"github.com/robolab-io/sotg/internal/model"
	"github.com/robolab-io/sotg/internal/task"
)

// OperationalPoints is the fixed set of body reference points a robot is
// controlled through. Declaring a point materializes two model signals: the
// point position under its own name and the Jacobian under the J-prefixed
// name ("left-wrist" and "Jleft-wrist").
var OperationalPoints = []string{
	"left-wrist",
	"right-wrist",
	"left-ankle",
	"right-ankle",
}

// Default control gains for the tasks built at initialization.
const (
	ComTaskGain     = 1.0
	OpPointTaskGain = 0.2
)

// ComSelection masks the CoM error down to the two lateral/vertical axes;
// the first axis does not participate.
const ComSelection = "011"

// Lifecycle errors.
var (
	// ErrNotInitialized indicates initialization was requested before a
	// model was loaded.
	ErrNotInitialized = errors.New("robot: models must be initialized first")

	// ErrAlreadyInitialized indicates a second initialization of the same
	// robot; re-running would double-register signals and tasks.
	ErrAlreadyInitialized = errors.New("robot: already initialized")
)

// State is the robot lifecycle phase.
type State int

const (
	Unconfigured State = iota
	ModelLoaded
	Initialized
)

func (s State) String() string {
	switch s {
	case ModelLoaded:
		return "model-loaded"
	case Initialized:
		return "initialized"
	default:
		return "unconfigured"
	}
}

// Robot owns one model handle, one device, the half-sitting reference
// configuration and the feature/task set built over them. All maps are
// per-instance and mutated only during initialization; after Init returns
// they are read-only.
type Robot struct {
	name        string
	state       State
	dynamic     *model.Dynamics
	dev         device.Device
	halfSitting graph.Vector
	dimension   int

	featureCom    *feature.Generic
	featureComDes *feature.Generic
	comTask       *task.Task

	features map[string]*feature.Position
	tasks    map[string]*task.Task
	members  map[string]*feature.Position

	collaborators map[string]Collaborator
}

// Collaborator is an external signal-producing entity attached to the robot
// by name (stabilizer, ZMP estimator, angle estimator). Its algorithm is its
// own business; the robot only tracks its presence.
type Collaborator interface {
	Name() string
}

// New returns an unconfigured robot.
func New(name string) *Robot {
	return &Robot{
		name:          name,
		features:      make(map[string]*feature.Position),
		tasks:         make(map[string]*task.Task),
		members:       make(map[string]*feature.Position),
		collaborators: make(map[string]Collaborator),
	}
}

func (r *Robot) Name() string { return r.name }

// State reports the lifecycle phase.
func (r *Robot) State() State { return r.state }

// SetModel installs the loaded model handle and moves the robot to
// ModelLoaded. When no half-sitting posture was supplied, a zero vector of
// the model's dimension is derived.
func (r *Robot) SetModel(dyn *model.Dynamics) {
	r.dynamic = dyn
	r.dimension = dyn.Dimension()
	if r.halfSitting == nil {
		r.halfSitting = graph.Zero(r.dimension)
	}
	r.state = ModelLoaded
}

// SetHalfSitting installs the reference posture. With a model already
// loaded, the length is validated against the model dimension.
func (r *Robot) SetHalfSitting(q graph.Vector) error {
	if r.dynamic != nil && len(q) != r.dimension {
		return fmt.Errorf("%w: half-sitting has %d entries, dimension is %d",
			model.ErrDimensionMismatch, len(q), r.dimension)
	}
	r.halfSitting = q.Clone()
	return nil
}

// SetDevice installs a device ahead of initialization, replacing the default
// simulated one.
func (r *Robot) SetDevice(d device.Device) { r.dev = d }

func (r *Robot) Dynamic() *model.Dynamics        { return r.dynamic }
func (r *Robot) Device() device.Device           { return r.dev }
func (r *Robot) HalfSitting() graph.Vector       { return r.halfSitting }
func (r *Robot) Dimension() int                  { return r.dimension }
func (r *Robot) FeatureCom() *feature.Generic    { return r.featureCom }
func (r *Robot) FeatureComDes() *feature.Generic { return r.featureComDes }
func (r *Robot) ComTask() *task.Task             { return r.comTask }

// Feature returns the position feature of an operational point.
func (r *Robot) Feature(op string) (*feature.Position, bool) {
	f, ok := r.features[op]
	return f, ok
}

// Task returns the task of an operational point.
func (r *Robot) Task(op string) (*task.Task, bool) {
	t, ok := r.tasks[op]
	return t, ok
}

// Tasks returns the full name-to-task mapping, CoM task included under its
// own name. The map must not be mutated after initialization.
func (r *Robot) Tasks() map[string]*task.Task {
	out := make(map[string]*task.Task, len(r.tasks)+1)
	for k, v := range r.tasks {
		out[k] = v
	}
	if r.comTask != nil {
		out["com"] = r.comTask
	}
	return out
}

// FeatureByMember resolves the camelCase member name derived from an
// operational point ("left-wrist" -> "leftWrist") to its feature.
func (r *Robot) FeatureByMember(member string) (*feature.Position, bool) {
	f, ok := r.members[member]
	return f, ok
}

// Fixed member accessors, generated from the operational point list. Each
// returns nil before initialization.
func (r *Robot) LeftWrist() *feature.Position  { return r.members["leftWrist"] }
func (r *Robot) RightWrist() *feature.Position { return r.members["rightWrist"] }
func (r *Robot) LeftAnkle() *feature.Position  { return r.members["leftAnkle"] }
func (r *Robot) RightAnkle() *feature.Position { return r.members["rightAnkle"] }

// Attach registers a collaborator entity by name.
func (r *Robot) Attach(c Collaborator) { r.collaborators[c.Name()] = c }

// Collaborator looks up an attached entity.
func (r *Robot) Collaborator(name string) (Collaborator, bool) {
	c, ok := r.collaborators[name]
	return c, ok
}

// MemberName converts a hyphen-separated operational point name to its
// camelCase member form: "left-wrist" becomes "leftWrist".
func MemberName(op string) string {
	words := strings.Split(op, "-")
	out := words[0]
	for _, w := range words[1:] {
		if w == "" {
			continue
		}
		out += strings.ToUpper(w[:1]) + w[1:]
	}
	return out
}
