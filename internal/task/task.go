// Package task wraps features into prioritized control objectives.
package task

import (
	"errors"
	"fmt"

	"github.com/robolab-io/sotg/internal/feature"
	"github.com/robolab-io/sotg/internal/graph"
)

// ErrNegativeGain indicates an attempt to set a control gain below zero.
// A zero gain is inert but legal.
var ErrNegativeGain = errors.New("task: negative control gain")

// Task is one control objective: an ordered set of member features and a
// scalar gain. Gain semantics belong to the downstream solver; this layer
// only stores and exposes it.
type Task struct {
	name     string
	features []feature.Feature
	gain     float64
}

// New returns an empty task with zero gain.
func New(name string) *Task {
	return &Task{name: name}
}

func (t *Task) Name() string { return t.name }

// Add appends a member feature, keeping insertion order.
func (t *Task) Add(f feature.Feature) {
	t.features = append(t.features, f)
}

// Features returns the members in insertion order.
func (t *Task) Features() []feature.Feature { return t.features }

// FeatureNames returns the ordered member names.
func (t *Task) FeatureNames() []string {
	names := make([]string, len(t.features))
	for i, f := range t.features {
		names[i] = f.Name()
	}
	return names
}

// ControlGain returns the scalar gain.
func (t *Task) ControlGain() float64 { return t.gain }

// SetControlGain assigns the gain; negative values are rejected.
func (t *Task) SetControlGain(g float64) error {
	if g < 0 {
		return fmt.Errorf("%w: %f", ErrNegativeGain, g)
	}
	t.gain = g
	return nil
}

// Error recomputes every member at time t and concatenates their errors.
func (t *Task) Error(at int) (graph.Vector, error) {
	var out graph.Vector
	for _, f := range t.features {
		if err := f.Error().Recompute(at); err != nil {
			return nil, err
		}
		out = append(out, f.Error().Value()...)
	}
	return out, nil
}
