// Package device abstracts the entity that holds the robot's actuated state
// and integrates its equation of motion: the real robot, or a simulator.
package device

import (
	"errors"
	"fmt"

	"github.com/robolab-io/sotg/internal/graph"
)

// ErrDimensionMismatch indicates a state or control vector whose length
// differs from the device dimension.
var ErrDimensionMismatch = errors.New("device: dimension mismatch")

// Device is the sink the orchestration layer configures but does not compute.
type Device interface {
	Name() string
	Dimension() int

	// State returns the full-configuration signal.
	State() *graph.VectorSignal

	// Set assigns the full configuration.
	Set(q graph.Vector) error

	// Step advances the state under a joint-velocity command for dt seconds.
	Step(u graph.Vector, dt float64) error
}

// Simu is the default simulated device: explicit Euler on the configuration,
// with velocity and acceleration bookkeeping.
type Simu struct {
	name         string
	dim          int
	state        *graph.VectorSignal
	velocity     *graph.VectorSignal
	acceleration *graph.VectorSignal
}

// NewSimu returns a simulated device of the given dimension, all state zero.
func NewSimu(name string, dim int) *Simu {
	s := &Simu{
		name:         name,
		dim:          dim,
		state:        graph.NewVector(name + ".state"),
		velocity:     graph.NewVector(name + ".velocity"),
		acceleration: graph.NewVector(name + ".acceleration"),
	}
	s.state.Set(graph.Zero(dim))
	s.velocity.Set(graph.Zero(dim))
	s.acceleration.Set(graph.Zero(dim))
	return s
}

func (s *Simu) Name() string   { return s.name }
func (s *Simu) Dimension() int { return s.dim }

func (s *Simu) State() *graph.VectorSignal        { return s.state }
func (s *Simu) Velocity() *graph.VectorSignal     { return s.velocity }
func (s *Simu) Acceleration() *graph.VectorSignal { return s.acceleration }

func (s *Simu) Set(q graph.Vector) error {
	if len(q) != s.dim {
		return fmt.Errorf("%w: state has %d entries, device dimension is %d",
			ErrDimensionMismatch, len(q), s.dim)
	}
	s.state.Set(q.Clone())
	s.velocity.Set(graph.Zero(s.dim))
	s.acceleration.Set(graph.Zero(s.dim))
	return nil
}

// Step treats u as a joint-velocity command and integrates explicitly:
// q += u*dt. Acceleration is the backward difference of the command.
func (s *Simu) Step(u graph.Vector, dt float64) error {
	if len(u) != s.dim {
		return fmt.Errorf("%w: control has %d entries, device dimension is %d",
			ErrDimensionMismatch, len(u), s.dim)
	}
	if dt <= 0 {
		return fmt.Errorf("device: dt must be positive, got %f", dt)
	}
	prev := s.velocity.Value()
	s.state.Set(s.state.Value().Add(u.Scale(dt)))
	s.velocity.Set(u.Clone())
	s.acceleration.Set(u.Sub(prev).Scale(1 / dt))
	return nil
}
