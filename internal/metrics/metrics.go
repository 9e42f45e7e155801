// Package metrics accumulates scalar summaries over a tracking run.
package metrics

import (
	"math"

	"github.com/robolab-io/sotg/internal/graph"
)

// Metric observes per-step run data and reduces it to a single value.
type Metric interface {
	Name() string
	Observe(e, u graph.Vector, t float64)
	Value() float64
	Reset()
}

type TrackingError struct {
	name    string
	sum     float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{
		name: "tracking_error",
	}
}

func (m *TrackingError) Name() string {
	return m.name
}

func (m *TrackingError) Observe(e, u graph.Vector, t float64) {
	m.sum += e.Norm()
	m.samples++
}

func (m *TrackingError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *TrackingError) Reset() {
	m.sum = 0
	m.samples = 0
}

type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(e, u graph.Vector, t float64) {
	for _, val := range u {
		c.sum += math.Abs(val)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Settling reports the earliest time at which the task error dropped below
// threshold and stayed there. Value is the settling time, or the last
// observed time when the run never settled.
type Settling struct {
	name      string
	threshold float64
	settledAt float64
	settled   bool
	lastTime  float64
}

func NewSettling(threshold float64) *Settling {
	return &Settling{
		name:      "settling_time",
		threshold: threshold,
	}
}

func (s *Settling) Name() string {
	return s.name
}

func (s *Settling) Observe(e, u graph.Vector, t float64) {
	s.lastTime = t
	if e.Norm() < s.threshold {
		if !s.settled {
			s.settled = true
			s.settledAt = t
		}
		return
	}
	s.settled = false
}

func (s *Settling) Value() float64 {
	if s.settled {
		return s.settledAt
	}
	return s.lastTime
}

func (s *Settling) Reset() {
	s.settledAt = 0
	s.settled = false
	s.lastTime = 0
}
