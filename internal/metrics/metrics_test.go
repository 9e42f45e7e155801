package metrics

import (
	"math"
	"testing"

	"github.com/robolab-io/sotg/internal/graph"
)

func TestTrackingErrorMean(t *testing.T) {
	m := NewTrackingError()

	m.Observe(graph.Vector{3, 4}, nil, 0)
	m.Observe(graph.Vector{0, 0}, nil, 0.1)

	if got := m.Value(); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("Value() = %f, want 2.5", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestControlEffort(t *testing.T) {
	c := NewControlEffort()

	c.Observe(nil, graph.Vector{1, -2}, 0)
	c.Observe(nil, graph.Vector{0, 1}, 0.1)

	if got := c.Value(); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("Value() = %f, want 2.0", got)
	}
}

func TestSettlingTime(t *testing.T) {
	s := NewSettling(0.1)

	s.Observe(graph.Vector{1}, nil, 0)
	s.Observe(graph.Vector{0.05}, nil, 0.1)
	s.Observe(graph.Vector{0.5}, nil, 0.2)
	s.Observe(graph.Vector{0.01}, nil, 0.3)
	s.Observe(graph.Vector{0.02}, nil, 0.4)

	if got := s.Value(); got != 0.3 {
		t.Errorf("Value() = %f, want 0.3 (dip at 0.1 did not hold)", got)
	}
}

func TestSettlingNeverSettles(t *testing.T) {
	s := NewSettling(0.1)
	s.Observe(graph.Vector{1}, nil, 0)
	s.Observe(graph.Vector{1}, nil, 0.5)

	if got := s.Value(); got != 0.5 {
		t.Errorf("Value() = %f, want last time 0.5", got)
	}
}
