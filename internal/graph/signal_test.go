package graph

import (
	"errors"
	"testing"
)

func TestLeafSignal(t *testing.T) {
	s := NewVector("q")
	s.Set(Vector{1, 2, 3})

	if err := s.Recompute(0); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if s.Value()[1] != 2 {
		t.Errorf("expected 2, got %f", s.Value()[1])
	}
}

func TestLeafSignal_NoValue(t *testing.T) {
	s := NewVector("q")
	err := s.Recompute(0)
	if err == nil {
		t.Fatal("expected error for unset leaf")
	}
	if !errors.Is(err, ErrNoValue) {
		t.Errorf("expected ErrNoValue, got %v", err)
	}
}

func TestDerivedSignal(t *testing.T) {
	q := NewVector("q")
	q.Set(Vector{1, 2})

	sum := DerivedVector("sum", func(int) (Vector, error) {
		return Vector{q.Value()[0] + q.Value()[1]}, nil
	}, q)

	if err := sum.Recompute(0); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if sum.Value()[0] != 3 {
		t.Errorf("expected 3, got %f", sum.Value()[0])
	}
}

func TestRecomputeIdempotentPerTime(t *testing.T) {
	calls := 0
	s := DerivedVector("s", func(int) (Vector, error) {
		calls++
		return Vector{1}, nil
	})

	s.Recompute(0)
	s.Recompute(0)
	if calls != 1 {
		t.Errorf("expected one evaluation at t=0, got %d", calls)
	}

	s.Recompute(1)
	if calls != 2 {
		t.Errorf("expected evaluation at t=1, got %d calls", calls)
	}
}

func TestDiamondDependencyEvaluatesOnce(t *testing.T) {
	calls := 0
	base := DerivedVector("base", func(int) (Vector, error) {
		calls++
		return Vector{1}, nil
	})
	left := DerivedVector("left", func(int) (Vector, error) {
		return base.Value().Scale(2), nil
	}, base)
	right := DerivedVector("right", func(int) (Vector, error) {
		return base.Value().Scale(3), nil
	}, base)
	top := DerivedVector("top", func(int) (Vector, error) {
		return left.Value().Add(right.Value()), nil
	}, left, right)

	if err := top.Recompute(0); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("base evaluated %d times, expected 1", calls)
	}
	if top.Value()[0] != 5 {
		t.Errorf("expected 5, got %f", top.Value()[0])
	}
}

func TestPlug(t *testing.T) {
	src := NewVector("src")
	src.Set(Vector{4, 5})
	sink := NewVector("sink")

	if err := Plug(src, sink); err != nil {
		t.Fatalf("plug failed: %v", err)
	}
	if err := sink.Recompute(0); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if sink.Value()[0] != 4 {
		t.Errorf("expected 4, got %f", sink.Value()[0])
	}

	// Sink holds a copy, not an alias.
	sink.Value()[0] = 99
	if src.Value()[0] != 4 {
		t.Error("plug aliased the source value")
	}
}

func TestPlug_SelfLoop(t *testing.T) {
	s := NewVector("s")
	if err := Plug(s, s); !errors.Is(err, ErrSelfPlug) {
		t.Errorf("expected ErrSelfPlug, got %v", err)
	}
}

func TestPlug_Cycle(t *testing.T) {
	a := NewVector("a")
	b := NewVector("b")
	if err := Plug(a, b); err != nil {
		t.Fatalf("plug failed: %v", err)
	}
	if err := Plug(b, a); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestPlug_KindMismatch(t *testing.T) {
	v := NewVector("v")
	m := NewMatrix("m")
	if err := Plug(v, m); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch, got %v", err)
	}
}

func TestVectorOps(t *testing.T) {
	v := Vector{3, 4}
	if v.Norm() != 5 {
		t.Errorf("expected norm 5, got %f", v.Norm())
	}
	if !Zero(3).IsZero() {
		t.Error("Zero should be all-zero")
	}
	c := v.Clone()
	c[0] = 9
	if v[0] != 3 {
		t.Error("Clone should copy")
	}
}
