package lsp

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func vecEqual(a, b Vector2, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol)
}

func TestVectorOps(t *testing.T) {
	a := Vector2{3, 4}
	b := Vector2{-1, 2}
	if got := a.Add(b); !vecEqual(got, Vector2{2, 6}, 1e-12) {
		t.Fatalf("Add: got %+v", got)
	}
	if got := a.Sub(b); !vecEqual(got, Vector2{4, 2}, 1e-12) {
		t.Fatalf("Sub: got %+v", got)
	}
	if got := a.Scale(2); !vecEqual(got, Vector2{6, 8}, 1e-12) {
		t.Fatalf("Scale: got %+v", got)
	}
	if got := a.Norm(); !scalar.EqualWithinAbs(got, 5, 1e-12) {
		t.Fatalf("Norm: got %f", got)
	}
	if got := a.NormSquared(); !scalar.EqualWithinAbs(got, 25, 1e-12) {
		t.Fatalf("NormSquared: got %f", got)
	}
	if got := a.Dot(b); !scalar.EqualWithinAbs(got, 5, 1e-12) {
		t.Fatalf("Dot: got %f", got)
	}
	if got := a.Cross(b); !scalar.EqualWithinAbs(got, 10, 1e-12) {
		t.Fatalf("Cross: got %f", got)
	}
	if got := a.Distance(b); !scalar.EqualWithinAbs(got, math.Sqrt(16+4), 1e-12) {
		t.Fatalf("Distance: got %f", got)
	}
}

func TestVectorUnit(t *testing.T) {
	u := Vector2{3, 4}.Unit()
	if !scalar.EqualWithinAbs(u.Norm(), 1, 1e-12) {
		t.Fatalf("unit norm: got %f", u.Norm())
	}
	if got := (Vector2{}).Unit(); !vecEqual(got, Vector2{}, 1e-12) {
		t.Fatalf("zero unit: got %+v", got)
	}
}

func TestVectorRotate(t *testing.T) {
	got := Vector2{1, 0}.Rotate(math.Pi / 2)
	if !vecEqual(got, Vector2{0, 1}, 1e-12) {
		t.Fatalf("Rotate: got %+v", got)
	}
	if p := (Vector2{1, 0}).Perpendicular(); !vecEqual(p, Vector2{0, 1}, 1e-12) {
		t.Fatalf("Perpendicular: got %+v", p)
	}
	if f := FromAngle(math.Pi, 2); !vecEqual(f, Vector2{-2, 0}, 1e-12) {
		t.Fatalf("FromAngle: got %+v", f)
	}
}
