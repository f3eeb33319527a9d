package lsp

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestOrbitFromCircularRV(t *testing.T) {
	μ := G * 5.972e24
	r := 7e6
	v := math.Sqrt(μ / r)
	o, err := NewOrbitFromRV(Vector2{r, 0}, Vector2{0, v}, μ)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !scalar.EqualWithinAbs(o.SemiMajor(), r, 1) {
		t.Fatalf("a = %f, expected %f", o.SemiMajor(), r)
	}
	if o.Eccentricity() > eccentricityε {
		t.Fatalf("e = %f for a circular orbit", o.Eccentricity())
	}
	expPeriod := 2 * math.Pi * math.Sqrt(r*r*r/μ)
	if !scalar.EqualWithinAbs(o.Period(), expPeriod, 1e-3) {
		t.Fatalf("period = %f, expected %f", o.Period(), expPeriod)
	}
}

func TestOrbitNotElliptical(t *testing.T) {
	μ := G * 5.972e24
	r := 7e6
	vEsc := math.Sqrt(2 * μ / r)
	if _, err := NewOrbitFromRV(Vector2{r, 0}, Vector2{0, vEsc * 1.1}, μ); err == nil {
		t.Fatal("expected an error for a hyperbolic state")
	}
	if _, err := NewOrbitFromRV(Vector2{}, Vector2{0, 1}, μ); err == nil {
		t.Fatal("expected an error for a degenerate radius")
	}
}

func TestKeplerRoundTrip(t *testing.T) {
	for _, e := range []float64{0.0, 0.1, 0.5, 0.85, 0.95} {
		o := Orbit{a: 1e7, e: e, b: 1e7 * math.Sqrt(1-e*e), μ: G * 5.972e24}
		for _, E := range []float64{0.1, 1.0, 2.5, math.Pi, 5.0} {
			M := o.MeanFromEccentric(E)
			got := o.SolveKepler(M)
			// Compare via the equation itself to dodge angle wrapping.
			if res := got - e*math.Sin(got) - M; !scalar.EqualWithinAbs(res, 0, 1e-9) {
				t.Fatalf("e=%f E=%f: residual %e", e, E, res)
			}
		}
	}
}

func TestEccentricAnomalyFromPosition(t *testing.T) {
	μ := G * 5.972e24
	o := Orbit{a: 1e7, e: 0.3, b: 1e7 * math.Sqrt(1-0.3*0.3), ω: 0.7, μ: μ}
	for _, E := range []float64{-2, -0.5, 0.4, 1.9, 3.0} {
		p := o.PointAtE(E)
		got := o.EccentricAnomalyAt(p)
		if !scalar.EqualWithinAbs(math.Sin(got), math.Sin(E), 1e-9) ||
			!scalar.EqualWithinAbs(math.Cos(got), math.Cos(E), 1e-9) {
			t.Fatalf("E=%f: got %f", E, got)
		}
	}
}

func TestVelocityAtEMatchesFiniteDifference(t *testing.T) {
	μ := G * 5.972e24
	o := Orbit{a: 1e7, e: 0.2, b: 1e7 * math.Sqrt(1-0.2*0.2), ω: 1.1, μ: μ}
	E := 0.8
	M := o.MeanFromEccentric(E)
	dt := 1e-3
	p0 := o.PointAtE(o.SolveKepler(M))
	p1 := o.PointAtE(o.SolveKepler(M + o.MeanMotion()*dt))
	numerical := p1.Sub(p0).Scale(1 / dt)
	analytical := o.VelocityAtE(E)
	if !vecEqual(numerical, analytical, analytical.Norm()*1e-3) {
		t.Fatalf("velocity mismatch: numerical %+v analytical %+v", numerical, analytical)
	}
}

func TestPositionAtPredictsForward(t *testing.T) {
	μ := G * 5.972e24
	o := Orbit{a: 1e7, e: 0.0, b: 1e7, μ: μ}
	start := o.PositionAt(0, 0)
	quarter := o.PositionAt(0, o.Period()/4)
	// A quarter period later the position is 90 degrees around.
	if !scalar.EqualWithinAbs(start.Dot(quarter), 0, start.Norm()*quarter.Norm()*1e-6) {
		t.Fatalf("quarter-period positions not orthogonal: %+v vs %+v", start, quarter)
	}
}

func TestRecomputeOrbits(t *testing.T) {
	bodies := NewSolSystem()
	RecomputeOrbits(bodies)
	for _, i := range []int{1, 2, 3} {
		if bodies[i].Orbit == nil {
			t.Fatalf("%s has no cached orbit", bodies[i])
		}
	}
	if bodies[0].Orbit != nil {
		t.Fatal("the root star should not carry an orbit")
	}

	// An escaping body drops its stale ellipse.
	parent := bodies[1]
	esc := NewCelestial("probe", Moon, 1e3, 1, 1)
	esc.Position = parent.Position.Add(Vector2{1e7, 0})
	vEsc := math.Sqrt(2 * parent.GM() / 1e7)
	esc.Velocity = parent.Velocity.Add(Vector2{0, vEsc * 1.2})
	esc.Orbit = &Orbit{}
	bodies = append(bodies, esc)
	RecomputeOrbits(bodies)
	if esc.Orbit != nil {
		t.Fatal("escaping body kept a cached ellipse")
	}

	// Locked bodies keep their cache untouched.
	locked := bodies[2]
	locked.Locked = true
	was := locked.Orbit
	locked.Velocity = locked.Velocity.Scale(3)
	RecomputeOrbits(bodies)
	if locked.Orbit != was {
		t.Fatal("locked body orbit was recomputed")
	}
}
