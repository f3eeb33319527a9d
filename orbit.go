package lsp

import (
	"errors"
	"fmt"
	"math"
)

const (
	eccentricityε = 5e-5
	// keplerIterations bounds the Newton-Raphson solver of Kepler's equation.
	keplerIterations = 10
	// keplerHighE is the eccentricity above which the solver seeds at π.
	keplerHighE = 0.8
)

var errNotElliptical = errors.New("orbit is not elliptical")

// Orbit defines a closed orbit around a parent body via its in-plane
// elements. It is derived state, recomputed periodically from position and
// velocity, and read by the trajectory predictor to sample the ellipse.
type Orbit struct {
	a float64 // semi-major axis
	e float64 // eccentricity
	b float64 // semi-minor axis
	ω float64 // argument of periapsis
	μ float64 // parent gravitational parameter
}

// NewOrbitFromRV returns the orbital elements from the parent-relative
// position and velocity vectors. Hyperbolic and parabolic states have no
// closed ellipse and return errNotElliptical; callers fall back to the
// numerical predictor for those.
func NewOrbitFromRV(R, V Vector2, μ float64) (*Orbit, error) {
	r := R.Norm()
	if r < distanceε {
		return nil, errors.New("degenerate radius")
	}
	v := V.Norm()
	ξ := v*v/2 - μ/r
	if ξ >= 0 {
		return nil, errNotElliptical
	}
	a := -μ / (2 * ξ)
	// Eccentricity vector, points at periapsis.
	eVec := R.Scale(v*v - μ/r).Sub(V.Scale(R.Dot(V))).Scale(1 / μ)
	e := eVec.Norm()
	if e >= 1 {
		return nil, errNotElliptical
	}
	ω := math.Atan2(eVec.Y, eVec.X)
	b := a * math.Sqrt(1-e*e)
	return &Orbit{a, e, b, ω, μ}, nil
}

// String implements the Stringer interface.
func (o Orbit) String() string {
	return fmt.Sprintf("a=%.1f e=%.4f ω=%.3f", o.a, o.e, o.ω)
}

// SemiMajor returns the semi-major axis a.
func (o Orbit) SemiMajor() float64 { return o.a }

// Eccentricity returns e.
func (o Orbit) Eccentricity() float64 { return o.e }

// ArgPeriapsis returns ω.
func (o Orbit) ArgPeriapsis() float64 { return o.ω }

// Apoapsis returns the apoapsis radius.
func (o Orbit) Apoapsis() float64 { return o.a * (1 + o.e) }

// Periapsis returns the periapsis radius.
func (o Orbit) Periapsis() float64 { return o.a * (1 - o.e) }

// MeanMotion returns the mean motion n in rad/s.
func (o Orbit) MeanMotion() float64 {
	return math.Sqrt(o.μ / math.Pow(o.a, 3))
}

// Period returns the orbital period in seconds.
func (o Orbit) Period() float64 {
	return 2 * math.Pi / o.MeanMotion()
}

// EccentricAnomalyAt derives E from an actual parent-relative position, so
// a sampled ellipse always passes through where the vehicle really is.
func (o Orbit) EccentricAnomalyAt(rel Vector2) float64 {
	p := rel.Rotate(-o.ω)
	return math.Atan2(p.Y/o.b, p.X/o.a+o.e)
}

// MeanFromEccentric applies Kepler's equation M = E - e sin E.
func (o Orbit) MeanFromEccentric(E float64) float64 {
	return E - o.e*math.Sin(E)
}

// SolveKepler inverts Kepler's equation via Newton-Raphson. The seed is M
// itself, or π for highly eccentric orbits where M is a poor guess.
func (o Orbit) SolveKepler(M float64) float64 {
	E := M
	if o.e > keplerHighE {
		E = math.Pi
	}
	for i := 0; i < keplerIterations; i++ {
		E -= (E - o.e*math.Sin(E) - M) / (1 - o.e*math.Cos(E))
	}
	return E
}

// PointAtE returns the parent-relative position on the ellipse at eccentric
// anomaly E.
func (o Orbit) PointAtE(E float64) Vector2 {
	sinE, cosE := math.Sincos(E)
	return Vector2{o.a * (cosE - o.e), o.b * sinE}.Rotate(o.ω)
}

// VelocityAtE returns the parent-relative velocity on the ellipse at E.
func (o Orbit) VelocityAtE(E float64) Vector2 {
	sinE, cosE := math.Sincos(E)
	rate := o.MeanMotion() / (1 - o.e*cosE)
	return Vector2{-o.a * sinE, o.b * cosE}.Rotate(o.ω).Scale(rate)
}

// PositionAt predicts the parent-relative position Δt seconds after mean
// anomaly M0, used by the predictor to test SOI entry against where a child
// body will actually be, not where it currently is.
func (o Orbit) PositionAt(M0, Δt float64) Vector2 {
	M := math.Mod(M0+o.MeanMotion()*Δt, 2*math.Pi)
	return o.PointAtE(o.SolveKepler(M))
}

// RecomputeOrbits refreshes the cached orbit and mean anomaly of every
// non-locked body with a parent. It is an explicit engine operation invoked
// by the simulation loop every few ticks, not a scattered side effect.
func RecomputeOrbits(bodies []*Body) {
	for _, b := range bodies {
		if b.Parent == NoParent || b.Locked {
			continue
		}
		parent := bodies[b.Parent]
		rel := b.Position.Sub(parent.Position)
		relV := b.Velocity.Sub(parent.Velocity)
		o, err := NewOrbitFromRV(rel, relV, parent.GM())
		if err != nil {
			// Escape trajectory: drop the stale ellipse.
			b.Orbit = nil
			continue
		}
		b.Orbit = o
		b.MeanAnomaly = o.MeanFromEccentric(o.EccentricAnomalyAt(rel))
	}
}
