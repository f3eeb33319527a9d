package lsp

import (
	"fmt"
	"math"
)

const (
	// G is the universal gravitational constant in m^3 kg^-1 s^-2.
	G = 6.67430e-11
	// g0 is the standard gravity used for ISP fuel flow, in m/s^2.
	g0 = 9.80665
	// NoParent marks a body with no gravitational parent (root frame).
	NoParent = -1
)

// BodyType defines the kind of a simulated body.
type BodyType uint8

const (
	// Star is the root of the body tree and the default reference frame.
	Star BodyType = iota + 1
	// Terrestrial is a rocky planet orbiting the star.
	Terrestrial
	// GasGiant is a giant planet orbiting the star.
	GasGiant
	// Moon orbits a Terrestrial or a GasGiant.
	Moon
	// RocketBody is the player vehicle hull.
	RocketBody
	// DebrisBody is a discarded stage or fragment with a finite lifetime.
	DebrisBody
)

func (t BodyType) String() string {
	switch t {
	case Star:
		return "star"
	case Terrestrial:
		return "terrestrial"
	case GasGiant:
		return "gas giant"
	case Moon:
		return "moon"
	case RocketBody:
		return "rocket"
	case DebrisBody:
		return "debris"
	}
	panic("cannot stringify unknown body type")
}

// Celestial reports whether bodies of this type anchor a reference frame.
func (t BodyType) Celestial() bool {
	switch t {
	case Star, Terrestrial, GasGiant, Moon:
		return true
	}
	return false
}

// Body is the physical state of anything the integrator moves: a celestial
// object, the rocket hull, or a debris fragment. Parent is an index into the
// owning arena (NoParent for the root star), never a pointer, so the body
// tree stays acyclic and serializes trivially.
type Body struct {
	Name     string
	Type     BodyType
	Position Vector2
	Velocity Vector2
	Mass     float64
	Radius   float64
	Parent   int
	// Static bodies receive no gravitational force but still exert it.
	// Used for resting vehicles and for the vehicle during save replay.
	Static bool

	// Cached elements, refreshed by RecomputeOrbits. Locked bodies keep
	// their cache untouched (scripted sequences pin them in place).
	Orbit       *Orbit
	MeanAnomaly float64
	Locked      bool

	// Debris bookkeeping; zero for every other type.
	Lifetime float64
	Age      float64
}

// String implements the Stringer interface.
func (b *Body) String() string {
	return fmt.Sprintf("%s (%s)", b.Name, b.Type)
}

// GM returns the standard gravitational parameter μ of this body.
func (b *Body) GM() float64 {
	return G * b.Mass
}

// AltitudeOf returns the altitude of a point above this body's surface.
func (b *Body) AltitudeOf(p Vector2) float64 {
	return p.Distance(b.Position) - b.Radius
}

// Expired reports whether a debris body has outlived its lifetime.
func (b *Body) Expired() bool {
	return b.Type == DebrisBody && b.Age >= b.Lifetime
}

// NewCelestial returns a celestial body at the origin; use PlaceInOrbit to
// position it around its parent.
func NewCelestial(name string, t BodyType, mass, radius float64, parent int) *Body {
	if !t.Celestial() {
		panic(fmt.Errorf("%s is not a celestial body type", t))
	}
	return &Body{Name: name, Type: t, Mass: mass, Radius: radius, Parent: parent}
}

// NewDebris returns a debris fragment inheriting the given state.
func NewDebris(name string, pos, vel Vector2, mass, radius, lifetime float64, parent int) *Body {
	return &Body{
		Name: name, Type: DebrisBody,
		Position: pos, Velocity: vel,
		Mass: mass, Radius: radius,
		Parent: parent, Lifetime: lifetime,
	}
}

// CircularOrbitSpeed returns the speed of a circular orbit of radius r
// around a mass M.
func CircularOrbitSpeed(M, r float64) float64 {
	return math.Sqrt(G * M / r)
}

// PlaceInOrbit positions body id on a circular orbit of radius r around its
// parent, at true anomaly ν, co-moving with the parent.
func PlaceInOrbit(bodies []*Body, id int, r, ν float64) {
	b := bodies[id]
	if b.Parent == NoParent {
		panic(fmt.Errorf("%s has no parent to orbit", b))
	}
	parent := bodies[b.Parent]
	b.Position = parent.Position.Add(FromAngle(ν, r))
	v := CircularOrbitSpeed(parent.Mass, r)
	b.Velocity = parent.Velocity.Add(FromAngle(ν, 1).Perpendicular().Scale(v))
}

/* Preset system used by cmd/ and the test suite. */

// NewSolSystem returns the stock four-body system: a star, a terrestrial
// planet with one moon, and an outer gas giant. Masses and radii are
// Earth-like so surface gravity and launch profiles feel familiar.
func NewSolSystem() []*Body {
	bodies := []*Body{
		NewCelestial("Sol", Star, 1.989e30, 6.957e8, NoParent),
		NewCelestial("Terra", Terrestrial, 5.972e24, 6.371e6, 0),
		NewCelestial("Luna", Moon, 7.342e22, 1.737e6, 1),
		NewCelestial("Jove", GasGiant, 1.898e27, 6.991e7, 0),
	}
	PlaceInOrbit(bodies, 1, 1.496e11, 0)
	PlaceInOrbit(bodies, 2, 3.844e8, 0)
	PlaceInOrbit(bodies, 3, 7.785e11, math.Pi/3)
	return bodies
}

// FindStar returns the index of the first star, or 0 when there is none.
func FindStar(bodies []*Body) int {
	for i, b := range bodies {
		if b.Type == Star {
			return i
		}
	}
	return 0
}
