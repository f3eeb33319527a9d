package lsp

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// distanceε is the threshold below which two bodies are treated as coincident.
const distanceε = 1e-6

// Vector2 is a plane vector. All operations return new values, the receiver
// is never mutated.
type Vector2 struct {
	X, Y float64
}

// Add returns v + u.
func (v Vector2) Add(u Vector2) Vector2 {
	return Vector2{v.X + u.X, v.Y + u.Y}
}

// Sub returns v - u.
func (v Vector2) Sub(u Vector2) Vector2 {
	return Vector2{v.X - u.X, v.Y - u.Y}
}

// Scale returns v scaled by f.
func (v Vector2) Scale(f float64) Vector2 {
	return Vector2{v.X * f, v.Y * f}
}

// Norm returns the norm of v.
func (v Vector2) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// NormSquared returns the squared norm, to compare distances without the sqrt.
func (v Vector2) NormSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Unit returns the unit vector of v, or the zero vector if v is nil.
func (v Vector2) Unit() Vector2 {
	n := v.Norm()
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return Vector2{}
	}
	return Vector2{v.X / n, v.Y / n}
}

// Dot performs the inner product.
func (v Vector2) Dot(u Vector2) float64 {
	return v.X*u.X + v.Y*u.Y
}

// Cross performs the planar cross product, i.e. the Z component of the
// three dimensional cross product of v and u lifted into the plane.
func (v Vector2) Cross(u Vector2) float64 {
	return v.X*u.Y - v.Y*u.X
}

// Distance returns the distance between v and u.
func (v Vector2) Distance(u Vector2) float64 {
	return v.Sub(u).Norm()
}

// Rotate returns v rotated by θ radians, counter clockwise.
func (v Vector2) Rotate(θ float64) Vector2 {
	sinθ, cosθ := math.Sincos(θ)
	return Vector2{v.X*cosθ - v.Y*sinθ, v.X*sinθ + v.Y*cosθ}
}

// Perpendicular returns v rotated by +90 degrees.
func (v Vector2) Perpendicular() Vector2 {
	return Vector2{-v.Y, v.X}
}

// FromAngle creates a vector of a given magnitude pointing at θ radians.
func FromAngle(θ, magnitude float64) Vector2 {
	sinθ, cosθ := math.Sincos(θ)
	return Vector2{magnitude * cosθ, magnitude * sinθ}
}
