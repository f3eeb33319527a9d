package lsp

import "math"

/* Pairwise Newtonian gravity with semi-implicit (symplectic) Euler. */

// Accelerations sums the pairwise gravitational acceleration on every
// non-static body. Static bodies receive nothing but still attract. Pairs
// closer than distanceε are treated as coincident and contribute no force,
// rather than blowing up the division.
func Accelerations(bodies []*Body) []Vector2 {
	acc := make([]Vector2, len(bodies))
	for i, b := range bodies {
		if b.Static {
			continue
		}
		for j, other := range bodies {
			if i == j {
				continue
			}
			d := other.Position.Sub(b.Position)
			r2 := d.NormSquared()
			if r2 < distanceε*distanceε {
				continue
			}
			r := math.Sqrt(r2)
			acc[i] = acc[i].Add(d.Scale(G * other.Mass / (r2 * r)))
		}
	}
	return acc
}

// IntegrateStep advances every non-static body by dt: velocity from the
// summed acceleration first, THEN position from the new velocity. The order
// is what keeps closed orbits energy-stable over long runs; do not swap it.
func IntegrateStep(bodies []*Body, dt float64) {
	acc := Accelerations(bodies)
	for i, b := range bodies {
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Add(acc[i].Scale(dt))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
}

// Integrate advances the system by dt seconds of simulated time, substepped
// at maxStep so that time warp (which can multiply dt by thousands) never
// produces an unstable per-step velocity change.
func Integrate(bodies []*Body, dt, maxStep float64) {
	for remaining := dt; remaining > 0; remaining -= maxStep {
		IntegrateStep(bodies, math.Min(remaining, maxStep))
	}
}

// GravityAt returns the gravitational acceleration of the celestial bodies
// felt at a point, skipping the body at index exclude (pass NoParent to
// include everything). Useful for surface gravity readouts and landing UIs.
func GravityAt(bodies []*Body, p Vector2, exclude int) Vector2 {
	var acc Vector2
	for i, b := range bodies {
		if i == exclude || !b.Type.Celestial() {
			continue
		}
		d := b.Position.Sub(p)
		r2 := d.NormSquared()
		if r2 < distanceε*distanceε {
			continue
		}
		r := math.Sqrt(r2)
		acc = acc.Add(d.Scale(G * b.Mass / (r2 * r)))
	}
	return acc
}
