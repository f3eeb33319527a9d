package lsp

import "math"

/* Surface contact resolution and the resting state machine. */

// contactε is the altitude below which a hull is considered in contact.
const contactε = 0.1

// tippingRate is the angular velocity kick applied per tick while the
// center of mass overhangs the support interval.
const tippingRate = 0.005

// Pose is the kinematic state a collision strategy acts on. The strategies
// mutate it in place; nothing else aliases it across ticks.
type Pose struct {
	Position        Vector2
	Velocity        Vector2
	Rotation        float64
	AngularVelocity float64
}

// Up returns the hull's up direction in world space.
func (p Pose) Up() Vector2 {
	sinθ, cosθ := math.Sincos(p.Rotation)
	return Vector2{-sinθ, cosθ}
}

// Right returns the hull's right direction in world space.
func (p Pose) Right() Vector2 {
	sinθ, cosθ := math.Sincos(p.Rotation)
	return Vector2{cosθ, sinθ}
}

// ContactResult reports what a resolution pass did.
type ContactResult struct {
	Contact     bool
	Resting     bool
	Crashed     bool
	ImpactSpeed float64
}

// CollisionStrategy resolves contact between a vehicle and the surface of a
// body. The strategy is chosen once at construction and injected; there is
// no global mode flag.
type CollisionStrategy interface {
	Resolve(pose *Pose, body *Body, thrusting bool, dt float64) ContactResult
}

// OBBCollider resolves an oriented-box hull against a circular surface.
// This is the full-fidelity strategy used for the rocket: corner contact,
// impulse response with torque, and a tipping check so a vehicle parked on
// its nose falls over instead of balancing forever.
type OBBCollider struct {
	HalfWidth  float64
	HalfHeight float64
}

// NewOBBCollider returns the oriented-box strategy for a hull of the given
// half extents.
func NewOBBCollider(halfWidth, halfHeight float64) *OBBCollider {
	return &OBBCollider{HalfWidth: halfWidth, HalfHeight: halfHeight}
}

// corners returns the hull corners in world space. Order: bottom-left,
// bottom-right, top-right, top-left.
func (c *OBBCollider) corners(pose *Pose) [4]Vector2 {
	up := pose.Up().Scale(c.HalfHeight)
	right := pose.Right().Scale(c.HalfWidth)
	return [4]Vector2{
		pose.Position.Sub(up).Sub(right),
		pose.Position.Sub(up).Add(right),
		pose.Position.Add(up).Add(right),
		pose.Position.Add(up).Sub(right),
	}
}

// Resolve implements the CollisionStrategy interface.
func (c *OBBCollider) Resolve(pose *Pose, body *Body, thrusting bool, dt float64) ContactResult {
	cfg := lspConfig()
	corners := c.corners(pose)

	minAlt := math.Inf(1)
	for _, corner := range corners {
		if alt := body.AltitudeOf(corner); alt < minAlt {
			minAlt = alt
		}
	}
	if minAlt >= contactε {
		return ContactResult{}
	}

	// The midpoint of the bottom two corners is the contact point: stable
	// under small rotations, where the lowest corner flips side to side
	// and makes the response jitter.
	contact := corners[0].Add(corners[1]).Scale(0.5)

	// Push out along the radial surface normal, not the corner direction,
	// and translate the corners by the same correction so the torque math
	// below stays consistent within this tick.
	normal := pose.Position.Sub(body.Position).Unit()
	correction := normal.Scale(-minAlt)
	pose.Position = pose.Position.Add(correction)
	contact = contact.Add(correction)
	for i := range corners {
		corners[i] = corners[i].Add(correction)
	}

	result := ContactResult{Contact: true}
	relV := pose.Velocity.Sub(body.Velocity)
	vn := relV.Dot(normal)
	if vn < 0 {
		result.ImpactSpeed = -vn
		tangent := normal.Perpendicular()
		vt := relV.Dot(tangent)
		newRelV := normal.Scale(-vn * cfg.Restitution).Add(tangent.Scale(vt * cfg.Friction))
		impulse := newRelV.Sub(relV)
		pose.Velocity = body.Velocity.Add(newRelV)

		// Contact torque: offset cross impulse, scaled down hard because
		// the impulse is in velocity units, then gated by a noise floor.
		offset := contact.Sub(pose.Position)
		τ := offset.Cross(impulse) * cfg.TorqueScale
		if math.Abs(τ) > cfg.AngularNoise {
			pose.AngularVelocity += τ
		}
		relV = newRelV
	}

	// Tipping: only meaningful at low speed, when the vehicle is settling
	// rather than bouncing. Project the touching corners onto the surface
	// tangent; if the center of mass overhangs that support interval, kick
	// the rotation in the direction that tips it further.
	tipping := false
	if relV.Norm() < cfg.TippingSpeed {
		tangent := normal.Perpendicular()
		supportMin, supportMax := math.Inf(1), math.Inf(-1)
		supported := false
		for _, corner := range corners {
			if body.AltitudeOf(corner) < cfg.ContactBand {
				s := corner.Sub(body.Position).Dot(tangent)
				supportMin = math.Min(supportMin, s)
				supportMax = math.Max(supportMax, s)
				supported = true
			}
		}
		if supported {
			com := pose.Position.Sub(body.Position).Dot(tangent)
			if com > supportMax {
				pose.AngularVelocity += tippingRate
				tipping = true
			} else if com < supportMin {
				pose.AngularVelocity -= tippingRate
				tipping = true
			}
		}
	}

	// Contact only bleeds spin off. Integrating the rotation itself is the
	// simulation loop's job, in flight and on the ground alike.
	pose.AngularVelocity *= cfg.AngularDamping
	if math.Abs(pose.AngularVelocity) < cfg.AngularNoise {
		pose.AngularVelocity = 0
	}

	// Resting transition: slow enough, not spinning, not mid-topple, and
	// not trying to lift off. Snap to co-moving rest, no residual drift.
	speed := pose.Velocity.Sub(body.Velocity).Norm()
	if speed < cfg.RestingSpeed && math.Abs(pose.AngularVelocity) < cfg.RestingAngular && !tipping && !thrusting {
		pose.Velocity = body.Velocity
		pose.AngularVelocity = 0
		result.Resting = true
	}
	return result
}

// CircleCollider is the simple circular-hull strategy: no orientation, no
// torque. Debris uses it, and it doubles as the low-fidelity fallback for
// vehicles when injected instead of the oriented box.
type CircleCollider struct {
	Radius  float64
	Fragile bool // crash instead of bouncing above the crash speed
}

// NewCircleCollider returns the circular strategy.
func NewCircleCollider(radius float64, fragile bool) *CircleCollider {
	return &CircleCollider{Radius: radius, Fragile: fragile}
}

// Resolve implements the CollisionStrategy interface.
func (c *CircleCollider) Resolve(pose *Pose, body *Body, thrusting bool, dt float64) ContactResult {
	cfg := lspConfig()
	alt := pose.Position.Distance(body.Position) - body.Radius - c.Radius
	if alt >= contactε {
		return ContactResult{}
	}

	normal := pose.Position.Sub(body.Position).Unit()
	pose.Position = pose.Position.Add(normal.Scale(-alt))

	result := ContactResult{Contact: true}
	relV := pose.Velocity.Sub(body.Velocity)
	vn := relV.Dot(normal)
	if vn < 0 {
		result.ImpactSpeed = -vn
		if c.Fragile && result.ImpactSpeed > cfg.CrashSpeed {
			result.Crashed = true
			return result
		}
		tangent := normal.Perpendicular()
		vt := relV.Dot(tangent)
		newRelV := normal.Scale(-vn * cfg.Restitution).Add(tangent.Scale(vt * cfg.Friction))
		pose.Velocity = body.Velocity.Add(newRelV)
	}

	speed := pose.Velocity.Sub(body.Velocity).Norm()
	if speed < cfg.RestingSpeed && !thrusting {
		pose.Velocity = body.Velocity
		result.Resting = true
	}
	return result
}
