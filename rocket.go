package lsp

import "fmt"

/* The player vehicle: thrust, fuel, staging. */

// Stage is one section of the vehicle stack. The bottom stage carries the
// active engine; staging discards it as debris.
type Stage struct {
	Name     string
	DryMass  float64 // kg
	FuelMass float64 // kg remaining
	Thrust   float64 // N at full throttle
	ISP      float64 // specific impulse, s
}

// Mass returns the current total mass of the stage.
func (s *Stage) Mass() float64 {
	return s.DryMass + s.FuelMass
}

// String implements the Stringer interface.
func (s *Stage) String() string {
	return fmt.Sprintf("%s (%.0f kg, %.0f kg fuel)", s.Name, s.Mass(), s.FuelMass)
}

// Rocket owns the vehicle hull body plus everything the arena does not
// track: orientation, engine state and the stage stack. The resting flag is
// NOT here: the surface collision resolver owns it, via the System.
type Rocket struct {
	Name   string
	BodyID int // arena index of the hull body

	Rotation        float64
	AngularVelocity float64
	Throttle        float64 // commanded, within [0,1]
	RotationCmd     float64 // commanded rotation rate, rad/s

	Stages []*Stage // index 0 is the bottom (active) stage
	Spent  int      // stages already discarded

	HalfWidth, HalfHeight float64
}

// NewRocket assembles a vehicle from its stage stack, bottom first.
func NewRocket(name string, bodyID int, halfWidth, halfHeight float64, stages ...*Stage) *Rocket {
	return &Rocket{
		Name: name, BodyID: bodyID,
		HalfWidth: halfWidth, HalfHeight: halfHeight,
		Stages: stages,
	}
}

// Mass returns the total vehicle mass including remaining fuel.
func (r *Rocket) Mass() float64 {
	m := 0.0
	for _, s := range r.Stages {
		m += s.Mass()
	}
	return m
}

// ActiveStage returns the bottom stage, or nil once the stack is empty.
func (r *Rocket) ActiveStage() *Stage {
	if len(r.Stages) == 0 {
		return nil
	}
	return r.Stages[0]
}

// Fuel returns the fuel remaining in the active stage.
func (r *Rocket) Fuel() float64 {
	if s := r.ActiveStage(); s != nil {
		return s.FuelMass
	}
	return 0
}

// Thrusting reports whether the engine is actually producing thrust:
// throttle up AND fuel left. This is what breaks the resting state.
func (r *Rocket) Thrusting() bool {
	return r.Throttle > 0 && r.Fuel() > 0
}

// Accelerate burns fuel for dt seconds and returns the thrust acceleration
// in world space, along the hull's up direction. With the throttle closed
// or the tanks dry it is a no-op.
func (r *Rocket) Accelerate(pose Pose, dt float64) (Vector2, float64) {
	s := r.ActiveStage()
	if s == nil || r.Throttle <= 0 || s.FuelMass <= 0 {
		return Vector2{}, 0
	}
	F := s.Thrust * r.Throttle
	burn := F / (s.ISP * g0) * dt
	if burn > s.FuelMass {
		// Partial burn: the tank runs dry mid-step.
		F *= s.FuelMass / burn
		burn = s.FuelMass
	}
	s.FuelMass -= burn
	return pose.Up().Scale(F / r.Mass()), burn
}

// Stage discards the bottom stage and returns it so the caller can spawn
// the matching debris body. Returns nil when nothing is left to drop.
func (r *Rocket) Stage() *Stage {
	if len(r.Stages) <= 1 {
		// The last stage is the capsule, it does not separate.
		return nil
	}
	dropped := r.Stages[0]
	r.Stages = r.Stages[1:]
	r.Spent++
	return dropped
}

// DefaultCollider returns the oriented-box strategy sized to this hull.
func (r *Rocket) DefaultCollider() CollisionStrategy {
	return NewOBBCollider(r.HalfWidth, r.HalfHeight)
}
