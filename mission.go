package lsp

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

/* The per-frame orchestrator. Single threaded: everything below runs inside
one tick, in a fixed order, and nothing else mutates the arena. */

// EventType enumerates what the loop reports to outside collaborators.
type EventType uint8

const (
	// EventStaged fires when a stage separates and its debris spawns.
	EventStaged EventType = iota + 1
	// EventLanded fires on the Flying to Resting transition.
	EventLanded
	// EventLiftoff fires on the Resting to Flying transition.
	EventLiftoff
	// EventCrashed fires when debris impacts above the crash speed.
	EventCrashed
	// EventSOIChange fires when the vehicle's dominant body changes.
	EventSOIChange
	// EventDebrisExpired fires when debris outlives its lifetime.
	EventDebrisExpired
)

func (t EventType) String() string {
	switch t {
	case EventStaged:
		return "staged"
	case EventLanded:
		return "landed"
	case EventLiftoff:
		return "liftoff"
	case EventCrashed:
		return "crashed"
	case EventSOIChange:
		return "soi-change"
	case EventDebrisExpired:
		return "debris-expired"
	}
	panic("cannot stringify unknown event type")
}

// Event is a message from the loop to rendering/UI collaborators. The
// physics core pushes these over a channel and never calls back out.
// Name identifies the body at the moment of emission: arena indices shift
// when debris is reaped, so consumers must not dereference Body later.
type Event struct {
	Type  EventType
	Body  int     // arena index the event concerns, NoParent if none
	Name  string  // name of that body, captured at emission
	Speed float64 // impact or separation speed where meaningful
	Time  float64 // elapsed game time at emission
}

// System owns the body arena, the vehicle and the per-tick ordering. All
// shared mutable state (arena, resting flag) is owned here exclusively and
// mutated only within Tick.
type System struct {
	Bodies []*Body
	Rocket *Rocket
	Plan   *ManeuverPlan

	TimeScale float64 // pause/play multiplier
	TimeWarp  float64 // acceleration multiplier
	Elapsed   float64 // simulated seconds since start

	collider CollisionStrategy // vehicle strategy, injected

	restingOn int     // arena index of the supporting body, NoParent in flight
	restDir   Vector2 // surface direction saved at touchdown
	restDist  float64 // exact center-to-center distance while parked

	dominant int // last resolved dominant body for the vehicle

	events   chan Event
	funcQ    []func() // deferred to the post-substep boundary, e.g. staging
	logger   kitlog.Logger
	tick     uint64
	disposed bool
}

// NewSystem wires a simulation around an arena and a vehicle. A nil
// strategy selects the vehicle's oriented-box collider; injecting
// CircleCollider instead selects the low-fidelity variant.
func NewSystem(bodies []*Body, rocket *Rocket, strategy CollisionStrategy) *System {
	if strategy == nil {
		strategy = rocket.DefaultCollider()
	}
	s := &System{
		Bodies:    bodies,
		Rocket:    rocket,
		Plan:      &ManeuverPlan{},
		TimeScale: 1,
		TimeWarp:  1,
		collider:  strategy,
		restingOn: NoParent,
		dominant:  NoParent,
		events:    make(chan Event, 64),
		logger:    NewLogger("sim"),
	}
	RecomputeOrbits(bodies)
	s.dominant = DominantBodyFor(bodies, s.body())
	return s
}

// Events returns the channel rendering/UI collaborators consume.
func (s *System) Events() <-chan Event {
	return s.events
}

// Resting returns the resting flag and the supporting body index.
func (s *System) Resting() (bool, int) {
	return s.restingOn != NoParent, s.restingOn
}

// body returns the vehicle hull body.
func (s *System) body() *Body {
	return s.Bodies[s.Rocket.BodyID]
}

func (s *System) emit(e Event) {
	e.Time = s.Elapsed
	select {
	case s.events <- e:
	default: // collaborators lagging; physics never blocks on them
	}
}

// LogStatus reports the propagation state as a one-line status record.
func (s *System) LogStatus() {
	b := s.body()
	resting, on := s.Resting()
	onName := "-"
	if resting {
		onName = s.Bodies[on].Name
	}
	s.logger.Log("level", "info", "t", s.Elapsed, "tick", s.tick,
		"fuel(kg)", s.Rocket.Fuel(), "speed", b.Velocity.Norm(),
		"resting", resting, "on", onName, "dominant", s.Bodies[s.dominant].Name)
}

// CommandStage requests a stage separation. Edge triggered: the separation
// itself runs at the deferred-queue point of the next tick, never in the
// middle of the gravity substeps.
func (s *System) CommandStage() {
	s.funcQ = append(s.funcQ, s.stageNow)
}

func (s *System) stageNow() {
	dropped := s.Rocket.Stage()
	if dropped == nil {
		return
	}
	b := s.body()
	down := Pose{Rotation: s.Rocket.Rotation}.Up().Scale(-1)
	pos := b.Position.Add(down.Scale(s.Rocket.HalfHeight + 1))
	vel := b.Velocity.Add(down.Scale(2)) // gentle separation impulse
	debris := NewDebris(dropped.Name, pos, vel, dropped.Mass(), s.Rocket.HalfWidth, 600, s.dominant)
	s.Bodies = append(s.Bodies, debris)
	b.Mass = s.Rocket.Mass()
	s.emit(Event{Type: EventStaged, Body: len(s.Bodies) - 1, Name: dropped.Name})
	s.logger.Log("level", "info", "staged", dropped.Name, "mass(kg)", s.Rocket.Mass())
}

// Tick advances the simulation by dt real seconds. Ordering is fixed:
// controls, gravity substeps, deferred staging, liftoff check, collision,
// resting maintenance, debris upkeep, periodic orbit recompute. Collision
// must see post-gravity positions; do not reorder.
func (s *System) Tick(dt float64) {
	if s.disposed {
		return
	}
	warped := dt * s.TimeScale * s.TimeWarp
	if warped <= 0 {
		return
	}
	s.tick++
	cfg := lspConfig()
	b := s.body()

	// Controls. Thrust with fuel breaks resting before gravity runs, so a
	// full-throttle launch lifts on this very tick. The commanded rate and
	// any residual tumble both integrate here, contact or not.
	s.Rocket.Rotation += (s.Rocket.RotationCmd + s.Rocket.AngularVelocity) * warped
	if resting, _ := s.Resting(); resting && s.Rocket.Thrusting() {
		s.breakResting()
	}
	if resting, _ := s.Resting(); !resting {
		pose := s.pose()
		acc, _ := s.Rocket.Accelerate(pose, warped)
		b.Velocity = b.Velocity.Add(acc.Scale(warped))
		b.Mass = s.Rocket.Mass()
	}

	// Gravity, substepped against time warp.
	Integrate(s.Bodies, warped, cfg.MaxStep)

	// Deferred actions queued during the tick (staging).
	for _, f := range s.funcQ {
		if f != nil {
			f()
		}
	}
	s.funcQ = s.funcQ[:0]
	b = s.body()

	// A deferred action may have re-armed the engine (e.g. staging to a
	// fueled upper stage); honor the liftoff before collision runs.
	if resting, _ := s.Resting(); resting && s.Rocket.Thrusting() {
		s.breakResting()
	}

	if resting, _ := s.Resting(); !resting {
		s.resolveVehicleContact(warped)
	} else {
		s.maintainResting(warped)
	}

	s.tendDebris(warped)

	s.Elapsed += warped
	if int(s.tick)%cfg.OrbitRecomputeEvery == 0 {
		RecomputeOrbits(s.Bodies)
		s.resolveDominant()
	}
}

// pose snapshots the vehicle kinematics for the collision strategy.
func (s *System) pose() Pose {
	b := s.body()
	return Pose{
		Position: b.Position, Velocity: b.Velocity,
		Rotation: s.Rocket.Rotation, AngularVelocity: s.Rocket.AngularVelocity,
	}
}

func (s *System) applyPose(p Pose) {
	b := s.body()
	b.Position = p.Position
	b.Velocity = p.Velocity
	s.Rocket.Rotation = p.Rotation
	s.Rocket.AngularVelocity = p.AngularVelocity
}

// nearestCelestial returns the celestial body whose surface is closest.
func (s *System) nearestCelestial(pos Vector2) int {
	nearest, best := NoParent, math.Inf(1)
	for i, b := range s.Bodies {
		if !b.Type.Celestial() {
			continue
		}
		if d := b.AltitudeOf(pos); d < best {
			nearest, best = i, d
		}
	}
	return nearest
}

func (s *System) resolveVehicleContact(dt float64) {
	b := s.body()
	nearest := s.nearestCelestial(b.Position)
	if nearest == NoParent {
		return
	}
	surface := s.Bodies[nearest]
	pose := s.pose()
	res := s.collider.Resolve(&pose, surface, s.Rocket.Thrusting(), dt)
	s.applyPose(pose)
	if res.Resting {
		s.restingOn = nearest
		s.restDir = b.Position.Sub(surface.Position).Unit()
		s.restDist = b.Position.Distance(surface.Position)
		b.Static = true
		s.emit(Event{Type: EventLanded, Body: nearest, Name: surface.Name, Speed: res.ImpactSpeed})
		s.logger.Log("level", "info", "landed", surface.Name, "speed", res.ImpactSpeed)
	}
}

// maintainResting keeps a parked vehicle exactly on the surface: the
// contact force cancels local gravity (the hull is static through the
// substeps) and the position is re-pinned to the exact touchdown distance,
// co-moving with the supporting body. Cheaper and creep-free compared to
// re-running the full contact resolution every tick.
func (s *System) maintainResting(dt float64) {
	surface := s.Bodies[s.restingOn]
	b := s.body()
	b.Position = surface.Position.Add(s.restDir.Scale(s.restDist))
	b.Velocity = surface.Velocity
	s.Rocket.AngularVelocity = 0
}

func (s *System) breakResting() {
	on := s.restingOn
	s.restingOn = NoParent
	b := s.body()
	b.Static = false
	b.Velocity = s.Bodies[on].Velocity
	s.emit(Event{Type: EventLiftoff, Body: on, Name: s.Bodies[on].Name})
	s.logger.Log("level", "info", "liftoff", s.Bodies[on].Name, "throttle", s.Rocket.Throttle)
}

// tendDebris ages debris, resolves its simple circular contact, and reaps
// anything expired or crashed. Debris bodies always live at the arena tail,
// behind every celestial and the vehicle, so removal never invalidates a
// Parent index.
func (s *System) tendDebris(dt float64) {
	for i := len(s.Bodies) - 1; i >= 0; i-- {
		d := s.Bodies[i]
		if d.Type != DebrisBody {
			continue
		}
		d.Age += dt
		if d.Expired() {
			// Emit before compacting the slice so the index is still valid.
			s.emit(Event{Type: EventDebrisExpired, Body: i, Name: d.Name})
			s.Bodies = append(s.Bodies[:i], s.Bodies[i+1:]...)
			continue
		}
		nearest := s.nearestCelestial(d.Position)
		if nearest == NoParent {
			continue
		}
		pose := Pose{Position: d.Position, Velocity: d.Velocity}
		collider := NewCircleCollider(d.Radius, true)
		res := collider.Resolve(&pose, s.Bodies[nearest], false, dt)
		if res.Crashed {
			s.emit(Event{Type: EventCrashed, Body: i, Name: d.Name, Speed: res.ImpactSpeed})
			s.Bodies = append(s.Bodies[:i], s.Bodies[i+1:]...)
			continue
		}
		d.Position = pose.Position
		d.Velocity = pose.Velocity
		if res.Resting {
			d.Static = true
		}
	}
}

func (s *System) resolveDominant() {
	dom := DominantBodyFor(s.Bodies, s.body())
	if dom != s.dominant {
		s.dominant = dom
		s.body().Parent = dom
		s.emit(Event{Type: EventSOIChange, Body: dom, Name: s.Bodies[dom].Name})
		s.logger.Log("level", "info", "soi", s.Bodies[dom].Name)
	}
}

// Dominant returns the current dominant body index for the vehicle.
func (s *System) Dominant() int {
	return s.dominant
}

// Predict runs the trajectory predictor from the vehicle's current state.
func (s *System) Predict(step float64, steps int) Prediction {
	b := s.body()
	p := NewPredictor(s.Bodies, step, steps)
	return p.Predict(b.Position, b.Velocity, s.dominant, s.Plan)
}

// Dispose stops further ticks and releases the event channel. Coarse by
// design: there is no mid-tick cancellation.
func (s *System) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	close(s.events)
}
