package lsp

import (
	"encoding/json"
	"fmt"
	"math"
)

/* Versioned persistence of the simulation state. */

// SaveVersion is the record version this engine writes and accepts.
const SaveVersion = 1

// replayStep is the fixed integration step of the load-time fast-forward.
// Fixed so that loading the same record always reproduces the same sky.
const replayStep = 0.1

// StageState is the persisted form of one stage of the part stack.
type StageState struct {
	Name     string  `json:"name"`
	DryMass  float64 `json:"dryMass"`
	FuelMass float64 `json:"fuelMass"`
	Thrust   float64 `json:"thrust"`
	ISP      float64 `json:"isp"`
}

// RocketState is the persisted vehicle kinematics and stack.
type RocketState struct {
	Position        Vector2      `json:"position"`
	Velocity        Vector2      `json:"velocity"`
	Rotation        float64      `json:"rotation"`
	AngularVelocity float64      `json:"angularVelocity"`
	Fuel            float64      `json:"fuel"`
	StageIndex      int          `json:"stageIndex"`
	PartStack       []StageState `json:"partStack"`
}

// SimulationState is the persisted time control state.
type SimulationState struct {
	TimeScale float64 `json:"timeScale"`
	TimeWarp  float64 `json:"timeWarp"`
}

// SaveState is the full versioned record. Camera is an opaque blob owned by
// the rendering collaborator; the engine round-trips it untouched.
type SaveState struct {
	Version         int             `json:"version"`
	ElapsedGameTime float64         `json:"elapsedGameTime"`
	Rocket          RocketState     `json:"rocket"`
	Camera          json.RawMessage `json:"camera,omitempty"`
	Simulation      SimulationState `json:"simulation"`
}

// Snapshot captures the current state as a versioned record.
func (s *System) Snapshot(camera json.RawMessage) SaveState {
	b := s.body()
	stack := make([]StageState, len(s.Rocket.Stages))
	for i, st := range s.Rocket.Stages {
		stack[i] = StageState{st.Name, st.DryMass, st.FuelMass, st.Thrust, st.ISP}
	}
	return SaveState{
		Version:         SaveVersion,
		ElapsedGameTime: s.Elapsed,
		Rocket: RocketState{
			Position: b.Position, Velocity: b.Velocity,
			Rotation: s.Rocket.Rotation, AngularVelocity: s.Rocket.AngularVelocity,
			Fuel: s.Rocket.Fuel(), StageIndex: s.Rocket.Spent, PartStack: stack,
		},
		Camera:     camera,
		Simulation: SimulationState{TimeScale: s.TimeScale, TimeWarp: s.TimeWarp},
	}
}

// Marshal serializes the record.
func (st SaveState) Marshal() ([]byte, error) {
	return json.Marshal(st)
}

// Restore rebuilds the simulation from a saved record. freshBodies must
// return the celestial arena in its t=0 configuration; the celestials are
// then deterministically fast-forwarded to the saved elapsed time at fixed
// steps, with the vehicle static so it takes no part in gravity during the
// replay, and the vehicle's saved kinematics are restored verbatim.
// A record with the wrong version aborts without mutating live state.
func (s *System) Restore(raw []byte, freshBodies func() []*Body) error {
	var record SaveState
	if err := json.Unmarshal(raw, &record); err != nil {
		s.logger.Log("level", "error", "restore", "unreadable", "err", err)
		return fmt.Errorf("restore: %w", err)
	}
	if record.Version != SaveVersion {
		s.logger.Log("level", "error", "restore", "version-mismatch", "got", record.Version, "want", SaveVersion)
		return fmt.Errorf("restore: unsupported save version %d", record.Version)
	}

	bodies := freshBodies()
	hull := &Body{
		Name: s.Rocket.Name, Type: RocketBody,
		Mass: s.Rocket.Mass(), Radius: s.Rocket.HalfWidth,
		Parent: FindStar(bodies), Static: true,
	}
	bodies = append(bodies, hull)
	rocketID := len(bodies) - 1

	for remaining := record.ElapsedGameTime; remaining > 0; remaining -= replayStep {
		IntegrateStep(bodies, math.Min(remaining, replayStep))
	}

	// Replay done: restore the vehicle verbatim and swap everything in.
	hull.Static = false
	hull.Position = record.Rocket.Position
	hull.Velocity = record.Rocket.Velocity

	stages := make([]*Stage, len(record.Rocket.PartStack))
	for i, st := range record.Rocket.PartStack {
		stages[i] = &Stage{st.Name, st.DryMass, st.FuelMass, st.Thrust, st.ISP}
	}
	s.Bodies = bodies
	s.Rocket.BodyID = rocketID
	s.Rocket.Rotation = record.Rocket.Rotation
	s.Rocket.AngularVelocity = record.Rocket.AngularVelocity
	s.Rocket.Stages = stages
	s.Rocket.Spent = record.Rocket.StageIndex
	hull.Mass = s.Rocket.Mass()
	s.Elapsed = record.ElapsedGameTime
	s.TimeScale = record.Simulation.TimeScale
	s.TimeWarp = record.Simulation.TimeWarp
	s.restingOn = NoParent
	RecomputeOrbits(s.Bodies)
	s.dominant = DominantBodyFor(s.Bodies, hull)
	hull.Parent = s.dominant
	s.logger.Log("level", "info", "restore", "ok", "t", s.Elapsed)
	return nil
}
