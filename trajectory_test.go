package lsp

import (
	"math"
	"testing"
)

// Star + planet, with the vehicle escaping the planet frame mid-prediction.
func escapeSetup() ([]*Body, Vector2, Vector2) {
	star := NewCelestial("star", Star, 1.989e30, 6.957e8, NoParent)
	planet := NewCelestial("planet", Terrestrial, 5.972e24, 6.371e6, 0)
	bodies := []*Body{star, planet}
	PlaceInOrbit(bodies, 1, 1.496e11, 0)
	RecomputeOrbits(bodies)

	soi := SOIRadius(bodies, 1)
	pos := planet.Position.Add(Vector2{soi * 0.97, 0})
	vel := planet.Velocity.Add(Vector2{2000, 0}) // well above escape speed out here
	return bodies, pos, vel
}

// Crossing an SOI boundary outward must hand the state to the parent frame
// without a jump: every step-to-step gap stays bounded by the largest
// plausible per-step motion, and a broken frame transform would teleport by
// the planet-star distance instead.
func TestPredictContinuityAcrossSOIExit(t *testing.T) {
	bodies, pos, vel := escapeSetup()
	p := NewPredictor(bodies, 200, 100)
	pred := p.Predict(pos, vel, 1, nil)

	if len(pred.Segments) != 1 {
		t.Fatalf("expected a single segment, got %d", len(pred.Segments))
	}
	seg := pred.Segments[0]
	if seg.Color != ColorPreManeuver {
		t.Fatalf("no-maneuver prediction colored %s", seg.Color)
	}
	if len(seg.Points) != 100 {
		t.Fatalf("budget not consumed: %d points", len(seg.Points))
	}
	if pred.Encounter != nil {
		t.Fatalf("unexpected encounter: %+v", pred.Encounter)
	}

	const maxGap = 2e7 // ~3x the fastest absolute motion per 200 s step
	for i := 1; i < len(seg.Points); i++ {
		if gap := seg.Points[i].Distance(seg.Points[i-1]); gap > maxGap {
			t.Fatalf("discontinuity at point %d: gap %e m", i, gap)
		}
	}

	// The path must actually leave the planet SOI.
	last := seg.Points[len(seg.Points)-1]
	if last.Distance(bodies[1].Position) < SOIRadius(bodies, 1) {
		t.Fatal("vehicle never left the planet SOI")
	}
}

// Heading at a moon must produce an SOI encounter, tested against the
// moon's predicted (not current) position, and terminate the prediction.
func TestPredictSOIEncounter(t *testing.T) {
	bodies := NewSolSystem()
	RecomputeOrbits(bodies)
	moon := bodies[2]
	soi := SOIRadius(bodies, 2)

	toMoon := moon.Position.Sub(bodies[1].Position).Unit()
	pos := moon.Position.Sub(toMoon.Scale(soi + 1e6))
	vel := moon.Velocity.Add(toMoon.Scale(500))

	p := NewPredictor(bodies, 50, 200)
	pred := p.Predict(pos, vel, 1, nil)
	if pred.Encounter == nil {
		t.Fatal("no SOI encounter predicted")
	}
	if pred.Encounter.Body != 2 {
		t.Fatalf("encounter with %s, expected the moon", bodies[pred.Encounter.Body])
	}
	if pred.Encounter.TimeTo <= 0 {
		t.Fatalf("non-positive time to encounter: %f", pred.Encounter.TimeTo)
	}
	total := 0
	for _, seg := range pred.Segments {
		total += len(seg.Points)
	}
	if total >= 200 {
		t.Fatalf("prediction did not terminate at the boundary: %d points", total)
	}
}

// With a pending node the first span samples the current ellipse itself, so
// the drawn prediction coincides with the displayed orbit, and the
// post-burn remainder renders in the second color.
func TestPredictWithManeuver(t *testing.T) {
	planet := NewCelestial("planet", Terrestrial, 5.972e24, 6.371e6, NoParent)
	bodies := []*Body{planet}

	r := 1e7
	pos := Vector2{r, 0}
	v := math.Sqrt(planet.GM() / r)
	vel := Vector2{0, v}

	orbit, err := NewOrbitFromRV(pos, vel, planet.GM())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	E0 := orbit.EccentricAnomalyAt(pos)
	node := NewManeuverNode(orbit, E0+math.Pi)
	node.Prograde = 100
	plan := &ManeuverPlan{}
	plan.Add(node, orbit, E0)

	p := NewPredictor(bodies, 10, 300)
	pred := p.Predict(pos, vel, 0, plan)

	if len(pred.Segments) < 2 {
		t.Fatalf("expected analytical + post-burn segments, got %d", len(pred.Segments))
	}
	anal := pred.Segments[0]
	if anal.Color != ColorPreManeuver {
		t.Fatalf("first segment colored %s", anal.Color)
	}
	if got := pred.Segments[len(pred.Segments)-1].Color; got != ColorPostManeuver {
		t.Fatalf("post-burn segment colored %s", got)
	}

	// The analytical span starts where the vehicle actually is and ends at
	// the node's fixed point.
	if d := anal.Points[0].Distance(pos); d > 1 {
		t.Fatalf("analytical segment starts %f m away from the vehicle", d)
	}
	nodeAbs := planet.Position.Add(node.LocalPos)
	if d := anal.Points[len(anal.Points)-1].Distance(nodeAbs); d > 1 {
		t.Fatalf("analytical segment ends %f m away from the node", d)
	}

	// Every analytical sample lies on the ellipse radius-wise.
	for i, pt := range anal.Points {
		rad := pt.Distance(planet.Position)
		if rad < orbit.Periapsis()*0.99 || rad > orbit.Apoapsis()*1.01 {
			t.Fatalf("sample %d off the ellipse: r=%f", i, rad)
		}
	}
}

func TestPredictNoNodesSingleSegment(t *testing.T) {
	planet := NewCelestial("planet", Terrestrial, 5.972e24, 6.371e6, NoParent)
	bodies := []*Body{planet}
	r := 1e7
	vel := Vector2{0, math.Sqrt(planet.GM() / r)}

	p := NewPredictor(bodies, 10, 50)
	pred := p.Predict(Vector2{r, 0}, vel, 0, &ManeuverPlan{})
	if len(pred.Segments) != 1 || len(pred.Segments[0].Points) != 50 {
		t.Fatalf("expected one 50-point segment: %+v", pred.Segments)
	}
	// Recomputed from scratch each call: same inputs, same output.
	again := p.Predict(Vector2{r, 0}, vel, 0, &ManeuverPlan{})
	for i := range pred.Segments[0].Points {
		if pred.Segments[0].Points[i] != again.Segments[0].Points[i] {
			t.Fatalf("prediction not reproducible at point %d", i)
		}
	}
}
