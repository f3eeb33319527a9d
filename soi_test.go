package lsp

import (
	"math"
	"testing"
)

func TestSOIRadiusRoot(t *testing.T) {
	bodies := NewSolSystem()
	if r := SOIRadius(bodies, 0); !math.IsInf(r, 1) {
		t.Fatalf("root SOI = %f, expected +Inf", r)
	}
}

// The influence radius grows strictly with distance and with mass ratio.
func TestSOIMonotonicity(t *testing.T) {
	star := NewCelestial("s", Star, 1e30, 1e8, NoParent)
	planet := NewCelestial("p", Terrestrial, 1e24, 1e6, 0)
	bodies := []*Body{star, planet}

	prev := 0.0
	for _, a := range []float64{1e10, 5e10, 1e11, 5e11} {
		planet.Position = Vector2{a, 0}
		r := SOIRadius(bodies, 1)
		if r <= prev {
			t.Fatalf("SOI not increasing in a: r(%e) = %f <= %f", a, r, prev)
		}
		prev = r
	}

	planet.Position = Vector2{1e11, 0}
	prev = 0.0
	for _, m := range []float64{1e22, 1e24, 1e26, 1e28} {
		planet.Mass = m
		r := SOIRadius(bodies, 1)
		if r <= prev {
			t.Fatalf("SOI not increasing in m/M: r(m=%e) = %f <= %f", m, r, prev)
		}
		prev = r
	}
}

// Near a moon's boundary the dominant body flips moon to planet exactly at
// the computed radius. A vehicle escaping at the boundary is reclassified
// immediately after crossing.
func TestDominantBodyBoundaryFlip(t *testing.T) {
	bodies := NewSolSystem()
	moon := bodies[2]
	r := SOIRadius(bodies, 2)

	dir := Vector2{0, 1}
	inside := moon.Position.Add(dir.Scale(r * 0.999))
	outside := moon.Position.Add(dir.Scale(r * 1.001))
	if got := DominantBodyAt(bodies, inside); got != 2 {
		t.Fatalf("just inside the moon SOI resolved to %s", bodies[got])
	}
	if got := DominantBodyAt(bodies, outside); got != 1 {
		t.Fatalf("just outside the moon SOI resolved to %s", bodies[got])
	}
}

// A vehicle orbiting a moon is inside both the moon's and the planet's SOI;
// the hierarchical moons-first ordering must resolve to the moon.
func TestDominantBodyMoonFirst(t *testing.T) {
	bodies := NewSolSystem()
	moon := bodies[2]
	pos := moon.Position.Add(Vector2{moon.Radius * 3, 0})
	// Sanity: the position is also inside the planet's SOI.
	if pos.Distance(bodies[1].Position) >= SOIRadius(bodies, 1) {
		t.Fatal("test setup: position not inside the planet SOI")
	}
	if got := DominantBodyAt(bodies, pos); got != 2 {
		t.Fatalf("resolved to %s, expected the moon", bodies[got])
	}
}

// Outside every SOI the star wins, and with no star the first body does.
func TestDominantBodyFallback(t *testing.T) {
	bodies := NewSolSystem()
	far := Vector2{1e15, 1e15}
	if got := DominantBodyAt(bodies, far); got != 0 {
		t.Fatalf("deep space resolved to %s, expected the star", bodies[got])
	}

	starless := []*Body{NewCelestial("lonely", Terrestrial, 1e24, 1e6, NoParent)}
	if got := DominantBodyAt(starless, far); got != 0 {
		t.Fatalf("starless fallback resolved to %d", got)
	}
}

func TestSOIZones(t *testing.T) {
	bodies := NewSolSystem()
	moon := bodies[2]
	pos := moon.Position.Add(Vector2{moon.Radius * 2, 0})
	zones := SOIZones(bodies, pos)
	if len(zones) != 4 {
		t.Fatalf("expected 4 zones, got %d: %+v", len(zones), zones)
	}
	for i := 1; i < len(zones); i++ {
		if zones[i].Distance < zones[i-1].Distance {
			t.Fatalf("zones not sorted by distance: %+v", zones)
		}
	}
	if zones[0].Body != 2 || !zones[0].Inside {
		t.Fatalf("nearest zone should be the moon and inside: %+v", zones[0])
	}
}
