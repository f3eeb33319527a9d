package lsp

import (
	"math"
	"sort"
)

/* Sphere-of-influence resolution: which body's gravity owns a position. */

// soiExponent is the mass-ratio exponent of the influence radius. Together
// with the configured scale it is a gameplay tuning, not the Laplace value.
const soiExponent = 0.4

// SOIRadius returns the sphere-of-influence radius of body id. A body with
// no parent is the root reference frame and has an infinite SOI. The parent
// distance stands in for the semi-major axis, which is a fine approximation
// for the near-circular orbits of the stock systems.
func SOIRadius(bodies []*Body, id int) float64 {
	b := bodies[id]
	if b.Parent == NoParent {
		return math.Inf(1)
	}
	parent := bodies[b.Parent]
	a := b.Position.Distance(parent.Position)
	return a * math.Pow(b.Mass/parent.Mass, soiExponent) * lspConfig().SOIScale
}

// DominantBodyAt returns the index of the body whose gravity dominates at a
// position. Moons are tested first: a vehicle orbiting a moon is inside the
// SOI of both the moon and the moon's planet, and must resolve to the moon.
// Inside no SOI at all, the first star (or the first body) wins.
func DominantBodyAt(bodies []*Body, pos Vector2) int {
	for i, b := range bodies {
		if b.Type == Moon && pos.Distance(b.Position) < SOIRadius(bodies, i) {
			return i
		}
	}
	for i, b := range bodies {
		if (b.Type == Terrestrial || b.Type == GasGiant) && pos.Distance(b.Position) < SOIRadius(bodies, i) {
			return i
		}
	}
	return FindStar(bodies)
}

// DominantBodyFor resolves the dominant body for a simulated vehicle.
func DominantBodyFor(bodies []*Body, vehicle *Body) int {
	return DominantBodyAt(bodies, vehicle.Position)
}

// SOIZone describes one body's influence sphere relative to a position,
// for visualization and diagnostics.
type SOIZone struct {
	Body     int
	Radius   float64
	Distance float64
	Inside   bool
}

// SOIZones enumerates every celestial SOI sorted by distance from pos.
func SOIZones(bodies []*Body, pos Vector2) []SOIZone {
	zones := make([]SOIZone, 0, len(bodies))
	for i, b := range bodies {
		if !b.Type.Celestial() {
			continue
		}
		r := SOIRadius(bodies, i)
		d := pos.Distance(b.Position)
		zones = append(zones, SOIZone{Body: i, Radius: r, Distance: d, Inside: d < r})
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Distance < zones[j].Distance })
	return zones
}
