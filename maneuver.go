package lsp

import (
	"fmt"
	"math"
	"sort"
)

// ManeuverNode is a player-planned burn pinned to a fixed point of the
// current orbit. The point is stored as an eccentric anomaly plus the
// orbital-plane coordinates cached at planning time, so the node does not
// drift as the vehicle moves along the ellipse. The planned velocity change
// is decomposed in the parent-relative frame.
type ManeuverNode struct {
	E        float64 // eccentric anomaly of the node on the planning orbit
	LocalPos Vector2 // cached parent-relative position of the node
	Prograde float64 // m/s along the velocity direction
	Normal   float64 // m/s along prograde rotated +90 degrees
	Radial   float64 // m/s away from the parent
}

// NewManeuverNode pins a node at eccentric anomaly E of the given orbit.
func NewManeuverNode(o *Orbit, E float64) *ManeuverNode {
	return &ManeuverNode{E: E, LocalPos: o.PointAtE(E)}
}

// DeltaV returns the magnitude of the planned velocity change.
func (n *ManeuverNode) DeltaV() float64 {
	return math.Sqrt(n.Prograde*n.Prograde + n.Normal*n.Normal + n.Radial*n.Radial)
}

// String implements the Stringer interface.
func (n *ManeuverNode) String() string {
	return fmt.Sprintf("node@E=%.3f Δv=%.1f m/s", n.E, n.DeltaV())
}

// TimeTo returns the coast duration from the current eccentric anomaly to
// this node, wrapping forward so the result is always positive in time.
func (n *ManeuverNode) TimeTo(o *Orbit, currentE float64) float64 {
	ΔM := o.MeanFromEccentric(n.E) - o.MeanFromEccentric(currentE)
	for ΔM <= 0 {
		ΔM += 2 * math.Pi
	}
	return ΔM / o.MeanMotion()
}

// Apply executes the burn: the vehicle velocity is decomposed RELATIVE TO
// ITS PARENT into the prograde/normal/radial basis, the planned components
// are added, and the parent's absolute velocity is restored. Doing this in
// the absolute frame would point the burn wrong whenever the parent moves.
func (n *ManeuverNode) Apply(pos, vel Vector2, parent *Body) Vector2 {
	relV := vel.Sub(parent.Velocity)
	prograde := relV.Unit()
	normal := prograde.Perpendicular()
	radial := pos.Sub(parent.Position).Unit()
	relV = relV.
		Add(prograde.Scale(n.Prograde)).
		Add(normal.Scale(n.Normal)).
		Add(radial.Scale(n.Radial))
	return parent.Velocity.Add(relV)
}

// ManeuverPlan is the per-flight ordered list of pending nodes.
type ManeuverPlan struct {
	nodes []*ManeuverNode
}

// Add inserts a node and keeps the plan ordered by time to encounter.
func (p *ManeuverPlan) Add(n *ManeuverNode, o *Orbit, currentE float64) {
	p.nodes = append(p.nodes, n)
	p.Sort(o, currentE)
}

// Sort re-orders the plan by time to encounter from the current anomaly.
func (p *ManeuverPlan) Sort(o *Orbit, currentE float64) {
	sort.SliceStable(p.nodes, func(i, j int) bool {
		return p.nodes[i].TimeTo(o, currentE) < p.nodes[j].TimeTo(o, currentE)
	})
}

// Remove deletes a node from the plan.
func (p *ManeuverPlan) Remove(n *ManeuverNode) {
	for i, node := range p.nodes {
		if node == n {
			p.nodes = append(p.nodes[:i], p.nodes[i+1:]...)
			return
		}
	}
}

// PopPassed consumes the head node once the vehicle has passed it.
func (p *ManeuverPlan) PopPassed() *ManeuverNode {
	if len(p.nodes) == 0 {
		return nil
	}
	n := p.nodes[0]
	p.nodes = p.nodes[1:]
	return n
}

// Nodes returns the pending nodes in encounter order.
func (p *ManeuverPlan) Nodes() []*ManeuverNode {
	return p.nodes
}

// Clear empties the plan.
func (p *ManeuverPlan) Clear() {
	p.nodes = nil
}
