package lsp

import "math"

/* Patched-conics trajectory prediction with planned maneuvers. */

// Display colors attached to predicted segments. The renderer draws the
// pre-maneuver path in cyan and everything after a burn in orange.
const (
	ColorPreManeuver  = "cyan"
	ColorPostManeuver = "orange"
)

// analyticalSamples is the number of ellipse samples of an analytical
// coast segment between now and the next maneuver node.
const analyticalSamples = 120

// Segment is one ordered run of predicted absolute positions sharing a
// display color.
type Segment struct {
	Points []Vector2
	Color  string
}

// Encounter flags an upcoming SOI entry: which body, and in how long.
type Encounter struct {
	Body   int
	TimeTo float64
}

// Prediction is the full output of one predictor run.
type Prediction struct {
	Segments  []Segment
	Encounter *Encounter
}

// Predictor projects future motion from a snapshot of the body arena. Every
// call recomputes the whole path from scratch: the result is finite and the
// predictor itself carries no state between calls.
type Predictor struct {
	bodies []*Body
	step   float64 // seconds per numerical step
	steps  int     // total step budget per prediction
}

// NewPredictor returns a predictor over the given arena.
func NewPredictor(bodies []*Body, step float64, steps int) *Predictor {
	return &Predictor{bodies: bodies, step: step, steps: steps}
}

// Predict projects the path of a vehicle at pos/vel inside the frame of
// reference body ref, honoring the pending maneuver plan. With no nodes the
// result is a single full-length segment in the pre-maneuver color; after
// the last node the remaining budget renders in the post-maneuver color.
func (p *Predictor) Predict(pos, vel Vector2, ref int, plan *ManeuverPlan) Prediction {
	var pred Prediction
	budget := p.steps
	elapsed := 0.0
	burned := false

	nodes := []*ManeuverNode{}
	if plan != nil {
		nodes = plan.Nodes()
	}

	for _, node := range nodes {
		if budget <= 0 || pred.Encounter != nil {
			break
		}
		parent := p.bodies[ref]
		rel := pos.Sub(parent.Position)
		relV := vel.Sub(parent.Velocity)

		if !burned {
			// Between now and the first node the vehicle is still on its
			// displayed stable ellipse, so sample that ellipse directly:
			// the predicted line then coincides with it instead of
			// drifting off on a separately integrated path.
			orbit, err := NewOrbitFromRV(rel, relV, parent.GM())
			if err != nil {
				// No closed orbit (escape/atmosphere): nothing to pin the
				// node to, fall through to a plain numerical prediction.
				break
			}
			seg, endPos, endVel := p.analyticalSegment(orbit, parent, rel, node)
			pred.Segments = append(pred.Segments, seg)
			elapsed += node.TimeTo(orbit, orbit.EccentricAnomalyAt(rel))
			pos, vel = endPos, node.Apply(endPos, endVel, parent)
			burned = true
			continue
		}

		// Post-burn the ellipse on screen no longer matches the actual
		// path, so coast numerically to the node's fixed point and burn at
		// closest approach.
		target := parent.Position.Add(node.LocalPos)
		seg, enc, endPos, endVel, endRef, used, endElapsed := p.numericalSegment(
			pos, vel, ref, elapsed, budget, ColorPostManeuver, &target)
		pred.Segments = append(pred.Segments, seg)
		pred.Encounter = enc
		pos, vel, ref = endPos, endVel, endRef
		budget -= used
		elapsed = endElapsed
		if enc != nil {
			break
		}
		pos, vel = endPos, node.Apply(endPos, endVel, p.bodies[ref])
	}

	if budget > 0 && pred.Encounter == nil {
		color := ColorPreManeuver
		if burned {
			color = ColorPostManeuver
		}
		seg, enc, _, _, _, _, _ := p.numericalSegment(pos, vel, ref, elapsed, budget, color, nil)
		pred.Segments = append(pred.Segments, seg)
		pred.Encounter = enc
	}
	return pred
}

// analyticalSegment samples the current ellipse from the vehicle's actual
// eccentric anomaly to the node's stored one, wrapping forward in time.
func (p *Predictor) analyticalSegment(o *Orbit, parent *Body, rel Vector2, node *ManeuverNode) (Segment, Vector2, Vector2) {
	E0 := o.EccentricAnomalyAt(rel)
	span := node.E - E0
	for span <= 0 {
		span += 2 * math.Pi
	}
	seg := Segment{Color: ColorPreManeuver, Points: make([]Vector2, 0, analyticalSamples+1)}
	for i := 0; i <= analyticalSamples; i++ {
		E := E0 + span*float64(i)/analyticalSamples
		seg.Points = append(seg.Points, parent.Position.Add(o.PointAtE(E)))
	}
	endPos := parent.Position.Add(o.PointAtE(node.E))
	endVel := parent.Velocity.Add(o.VelocityAtE(node.E))
	return seg, endPos, endVel
}

// numericalSegment integrates the vehicle in the frame of a single dominant
// attractor, patching to a new reference at SOI boundaries. A non-nil
// target stops the segment at closest approach to that absolute point (the
// next maneuver node). An SOI entry terminates the segment (and the whole
// prediction): the conic hands off rather than continue past the boundary.
func (p *Predictor) numericalSegment(pos, vel Vector2, ref int, elapsed float64, budget int, color string, target *Vector2) (Segment, *Encounter, Vector2, Vector2, int, int, float64) {
	parent := p.bodies[ref]
	local := pos.Sub(parent.Position)
	localV := vel.Sub(parent.Velocity)
	seg := Segment{Color: color, Points: make([]Vector2, 0, budget)}

	prevTargetDist := math.Inf(1)
	approached := false
	used := 0
	for ; used < budget; used++ {
		μ := p.bodies[ref].GM()
		r := local.Norm()
		if r > distanceε {
			acc := local.Scale(-μ / (r * r * r))
			localV = localV.Add(acc.Scale(p.step))
		}
		local = local.Add(localV.Scale(p.step))
		elapsed += p.step

		abs := p.bodies[ref].Position.Add(local)
		seg.Points = append(seg.Points, abs)

		if target != nil {
			d := abs.Distance(*target)
			if d < prevTargetDist {
				approached = true
			} else if approached {
				// Past closest approach to the node point.
				used++
				break
			}
			prevTargetDist = d
		}

		// SOI entry into a child of the current reference, tested against
		// where that child WILL be at the elapsed prediction time.
		if enc := p.checkEntry(ref, local, elapsed); enc != nil {
			abs := p.bodies[ref].Position.Add(local)
			pos := abs
			vel := p.bodies[ref].Velocity.Add(localV)
			return seg, enc, pos, vel, ref, used + 1, elapsed
		}

		// SOI exit to the parent of the current reference, tested against
		// current positions: swap frames and keep integrating.
		if p.bodies[ref].Parent != NoParent && local.Norm() > SOIRadius(p.bodies, ref) {
			oldRef := p.bodies[ref]
			newRef := p.bodies[oldRef.Parent]
			local = local.Add(oldRef.Position.Sub(newRef.Position))
			localV = localV.Add(oldRef.Velocity.Sub(newRef.Velocity))
			ref = oldRef.Parent
		}
	}

	pos = p.bodies[ref].Position.Add(local)
	vel = p.bodies[ref].Velocity.Add(localV)
	return seg, nil, pos, vel, ref, used, elapsed
}

// checkEntry tests the local position against the SOI of every child of the
// reference body, each child displaced to its Kepler-predicted position at
// the elapsed prediction time.
func (p *Predictor) checkEntry(ref int, local Vector2, elapsed float64) *Encounter {
	for i, c := range p.bodies {
		if c.Parent != ref || !c.Type.Celestial() || c.Orbit == nil {
			continue
		}
		childRel := c.Orbit.PositionAt(c.MeanAnomaly, elapsed)
		if local.Distance(childRel) < SOIRadius(p.bodies, i) {
			return &Encounter{Body: i, TimeTo: elapsed}
		}
	}
	return nil
}
