package perception

import (
	"iter"
	"math"

	"github.com/udisondev/nightfall/internal/model"
)

// DefaultEyeHeight is how far above its origin an agent looks from.
const DefaultEyeHeight = 0.5

// Viewer describes an agent's eyes for one evaluation.
type Viewer struct {
	Position        model.Vec3
	Forward         model.Vec3
	ViewDistance    float64
	ViewAngle       float64 // full cone angle in degrees
	EyeHeight       float64
	ObstructionMask model.LayerMask
}

// Result is the outcome of one sight evaluation. Recomputed every tick,
// never cached.
type Result struct {
	Visible  bool
	Target   model.Candidate // valid only if Visible
	Distance float64         // valid only if Visible
}

// Evaluate returns the closest candidate the viewer can see.
//
// A candidate is seen when all three gates pass: it is strictly closer than
// ViewDistance, strictly inside half of ViewAngle from Forward, and the ray
// from the eye to it is not obstructed by ObstructionMask. Among seen
// candidates the closest wins; on an exact distance tie the candidate that
// came first in iteration order wins.
func Evaluate(v Viewer, candidates iter.Seq[model.Candidate], q ObstructionQuery) Result {
	var res Result
	closest := math.Inf(1)
	halfAngle := v.ViewAngle / 2
	eye := v.Position.Add(model.Up.Scale(v.EyeHeight))

	for c := range candidates {
		toTarget := c.Position.Sub(v.Position)
		dist := toTarget.Length()

		if dist >= v.ViewDistance {
			continue
		}
		if model.AngleDeg(v.Forward, toTarget) >= halfAngle {
			continue
		}
		if dist > 0 && q != nil {
			if _, blocked := q.Raycast(eye, toTarget, dist, v.ObstructionMask); blocked {
				continue
			}
		}

		// Strict < keeps the first candidate on exact ties
		if dist < closest {
			closest = dist
			res = Result{Visible: true, Target: c, Distance: dist}
		}
	}

	return res
}

// Nearest returns the candidate closest to p, ignoring sight entirely.
// Ties keep the first candidate in iteration order.
func Nearest(p model.Vec3, candidates iter.Seq[model.Candidate]) (model.Candidate, bool) {
	var best model.Candidate
	bestDistSq := math.Inf(1)
	found := false

	for c := range candidates {
		if d := p.DistanceSquared(c.Position); d < bestDistSq {
			best, bestDistSq, found = c, d, true
		}
	}
	return best, found
}
