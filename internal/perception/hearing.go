package perception

import (
	"iter"

	"github.com/udisondev/nightfall/internal/model"
)

// OcclusionFactor scales a sound's radius when a barrier sits between the
// source and the listener.
const OcclusionFactor = 0.5

// Listener is anything that reacts to sounds.
type Listener interface {
	ObjectID() uint32
	Position() model.Vec3
	// OnHeardSound is called synchronously when a sound reaches the
	// listener. Returns whether the listener reacted to it.
	OnHeardSound(origin model.Vec3) bool
}

// EffectiveRadius returns the radius a sound carries toward a listener,
// halved when the path is occluded.
func EffectiveRadius(radius float64, occluded bool) float64 {
	if occluded {
		return radius * OcclusionFactor
	}
	return radius
}

// Propagate delivers a noise event to every listener in range and returns
// the IDs of the listeners that were notified, in iteration order.
//
// For each listener the straight-line distance is checked against the
// effective radius, which is halved when a ray from the origin to the
// listener hits ev.Barriers. Listeners beyond the base radius are skipped
// without a ray. A non-positive radius notifies nobody.
func Propagate(ev model.NoiseEvent, listeners iter.Seq[Listener], q ObstructionQuery) []uint32 {
	if ev.Radius <= 0 {
		return nil
	}

	var notified []uint32
	for l := range listeners {
		toListener := l.Position().Sub(ev.Origin)
		dist := toListener.Length()
		if dist > ev.Radius {
			continue
		}

		occluded := false
		if dist > 0 && q != nil {
			_, occluded = q.Raycast(ev.Origin, toListener, dist, ev.Barriers)
		}

		if dist <= EffectiveRadius(ev.Radius, occluded) {
			l.OnHeardSound(ev.Origin)
			notified = append(notified, l.ObjectID())
		}
	}
	return notified
}
