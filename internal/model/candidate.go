package model

// TagPlayer is the tag carried by player candidates.
const TagPlayer = "player"

// Candidate is a potential perception target as seen during one tick.
// The core never owns a candidate: it holds the ID as a lookup handle and
// must tolerate the ID no longer resolving.
type Candidate struct {
	ID       uint32
	Tag      string
	Position Vec3
}

// NoiseEvent is one emitted sound. Built by an emitter call, fanned out to
// listeners and discarded when the call returns.
type NoiseEvent struct {
	Origin   Vec3
	Radius   float64
	Barriers LayerMask
}

// RaycastHit describes the first obstruction a ray query ran into.
type RaycastHit struct {
	Point    Vec3
	Distance float64
	Layers   LayerMask
}
