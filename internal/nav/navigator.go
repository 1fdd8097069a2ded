// Package nav is the movement boundary between an agent's state machine
// and whatever executes its movement.
package nav

import "github.com/udisondev/nightfall/internal/model"

// Navigator executes movement intents for one agent.
type Navigator interface {
	// SetDestination asks the executor to path toward p.
	SetDestination(p model.Vec3)

	// PathPending reports whether the last destination is still being
	// resolved into a path.
	PathPending() bool

	// RemainingDistance returns the distance left along the current path.
	RemainingDistance() float64

	// StoppingDistance returns how close to the destination counts as arrived.
	StoppingDistance() float64

	// SampleReachablePoint looks for a point reachable from the agent near
	// the given position. Returns false after maxAttempts misses.
	SampleReachablePoint(near model.Vec3, searchRadius float64, maxAttempts int) (model.Vec3, bool)

	// SetSpeed sets the movement speed in world units per second.
	SetSpeed(speed float64)
}

// Body reports an agent's pose as last resolved by the movement executor.
type Body interface {
	Position() model.Vec3
	Forward() model.Vec3
}
