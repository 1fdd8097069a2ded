package ai

import "github.com/udisondev/nightfall/internal/model"

// Controller represents an agent brain driven by the TickManager.
type Controller interface {
	// Start runs spawn logic
	Start()

	// Stop makes the controller inert until started again
	Stop()

	// CurrentState returns the current behavior state
	CurrentState() model.BehaviorState

	// Tick advances the controller by elapsed seconds
	Tick(elapsed float64)

	// Snapshot returns a read-only view of runtime state
	Snapshot() Snapshot
}
