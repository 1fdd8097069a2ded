// Package perception evaluates what an agent can see and who can hear a
// sound. It is pure: results are returned to the caller, which owns every
// state change.
package perception

import "github.com/udisondev/nightfall/internal/model"

// ObstructionQuery casts a ray against the level.
// Implemented by geo.Level; tests use fakes.
type ObstructionQuery interface {
	// Raycast reports the first obstruction on the ray from origin toward
	// direction within maxDistance whose layers intersect mask.
	Raycast(origin, direction model.Vec3, maxDistance float64, mask model.LayerMask) (model.RaycastHit, bool)
}

// ObstructionFunc adapts a plain function to ObstructionQuery.
type ObstructionFunc func(origin, direction model.Vec3, maxDistance float64, mask model.LayerMask) (model.RaycastHit, bool)

// Raycast calls f.
func (f ObstructionFunc) Raycast(origin, direction model.Vec3, maxDistance float64, mask model.LayerMask) (model.RaycastHit, bool) {
	return f(origin, direction, maxDistance, mask)
}

// Clear is an ObstructionQuery that never hits anything.
var Clear = ObstructionFunc(func(model.Vec3, model.Vec3, float64, model.LayerMask) (model.RaycastHit, bool) {
	return model.RaycastHit{}, false
})
