// Package noise is the emitter side of hearing: anything that makes a sound
// (footsteps, jumps, doors) calls an Emitter, which fans the event out to
// every listener in range.
package noise

import (
	"iter"
	"log/slog"

	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/perception"
)

// ListenerSource enumerates the listeners a sound may reach.
// world.Registry.Listeners fits it.
type ListenerSource func() iter.Seq[perception.Listener]

// Emitter broadcasts sounds. It keeps no per-call state, so it is safe to
// call at any rate from any goroutine; rate limiting is the caller's job.
type Emitter struct {
	listeners ListenerSource
	query     perception.ObstructionQuery
	barriers  model.LayerMask
}

// NewEmitter creates an emitter. barriers is the mask EmitNoise uses to
// decide whether a sound is occluded on its way to a listener.
func NewEmitter(listeners ListenerSource, q perception.ObstructionQuery, barriers model.LayerMask) *Emitter {
	if q == nil {
		q = perception.Clear
	}
	return &Emitter{
		listeners: listeners,
		query:     q,
		barriers:  barriers,
	}
}

// EmitNoise broadcasts a sound of radius at origin using the emitter's
// default barrier mask.
func (e *Emitter) EmitNoise(origin model.Vec3, radius float64) {
	e.EmitNoiseMasked(origin, radius, e.barriers)
}

// EmitNoiseMasked broadcasts a sound whose occlusion is decided by barriers.
func (e *Emitter) EmitNoiseMasked(origin model.Vec3, radius float64, barriers model.LayerMask) {
	e.emit(model.NoiseEvent{Origin: origin, Radius: radius, Barriers: barriers})
}

func (e *Emitter) emit(ev model.NoiseEvent) []uint32 {
	if e.listeners == nil || ev.Radius <= 0 {
		return nil
	}

	notified := perception.Propagate(ev, e.listeners(), e.query)
	if len(notified) > 0 {
		slog.Debug("noise heard",
			"origin", ev.Origin,
			"radius", ev.Radius,
			"listeners", notified)
	}
	return notified
}
