package noise

import "github.com/udisondev/nightfall/internal/model"

// movingThreshold is the speed below which a body counts as standing still.
const movingThreshold = 0.1

// FootstepConfig tunes movement noise.
type FootstepConfig struct {
	WalkingNoiseRadius float64
	NoiseInterval      float64 // seconds between audible steps
	SoundBarriers      model.LayerMask
	JumpNoiseRadius    float64
}

// Footsteps rate-limits movement noise with an interval timer. The timer
// starts at zero, so the first step is audible; standing still or leaving
// the ground resets it to a full interval.
// Not safe for concurrent use: one Footsteps per moving body.
type Footsteps struct {
	emitter *Emitter
	cfg     FootstepConfig
	timer   float64
}

// NewFootsteps creates a footstep timer that emits through e.
func NewFootsteps(e *Emitter, cfg FootstepConfig) *Footsteps {
	return &Footsteps{emitter: e, cfg: cfg}
}

// Update advances the timer by elapsed seconds and emits a step when it runs
// out while the body moves on the ground. Returns whether a step was emitted.
func (f *Footsteps) Update(position model.Vec3, speed float64, grounded bool, elapsed float64) bool {
	if speed <= movingThreshold || !grounded {
		f.timer = f.cfg.NoiseInterval
		return false
	}

	f.timer -= elapsed
	if f.timer > 0 {
		return false
	}

	f.emitter.EmitNoiseMasked(position, f.cfg.WalkingNoiseRadius, f.cfg.SoundBarriers)
	f.timer = f.cfg.NoiseInterval
	return true
}

// Jump emits the jump noise if the body is on the ground.
// Returns whether the jump happened.
func (f *Footsteps) Jump(position model.Vec3, grounded bool) bool {
	if !grounded {
		return false
	}
	f.emitter.EmitNoiseMasked(position, f.cfg.JumpNoiseRadius, f.cfg.SoundBarriers)
	return true
}
