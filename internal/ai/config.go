package ai

import (
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/perception"
)

// Tuning defaults for a freshly spawned agent.
const (
	DefaultViewDistance      = 15.0
	DefaultViewAngle         = 90.0
	DefaultSpeed             = 3.5
	DefaultChaseSpeed        = 6.0
	DefaultAggressionDecay   = 5.0
	DefaultWanderInterval    = 8.0
	DefaultWanderRadius      = 20.0
	DefaultSampleAttempts    = 30
	DefaultObstructionLayers = model.LayerWall | model.LayerDoor

	// wanderArrivalThreshold re-rolls the wander point once the agent is
	// this close to it, even if the wander timer has not run out.
	wanderArrivalThreshold = 1.0
)

// Config is the per-agent tuning.
type Config struct {
	Kind model.AgentKind

	ViewDistance    float64
	ViewAngle       float64 // full cone, degrees
	EyeHeight       float64
	ObstructionMask model.LayerMask

	DefaultSpeed float64
	ChaseSpeed   float64

	AggressionDecaySeconds float64
	WanderIntervalSeconds  float64
	WanderRadius           float64
	SampleAttempts         int

	// TargetTag selects which candidates the agent perceives.
	TargetTag string
}

// DefaultConfig returns the stock tuning for kind.
func DefaultConfig(kind model.AgentKind) Config {
	return Config{
		Kind:                   kind,
		ViewDistance:           DefaultViewDistance,
		ViewAngle:              DefaultViewAngle,
		EyeHeight:              perception.DefaultEyeHeight,
		ObstructionMask:        DefaultObstructionLayers,
		DefaultSpeed:           DefaultSpeed,
		ChaseSpeed:             DefaultChaseSpeed,
		AggressionDecaySeconds: DefaultAggressionDecay,
		WanderIntervalSeconds:  DefaultWanderInterval,
		WanderRadius:           DefaultWanderRadius,
		SampleAttempts:         DefaultSampleAttempts,
		TargetTag:              model.TagPlayer,
	}
}

// normalized fills unset sampling fields and the target tag.
func (c Config) normalized() Config {
	if c.WanderRadius <= 0 {
		c.WanderRadius = DefaultWanderRadius
	}
	if c.SampleAttempts <= 0 {
		c.SampleAttempts = DefaultSampleAttempts
	}
	if c.TargetTag == "" {
		c.TargetTag = model.TagPlayer
	}
	c.AggressionDecaySeconds = max(0, c.AggressionDecaySeconds)
	return c
}
