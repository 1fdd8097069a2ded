package nav

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/udisondev/nightfall/internal/game/geo"
	"github.com/udisondev/nightfall/internal/model"
)

// GridAgent moves one body across a geo.Level. It implements both
// Navigator and Body.
//
// SetDestination only records the request; the path is resolved on the next
// Step, so PathPending stays true until then.
type GridAgent struct {
	level *geo.Level
	rng   *rand.Rand

	mu               sync.RWMutex
	position         model.Vec3
	forward          model.Vec3
	speed            float64
	stoppingDistance float64
	destination      model.Vec3
	hasDestination   bool
	pending          bool
	arrived          bool // reached the stop point of the current path
	path             []model.Vec3
}

// NewGridAgent creates a movement executor standing at position.
// A nil rng gets a fresh unseeded source.
func NewGridAgent(level *geo.Level, position, forward model.Vec3, stoppingDistance float64, rng *rand.Rand) *GridAgent {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	forward = forward.Flat().Normalized()
	if forward == (model.Vec3{}) {
		forward = model.Forward
	}
	return &GridAgent{
		level:            level,
		rng:              rng,
		position:         position,
		forward:          forward,
		stoppingDistance: max(0, stoppingDistance),
	}
}

// Position returns the current position.
func (g *GridAgent) Position() model.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

// Forward returns the current facing (unit length, on the ground plane).
func (g *GridAgent) Forward() model.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.forward
}

// Speed returns the current speed.
func (g *GridAgent) Speed() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.speed
}

// Destination returns the last requested destination.
func (g *GridAgent) Destination() (model.Vec3, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.destination, g.hasDestination
}

// SetDestination records a new destination; the path is resolved on Step.
func (g *GridAgent) SetDestination(p model.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.destination = p
	g.hasDestination = true
	g.pending = true
	g.arrived = false
}

// PathPending reports whether the destination still awaits a path.
func (g *GridAgent) PathPending() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pending
}

// RemainingDistance returns the length of the rest of the path.
// +Inf while a path is pending, 0 when there is no path. Once the agent has
// stopped it never reports more than the stopping distance.
func (g *GridAgent) RemainingDistance() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.pending {
		return math.Inf(1)
	}
	return g.remainingLocked()
}

func (g *GridAgent) remainingLocked() float64 {
	total := g.pathLengthLocked()
	if g.arrived {
		return min(total, g.stoppingDistance)
	}
	return total
}

func (g *GridAgent) pathLengthLocked() float64 {
	total := 0.0
	prev := g.position
	for _, p := range g.path {
		total += prev.Distance(p)
		prev = p
	}
	return total
}

// StoppingDistance returns the arrival tolerance.
func (g *GridAgent) StoppingDistance() float64 {
	return g.stoppingDistance
}

// SetSpeed sets the movement speed.
func (g *GridAgent) SetSpeed(speed float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.speed = max(0, speed)
}

// Warp moves the body instantly and drops the current path.
func (g *GridAgent) Warp(p model.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
	g.path = nil
	g.pending = false
	g.arrived = false
}

// Step resolves a pending path and advances along it by speed*elapsed,
// stopping once within the stopping distance of the destination.
func (g *GridAgent) Step(elapsed float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending {
		g.pending = false
		g.path = g.level.FindPath(g.position, g.destination)
		if g.path == nil {
			slog.Debug("no path to destination",
				"from", g.position,
				"to", g.destination)
		}
	}

	if g.arrived {
		return
	}

	budget := g.speed * elapsed
	// Summed segment lengths drift on diagonal paths, so reaching the stop
	// point is recorded rather than re-measured.
	toStop := g.pathLengthLocked() - g.stoppingDistance
	if toStop <= budget && len(g.path) > 0 {
		g.arrived = true
	}
	budget = min(budget, toStop)

	for budget > 0 && len(g.path) > 0 {
		seg := g.path[0].Sub(g.position)
		d := seg.Length()

		if dir := seg.Flat().Normalized(); dir != (model.Vec3{}) {
			g.forward = dir
		}

		if d <= budget {
			g.position = g.path[0]
			g.path = g.path[1:]
			budget -= d
			continue
		}
		g.position = g.position.Add(seg.Scale(budget / d))
		budget = 0
	}
}

// SampleReachablePoint picks random points in a disc of searchRadius
// around near, snaps each to the closest walkable spot within half the
// radius and accepts the first one a path reaches.
func (g *GridAgent) SampleReachablePoint(near model.Vec3, searchRadius float64, maxAttempts int) (model.Vec3, bool) {
	from := g.Position()
	snap := searchRadius / 2

	for range maxAttempts {
		angle := g.rng.Float64() * 2 * math.Pi
		r := searchRadius * math.Sqrt(g.rng.Float64())
		probe := near.Add(model.NewVec3(math.Cos(angle)*r, 0, math.Sin(angle)*r))

		p, ok := g.level.NearestWalkable(probe, snap)
		if !ok {
			continue
		}
		if g.level.FindPath(from, p) == nil {
			continue
		}
		return p, true
	}

	return model.Vec3{}, false
}
