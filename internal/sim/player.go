package sim

import (
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
	"github.com/udisondev/nightfall/internal/noise"
)

// arrivalEpsilon is how close a player must get to a waypoint to move on.
const arrivalEpsilon = 1e-6

// Player is a scripted perceivable entity walking a waypoint route. Legs
// between waypoints are pathed on the level like an agent's.
// Only the simulation goroutine moves a player; Position is safe to read
// from anywhere.
type Player struct {
	id    uint32
	name  string
	tag   string
	mover *nav.GridAgent
	steps *noise.Footsteps

	route   []model.Vec3
	loop    bool
	next    int
	stopped bool
}

// ObjectID returns the player's object ID.
func (p *Player) ObjectID() uint32 { return p.id }

// Name returns the scenario name of the player.
func (p *Player) Name() string { return p.name }

// Tag returns the perception tag.
func (p *Player) Tag() string { return p.tag }

// Position returns the current position.
func (p *Player) Position() model.Vec3 { return p.mover.Position() }

// Stopped reports whether a non-looping route is finished.
func (p *Player) Stopped() bool { return p.stopped }

// Jump makes jump noise at the player's position.
func (p *Player) Jump() bool {
	return p.steps.Jump(p.Position(), true)
}

// step walks the route and lets the footstep timer decide on noise.
func (p *Player) step(elapsed float64) {
	if !p.stopped && !p.mover.PathPending() && p.mover.RemainingDistance() <= arrivalEpsilon {
		p.advance()
	}

	before := p.mover.Position()
	p.mover.Step(elapsed)
	after := p.mover.Position()

	speed := 0.0
	if elapsed > 0 {
		speed = after.Distance(before) / elapsed
	}
	p.steps.Update(after, speed, true, elapsed)
}

// advance heads to the next waypoint, or stops at the end of an open route.
func (p *Player) advance() {
	if p.next >= len(p.route) {
		if !p.loop || len(p.route) == 0 {
			p.stopped = true
			return
		}
		p.next = 0
	}
	p.mover.SetDestination(p.route[p.next])
	p.next++
}
