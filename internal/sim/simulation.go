// Package sim runs a scenario headless: it builds the level, players,
// doors and agents, and drives them with a fixed or real-time tick.
package sim

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/game/geo"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
	"github.com/udisondev/nightfall/internal/noise"
	"github.com/udisondev/nightfall/internal/spawn"
	"github.com/udisondev/nightfall/internal/world"
)

// defaultBarriers is the occlusion mask for scripted noise events.
const defaultBarriers = model.LayerWall | model.LayerDoor | model.LayerSoundBarrier

// Simulation owns one running scenario.
type Simulation struct {
	scenario config.Scenario
	level    *geo.Level
	registry *world.Registry
	ids      *world.ObjectIDGenerator
	manager  *ai.TickManager
	spawner  *spawn.Manager
	emitter  *noise.Emitter

	players []*Player
	doors   []*noise.Door
	events  []config.EventConfig
	fired   int

	clockBits atomic.Uint64 // float64 seconds of simulated time
	ticks     atomic.Uint64
}

// New builds a simulation from a validated scenario.
func New(sc config.Scenario) (*Simulation, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	level, err := geo.ParseLevel(sc.Level.Rows, sc.Level.CellSize)
	if err != nil {
		return nil, fmt.Errorf("building level: %w", err)
	}

	seed := sc.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Simulation{
		scenario: sc,
		level:    level,
		registry: world.NewRegistry(),
		ids:      world.NewObjectIDGenerator(),
		manager:  ai.NewTickManager(),
	}
	s.spawner = spawn.NewManager(level, s.registry, s.ids, s.manager, seed)
	s.emitter = noise.NewEmitter(s.registry.Listeners, level, defaultBarriers)

	for i, dc := range sc.Doors {
		d, err := s.buildDoor(dc)
		if err != nil {
			return nil, fmt.Errorf("door %d: %w", i, err)
		}
		s.doors = append(s.doors, d)
	}

	for _, pc := range sc.Players {
		p, err := s.spawnPlayer(pc, seed)
		if err != nil {
			return nil, err
		}
		s.players = append(s.players, p)
	}

	// Agents spawn after players so aggressive agents find their prey.
	for _, as := range sc.Agents {
		if _, err := s.spawner.DoSpawn(as, sc.Archetypes[as.Archetype]); err != nil {
			return nil, err
		}
	}

	s.events = slices.Clone(sc.Events)
	slices.SortStableFunc(s.events, func(a, b config.EventConfig) int {
		return cmp.Compare(a.At, b.At)
	})

	slog.Info("simulation ready",
		"level", fmt.Sprintf("%dx%d", level.Width(), level.Depth()),
		"agents", s.spawner.SpawnCount(),
		"players", len(s.players),
		"doors", len(s.doors),
		"events", len(s.events),
		"seed", seed)

	return s, nil
}

func (s *Simulation) buildDoor(dc config.DoorConfig) (*noise.Door, error) {
	barriers, err := model.ParseLayerMask(dc.SoundBarriers)
	if err != nil {
		return nil, err
	}
	return noise.NewDoor(s.level, geo.Cell{X: dc.X, Z: dc.Z}, dc.Open, dc.NoiseRadius, barriers, s.emitter)
}

func (s *Simulation) spawnPlayer(pc config.PlayerConfig, seed uint64) (*Player, error) {
	barriers, err := model.ParseLayerMask(pc.SoundBarriers)
	if err != nil {
		return nil, fmt.Errorf("player %q: %w", pc.Name, err)
	}
	tag := pc.Tag
	if tag == "" {
		tag = model.TagPlayer
	}

	id := s.ids.NextEntityID()
	start := pc.Route[0]
	mover := nav.NewGridAgent(s.level, start, model.Forward, 0, rand.New(rand.NewPCG(seed, uint64(id))))
	mover.SetSpeed(pc.Speed)

	p := &Player{
		id:    id,
		name:  pc.Name,
		tag:   tag,
		mover: mover,
		steps: noise.NewFootsteps(s.emitter, noise.FootstepConfig{
			WalkingNoiseRadius: pc.WalkingNoiseRadius,
			NoiseInterval:      pc.NoiseInterval,
			SoundBarriers:      barriers,
			JumpNoiseRadius:    pc.JumpNoiseRadius,
		}),
		route: pc.Route,
		loop:  pc.Loop,
		next:  1,
	}
	if len(pc.Route) == 1 {
		p.stopped = true
	}

	if err := s.registry.AddEntity(p); err != nil {
		return nil, fmt.Errorf("player %q: %w", pc.Name, err)
	}
	return p, nil
}

// Step advances the world by elapsed seconds: players move and make
// footstep noise, due events fire, agents think, then agents move.
func (s *Simulation) Step(elapsed float64) {
	clock := s.Clock() + elapsed
	s.clockBits.Store(math.Float64bits(clock))
	s.ticks.Add(1)

	for _, p := range s.players {
		p.step(elapsed)
	}

	s.fireEvents(clock)

	s.manager.TickAll(elapsed)

	for _, sp := range s.spawner.All() {
		sp.Mover.Step(elapsed)
	}
}

func (s *Simulation) fireEvents(clock float64) {
	for s.fired < len(s.events) && s.events[s.fired].At.Seconds() <= clock {
		ev := s.events[s.fired]
		s.fired++

		switch ev.Kind {
		case config.EventToggleDoor:
			if err := s.doors[ev.Door].Toggle(); err != nil {
				slog.Warn("door event failed", "door", ev.Door, "error", err)
			}
		case config.EventJump:
			if p, ok := s.Player(ev.Player); ok {
				p.Jump()
			}
		case config.EventNoise:
			s.emitter.EmitNoise(ev.Position, ev.Radius)
		}

		slog.Info("event fired",
			"at", ev.At,
			"kind", ev.Kind)
	}
}

// RunFor steps the simulation with the scenario's fixed tick interval until
// d of simulated time has passed.
func (s *Simulation) RunFor(d time.Duration) {
	dt := s.scenario.TickInterval.Seconds()
	target := s.Clock() + d.Seconds()
	for s.Clock()+dt/2 < target {
		s.Step(dt)
	}
}

// Run ticks the simulation in real time until the scenario duration has
// elapsed (0 = forever) or ctx is canceled. Elapsed time is measured, so a
// late tick advances the world by however long it really took.
func (s *Simulation) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.scenario.TickInterval)
	defer ticker.Stop()

	limit := s.scenario.Duration.Seconds()
	last := time.Now()

	slog.Info("simulation started",
		"tickInterval", s.scenario.TickInterval,
		"duration", s.scenario.Duration)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "clock", s.Clock())
			return ctx.Err()

		case now := <-ticker.C:
			s.Step(now.Sub(last).Seconds())
			last = now

			if limit > 0 && s.Clock() >= limit {
				slog.Info("simulation finished",
					"clock", s.Clock(),
					"ticks", s.Ticks())
				return nil
			}
		}
	}
}

// Clock returns simulated seconds since start.
func (s *Simulation) Clock() float64 {
	return math.Float64frombits(s.clockBits.Load())
}

// Ticks returns the number of steps taken.
func (s *Simulation) Ticks() uint64 {
	return s.ticks.Load()
}

// Level returns the simulated level.
func (s *Simulation) Level() *geo.Level { return s.level }

// Emitter returns the simulation's noise emitter.
func (s *Simulation) Emitter() *noise.Emitter { return s.emitter }

// Manager returns the agent tick manager.
func (s *Simulation) Manager() *ai.TickManager { return s.manager }

// Spawner returns the agent spawn manager.
func (s *Simulation) Spawner() *spawn.Manager { return s.spawner }

// Agent returns the agent spawned under name.
func (s *Simulation) Agent(name string) (*ai.Agent, bool) {
	sp, ok := s.spawner.Get(name)
	if !ok {
		return nil, false
	}
	return sp.Agent, true
}

// Player returns the player named name.
func (s *Simulation) Player(name string) (*Player, bool) {
	for _, p := range s.players {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// Door returns the i-th scenario door.
func (s *Simulation) Door(i int) (*noise.Door, bool) {
	if i < 0 || i >= len(s.doors) {
		return nil, false
	}
	return s.doors[i], true
}

// AgentNames returns agent names in spawn order.
func (s *Simulation) AgentNames() []string {
	return s.spawner.Names()
}

// Despawn stops an agent and removes it from the world.
// Call it from the goroutine that steps the simulation.
func (s *Simulation) Despawn(name string) bool {
	return s.spawner.Despawn(name)
}

// RemovePlayer takes a player out of the world. Agents holding it as a
// target stop resolving it. Call it from the goroutine that steps the
// simulation.
func (s *Simulation) RemovePlayer(name string) bool {
	i := slices.IndexFunc(s.players, func(p *Player) bool { return p.name == name })
	if i < 0 {
		return false
	}
	s.registry.RemoveEntity(s.players[i].id)
	s.players = slices.Delete(s.players, i, i+1)
	return true
}

// LogSnapshots writes one line per agent with its current state.
func (s *Simulation) LogSnapshots() {
	snaps := s.manager.Snapshots()
	for _, snap := range snaps {
		name, _ := s.spawner.NameOf(snap.ObjectID)
		slog.Info("agent",
			"clock", fmt.Sprintf("%.2f", s.Clock()),
			"name", name,
			"kind", snap.Kind,
			"state", snap.State,
			"visible", snap.HasVisibleTarget,
			"aggression", fmt.Sprintf("%.2f", snap.AggressionTimer),
			"position", snap.Position)
	}
}
