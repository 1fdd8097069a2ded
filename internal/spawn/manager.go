package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/game/geo"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
	"github.com/udisondev/nightfall/internal/world"
)

var ErrDuplicateName = errors.New("agent name already spawned")

// Spawned is a live agent together with the grid mover that walks it.
type Spawned struct {
	Name  string
	Agent *ai.Agent
	Mover *nav.GridAgent
}

// Manager spawns and despawns agents: it builds the mover and the AI,
// adds the agent to the world as a listener and registers it for ticks.
type Manager struct {
	level     *geo.Level
	registry  *world.Registry
	ids       *world.ObjectIDGenerator
	aiManager *ai.TickManager
	seed      uint64

	mu      sync.RWMutex
	spawned []*Spawned
	total   int // spawns ever made, for default names
}

// NewManager creates a spawn manager. seed feeds each agent's RNG together
// with its object ID.
func NewManager(
	level *geo.Level,
	registry *world.Registry,
	ids *world.ObjectIDGenerator,
	aiManager *ai.TickManager,
	seed uint64,
) *Manager {
	return &Manager{
		level:     level,
		registry:  registry,
		ids:       ids,
		aiManager: aiManager,
		seed:      seed,
	}
}

// DoSpawn creates an agent of archetype arch at the spawn point.
// An empty spawn name becomes "<archetype>-<n>".
func (m *Manager) DoSpawn(as config.AgentSpawn, arch config.Archetype) (*Spawned, error) {
	cfg, err := AgentConfig(arch)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", as.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := as.Name
	if name == "" {
		name = fmt.Sprintf("%s-%d", as.Archetype, m.total+1)
	}
	if m.indexLocked(name) >= 0 {
		return nil, fmt.Errorf("agent %q: %w", name, ErrDuplicateName)
	}

	id := m.ids.NextAgentID()
	mover := nav.NewGridAgent(m.level, as.Position, as.Facing, arch.StoppingDistance, rand.New(rand.NewPCG(m.seed, uint64(id))))

	a := ai.NewAgent(id, cfg, mover, mover, m.registry.Candidates, m.registry.Candidate)
	a.SetObstructionQuery(m.level)

	if err := m.registry.AddListener(a); err != nil {
		return nil, fmt.Errorf("adding agent %q to world: %w", name, err)
	}
	m.aiManager.Register(id, a)

	sp := &Spawned{Name: name, Agent: a, Mover: mover}
	m.spawned = append(m.spawned, sp)
	m.total++

	slog.Info("agent spawned",
		"objectID", id,
		"name", name,
		"archetype", as.Archetype,
		"kind", cfg.Kind,
		"state", a.CurrentState(),
		"position", as.Position)

	return sp, nil
}

// Despawn stops the named agent and removes it from the world.
func (m *Manager) Despawn(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(name)
	if i < 0 {
		return false
	}
	id := m.spawned[i].Agent.ObjectID()

	m.aiManager.Unregister(id)
	m.registry.RemoveListener(id)
	m.spawned = slices.Delete(m.spawned, i, i+1)

	slog.Info("agent despawned",
		"objectID", id,
		"name", name)
	return true
}

// Get returns the agent spawned under name.
func (m *Manager) Get(name string) (*Spawned, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexLocked(name); i >= 0 {
		return m.spawned[i], true
	}
	return nil, false
}

// NameOf returns the spawn name of the agent with objectID.
func (m *Manager) NameOf(objectID uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sp := range m.spawned {
		if sp.Agent.ObjectID() == objectID {
			return sp.Name, true
		}
	}
	return "", false
}

// All returns the live agents in spawn order.
func (m *Manager) All() []*Spawned {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.spawned)
}

// Names returns the live agent names in spawn order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.spawned))
	for _, sp := range m.spawned {
		names = append(names, sp.Name)
	}
	return names
}

// SpawnCount returns the number of live agents.
func (m *Manager) SpawnCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.spawned)
}

func (m *Manager) indexLocked(name string) int {
	return slices.IndexFunc(m.spawned, func(sp *Spawned) bool { return sp.Name == name })
}

// AgentConfig converts a scenario archetype into an AI config.
func AgentConfig(arch config.Archetype) (ai.Config, error) {
	kind, err := model.ParseAgentKind(arch.Kind)
	if err != nil {
		return ai.Config{}, err
	}
	mask, err := model.ParseLayerMask(arch.ObstructionMask)
	if err != nil {
		return ai.Config{}, err
	}
	return ai.Config{
		Kind:                   kind,
		ViewDistance:           arch.ViewDistance,
		ViewAngle:              arch.ViewAngle,
		EyeHeight:              arch.EyeHeight,
		ObstructionMask:        mask,
		DefaultSpeed:           arch.DefaultSpeed,
		ChaseSpeed:             arch.ChaseSpeed,
		AggressionDecaySeconds: arch.AggressionDecay,
		WanderIntervalSeconds:  arch.WanderInterval,
		WanderRadius:           arch.WanderRadius,
		SampleAttempts:         arch.SampleAttempts,
		TargetTag:              arch.TargetTag,
	}, nil
}
