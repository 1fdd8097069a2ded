package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/nightfall/internal/model"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Event kinds understood by the simulator.
const (
	EventToggleDoor = "toggle_door"
	EventJump       = "jump"
	EventNoise      = "noise"
)

// Scenario holds everything needed to run one headless simulation.
type Scenario struct {
	LogLevel string `yaml:"log_level"`
	Seed     uint64 `yaml:"seed"` // 0 = random

	// Tick loop
	TickInterval   time.Duration `yaml:"tick_interval"`
	Duration       time.Duration `yaml:"duration"`        // simulated time for `run`
	ReportInterval time.Duration `yaml:"report_interval"` // snapshot log period, 0 disables

	Level      LevelConfig          `yaml:"level"`
	Archetypes map[string]Archetype `yaml:"archetypes"`
	Agents     []AgentSpawn         `yaml:"agents"`
	Players    []PlayerConfig       `yaml:"players"`
	Doors      []DoorConfig         `yaml:"doors"`
	Events     []EventConfig        `yaml:"events"`
}

// LevelConfig is an ASCII tile map. Row index is Z, column is X.
//
//	'.' or ' ' floor, '#' wall, 'D' door, '=' glass, '%' sound barrier
type LevelConfig struct {
	Rows     []string `yaml:"rows"`
	CellSize float64  `yaml:"cell_size"`
}

// Archetype is reusable agent tuning.
type Archetype struct {
	Kind             string   `yaml:"kind"` // aggressive | stealth
	ViewDistance     float64  `yaml:"view_distance"`
	ViewAngle        float64  `yaml:"view_angle"` // full cone, degrees
	EyeHeight        float64  `yaml:"eye_height"`
	ObstructionMask  []string `yaml:"obstruction_mask"`
	DefaultSpeed     float64  `yaml:"default_speed"`
	ChaseSpeed       float64  `yaml:"chase_speed"`
	AggressionDecay  float64  `yaml:"aggression_decay_seconds"`
	WanderInterval   float64  `yaml:"wander_interval_seconds"`
	WanderRadius     float64  `yaml:"wander_radius"`
	SampleAttempts   int      `yaml:"sample_attempts"`
	StoppingDistance float64  `yaml:"stopping_distance"`
	TargetTag        string   `yaml:"target_tag"`
}

// AgentSpawn places one agent.
type AgentSpawn struct {
	Name      string     `yaml:"name"`
	Archetype string     `yaml:"archetype"`
	Position  model.Vec3 `yaml:"position"`
	Facing    model.Vec3 `yaml:"facing"`
}

// PlayerConfig is a scripted player walking a waypoint route.
type PlayerConfig struct {
	Name               string       `yaml:"name"`
	Tag                string       `yaml:"tag"`
	Route              []model.Vec3 `yaml:"route"`
	Loop               bool         `yaml:"loop"`
	Speed              float64      `yaml:"speed"`
	WalkingNoiseRadius float64      `yaml:"walking_noise_radius"`
	NoiseInterval      float64      `yaml:"noise_interval"` // seconds
	JumpNoiseRadius    float64      `yaml:"jump_noise_radius"`
	SoundBarriers      []string     `yaml:"sound_barriers"`
}

// DoorConfig binds a door to a 'D' cell of the level.
type DoorConfig struct {
	X             int32    `yaml:"x"`
	Z             int32    `yaml:"z"`
	Open          bool     `yaml:"open"`
	NoiseRadius   float64  `yaml:"noise_radius"`
	SoundBarriers []string `yaml:"sound_barriers"`
}

// EventConfig is a scripted action fired once at a simulated time.
type EventConfig struct {
	At       time.Duration `yaml:"at"`
	Kind     string        `yaml:"kind"`
	Door     int           `yaml:"door"`   // toggle_door: index into Doors
	Player   string        `yaml:"player"` // jump
	Position model.Vec3    `yaml:"position"`
	Radius   float64       `yaml:"radius"` // noise
}

// DefaultArchetypes returns the built-in agent tunings.
func DefaultArchetypes() map[string]Archetype {
	return map[string]Archetype{
		"stalker": {
			Kind:             "stealth",
			ViewDistance:     12,
			ViewAngle:        100,
			EyeHeight:        0.5,
			ObstructionMask:  []string{"wall", "door"},
			DefaultSpeed:     2.5,
			ChaseSpeed:       4.5,
			AggressionDecay:  5,
			WanderInterval:   6,
			WanderRadius:     20,
			SampleAttempts:   30,
			StoppingDistance: 0.5,
			TargetTag:        model.TagPlayer,
		},
		"hunter": {
			Kind:             "aggressive",
			ViewDistance:     15,
			ViewAngle:        120,
			EyeHeight:        0.5,
			ObstructionMask:  []string{"wall", "door"},
			DefaultSpeed:     3,
			ChaseSpeed:       5,
			AggressionDecay:  3,
			WanderInterval:   6,
			WanderRadius:     20,
			SampleAttempts:   30,
			StoppingDistance: 0.5,
			TargetTag:        model.TagPlayer,
		},
	}
}

// baseScenario holds the settings a scenario file builds on: timing and
// the built-in archetypes, but no level or population.
func baseScenario() Scenario {
	return Scenario{
		LogLevel:       "info",
		TickInterval:   50 * time.Millisecond,
		Duration:       60 * time.Second,
		ReportInterval: time.Second,
		Level:          LevelConfig{CellSize: 1},
		Archetypes:     DefaultArchetypes(),
	}
}

// DefaultScenario returns the demo scenario: two rooms joined by a door,
// one patrolling player, a stalker and a hunter.
func DefaultScenario() Scenario {
	s := baseScenario()
	s.Seed = 1
	s.Level.Rows = []string{
		"####################",
		"#........#.........#",
		"#........#.........#",
		"#........D.........#",
		"#........#....%%%..#",
		"#........#.........#",
		"#####=####.........#",
		"#..................#",
		"#..................#",
		"####################",
	}
	s.Agents = []AgentSpawn{
		{Name: "stalker-1", Archetype: "stalker", Position: model.NewVec3(14.5, 0, 2.5), Facing: model.NewVec3(-1, 0, 0)},
		{Name: "hunter-1", Archetype: "hunter", Position: model.NewVec3(16.5, 0, 8.5), Facing: model.NewVec3(-1, 0, 0)},
	}
	s.Players = []PlayerConfig{
		{
			Name: "runner",
			Tag:  model.TagPlayer,
			Route: []model.Vec3{
				model.NewVec3(2.5, 0, 1.5),
				model.NewVec3(7.5, 0, 1.5),
				model.NewVec3(7.5, 0, 5.5),
				model.NewVec3(2.5, 0, 5.5),
			},
			Loop:               true,
			Speed:              2,
			WalkingNoiseRadius: 6,
			NoiseInterval:      0.5,
			JumpNoiseRadius:    10,
			SoundBarriers:      []string{"wall", "sound_barrier"},
		},
	}
	s.Doors = []DoorConfig{
		{X: 9, Z: 3, NoiseRadius: 5, SoundBarriers: []string{"wall"}},
	}
	s.Events = []EventConfig{
		{At: 5 * time.Second, Kind: EventToggleDoor, Door: 0},
		{At: 12 * time.Second, Kind: EventJump, Player: "runner"},
		{At: 20 * time.Second, Kind: EventNoise, Position: model.NewVec3(12.5, 0, 5.5), Radius: 8},
	}
	return s
}

// LoadScenario loads a scenario from a YAML file.
// If the file doesn't exist, returns DefaultScenario. Archetypes from the
// file are added to the built-in ones.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultScenario(), nil
		}
		return Scenario{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario on top of the base settings.
func ParseScenario(data []byte) (Scenario, error) {
	s := baseScenario()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing scenario: %w", err)
	}
	return s, nil
}

// Marshal encodes the scenario as YAML.
func (s Scenario) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return data, nil
}

// Validate checks the scenario for values the simulator cannot run with.
// All problems are reported at once, wrapped in ErrInvalidScenario.
func (s Scenario) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		bad("log_level %q: want debug, info, warn or error", s.LogLevel)
	}
	if s.TickInterval <= 0 {
		bad("tick_interval must be positive, got %s", s.TickInterval)
	}
	if s.Duration < 0 {
		bad("duration must not be negative, got %s", s.Duration)
	}
	if s.ReportInterval < 0 {
		bad("report_interval must not be negative, got %s", s.ReportInterval)
	}
	if len(s.Level.Rows) == 0 {
		bad("level has no rows")
	}
	if s.Level.CellSize <= 0 {
		bad("level cell_size must be positive, got %g", s.Level.CellSize)
	}

	for _, name := range slices.Sorted(maps.Keys(s.Archetypes)) {
		if err := s.Archetypes[name].validate(); err != nil {
			bad("archetype %q: %w", name, err)
		}
	}

	for i, a := range s.Agents {
		if _, ok := s.Archetypes[a.Archetype]; !ok {
			bad("agent %d (%s): unknown archetype %q", i, a.Name, a.Archetype)
		}
	}

	players := make(map[string]struct{}, len(s.Players))
	for i, p := range s.Players {
		if p.Name == "" {
			bad("player %d: missing name", i)
		} else if _, dup := players[p.Name]; dup {
			bad("player %d: duplicate name %q", i, p.Name)
		}
		players[p.Name] = struct{}{}

		if len(p.Route) == 0 {
			bad("player %q: empty route", p.Name)
		}
		if p.Speed < 0 || p.WalkingNoiseRadius < 0 || p.NoiseInterval < 0 || p.JumpNoiseRadius < 0 {
			bad("player %q: speed and noise settings must not be negative", p.Name)
		}
		if _, err := model.ParseLayerMask(p.SoundBarriers); err != nil {
			bad("player %q: %w", p.Name, err)
		}
	}

	for i, d := range s.Doors {
		if d.NoiseRadius < 0 {
			bad("door %d: noise_radius must not be negative", i)
		}
		if _, err := model.ParseLayerMask(d.SoundBarriers); err != nil {
			bad("door %d: %w", i, err)
		}
	}

	for i, ev := range s.Events {
		if ev.At < 0 {
			bad("event %d: negative time %s", i, ev.At)
		}
		switch ev.Kind {
		case EventToggleDoor:
			if ev.Door < 0 || ev.Door >= len(s.Doors) {
				bad("event %d: door index %d out of range", i, ev.Door)
			}
		case EventJump:
			if _, ok := players[ev.Player]; !ok {
				bad("event %d: unknown player %q", i, ev.Player)
			}
		case EventNoise:
			if ev.Radius <= 0 {
				bad("event %d: noise radius must be positive", i)
			}
		default:
			bad("event %d: unknown kind %q", i, ev.Kind)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return nil
}

func (a Archetype) validate() error {
	kind, err := model.ParseAgentKind(a.Kind)
	if err != nil {
		return err
	}
	if a.ViewDistance <= 0 {
		return fmt.Errorf("view_distance must be positive, got %g", a.ViewDistance)
	}
	if a.ViewAngle <= 0 || a.ViewAngle > 360 {
		return fmt.Errorf("view_angle must be in (0, 360], got %g", a.ViewAngle)
	}
	if a.DefaultSpeed < 0 || a.ChaseSpeed < 0 {
		return errors.New("speeds must not be negative")
	}
	if a.AggressionDecay < 0 {
		return fmt.Errorf("aggression_decay_seconds must not be negative, got %g", a.AggressionDecay)
	}
	if a.StoppingDistance < 0 {
		return fmt.Errorf("stopping_distance must not be negative, got %g", a.StoppingDistance)
	}
	if kind == model.KindStealth && a.WanderInterval <= 0 {
		return fmt.Errorf("wander_interval_seconds must be positive for stealth agents, got %g", a.WanderInterval)
	}
	if _, err := model.ParseLayerMask(a.ObstructionMask); err != nil {
		return err
	}
	return nil
}
