package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/model"
)

func TestDefaultScenarioIsValid(t *testing.T) {
	s := DefaultScenario()
	require.NoError(t, s.Validate())

	assert.Equal(t, 50*time.Millisecond, s.TickInterval)
	assert.Len(t, s.Agents, 2)
	assert.Len(t, s.Players, 1)
	assert.Contains(t, s.Archetypes, "stalker")
	assert.Contains(t, s.Archetypes, "hunter")
}

func TestLoadScenarioMissingFile(t *testing.T) {
	s, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), s)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `
log_level: debug
tick_interval: 20ms
duration: 10s
level:
  rows:
    - "#####"
    - "#...#"
    - "#####"
archetypes:
  ghost:
    kind: stealth
    view_distance: 8
    view_angle: 60
    obstruction_mask: [wall, glass]
    wander_interval_seconds: 2
agents:
  - name: g1
    archetype: ghost
    position: {x: 1.5, y: 0, z: 1.5}
players:
  - name: p1
    route:
      - {x: 3.5, y: 0, z: 1.5}
events:
  - at: 2s
    kind: jump
    player: p1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 20*time.Millisecond, s.TickInterval)
	assert.Equal(t, 10*time.Second, s.Duration)
	assert.Equal(t, time.Second, s.ReportInterval, "unset fields keep base values")
	assert.Equal(t, 1.0, s.Level.CellSize)
	assert.Len(t, s.Level.Rows, 3)

	assert.Contains(t, s.Archetypes, "hunter", "built-in archetypes stay available")
	ghost := s.Archetypes["ghost"]
	assert.Equal(t, 8.0, ghost.ViewDistance)
	assert.Equal(t, []string{"wall", "glass"}, ghost.ObstructionMask)

	require.Len(t, s.Agents, 1)
	assert.Equal(t, model.NewVec3(1.5, 0, 1.5), s.Agents[0].Position)
	assert.Empty(t, s.Doors, "demo population is not merged in")
	require.Len(t, s.Events, 1)
	assert.Equal(t, 2*time.Second, s.Events[0].At)
}

func TestLoadScenarioMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: [unclosed"), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scenario")
}

func TestMarshalRoundTrip(t *testing.T) {
	want := DefaultScenario()
	data, err := want.Marshal()
	require.NoError(t, err)

	got, err := ParseScenario(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Scenario)
		want   string
	}{
		{"log level", func(s *Scenario) { s.LogLevel = "loud" }, "log_level"},
		{"tick interval", func(s *Scenario) { s.TickInterval = 0 }, "tick_interval"},
		{"negative duration", func(s *Scenario) { s.Duration = -time.Second }, "duration"},
		{"no rows", func(s *Scenario) { s.Level.Rows = nil }, "no rows"},
		{"cell size", func(s *Scenario) { s.Level.CellSize = 0 }, "cell_size"},
		{"archetype kind", func(s *Scenario) {
			a := s.Archetypes["hunter"]
			a.Kind = "sneaky"
			s.Archetypes["hunter"] = a
		}, "unknown agent kind"},
		{"view angle", func(s *Scenario) {
			a := s.Archetypes["stalker"]
			a.ViewAngle = 400
			s.Archetypes["stalker"] = a
		}, "view_angle"},
		{"stealth wander interval", func(s *Scenario) {
			a := s.Archetypes["stalker"]
			a.WanderInterval = 0
			s.Archetypes["stalker"] = a
		}, "wander_interval_seconds"},
		{"stopping distance", func(s *Scenario) {
			a := s.Archetypes["stalker"]
			a.StoppingDistance = -0.5
			s.Archetypes["stalker"] = a
		}, "stopping_distance"},
		{"obstruction mask", func(s *Scenario) {
			a := s.Archetypes["stalker"]
			a.ObstructionMask = []string{"fog"}
			s.Archetypes["stalker"] = a
		}, "unknown layer"},
		{"unknown archetype", func(s *Scenario) { s.Agents[0].Archetype = "ghost" }, "unknown archetype"},
		{"empty route", func(s *Scenario) { s.Players[0].Route = nil }, "empty route"},
		{"duplicate player", func(s *Scenario) { s.Players = append(s.Players, s.Players[0]) }, "duplicate name"},
		{"negative speed", func(s *Scenario) { s.Players[0].Speed = -1 }, "must not be negative"},
		{"door barriers", func(s *Scenario) { s.Doors[0].SoundBarriers = []string{"fog"} }, "door 0"},
		{"door index", func(s *Scenario) { s.Events[0].Door = 3 }, "door index"},
		{"jump player", func(s *Scenario) { s.Events[1].Player = "ghost" }, "unknown player"},
		{"noise radius", func(s *Scenario) { s.Events[2].Radius = 0 }, "noise radius"},
		{"event kind", func(s *Scenario) { s.Events[0].Kind = "explode" }, "unknown kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScenario()
			tt.mutate(&s)

			err := s.Validate()
			require.ErrorIs(t, err, ErrInvalidScenario)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	s := DefaultScenario()
	s.TickInterval = 0
	s.Players[0].Route = nil

	err := s.Validate()
	require.ErrorIs(t, err, ErrInvalidScenario)
	assert.Contains(t, err.Error(), "tick_interval")
	assert.Contains(t, err.Error(), "empty route")
}
