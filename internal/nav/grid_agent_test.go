package nav

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/game/geo"
	"github.com/udisondev/nightfall/internal/model"
)

var (
	_ Navigator = (*GridAgent)(nil)
	_ Body      = (*GridAgent)(nil)
)

// twoRooms has a sealed right room (x 6..8) with no connection to the left.
var twoRooms = []string{
	"##########",
	"#....#...#",
	"#....#...#",
	"#....#...#",
	"##########",
}

func setupLevel(t *testing.T, rows []string) *geo.Level {
	t.Helper()
	l, err := geo.ParseLevel(rows, 1)
	require.NoError(t, err)
	return l
}

func newAgent(t *testing.T, l *geo.Level, at model.Vec3) *GridAgent {
	t.Helper()
	return NewGridAgent(l, at, model.Forward, 0.5, rand.New(rand.NewPCG(1, 2)))
}

func TestGridAgentPendingUntilStep(t *testing.T) {
	g := newAgent(t, setupLevel(t, twoRooms), model.NewVec3(1.5, 0, 1.5))

	assert.False(t, g.PathPending())
	assert.Zero(t, g.RemainingDistance())

	g.SetDestination(model.NewVec3(4.5, 0, 1.5))
	assert.True(t, g.PathPending())
	assert.True(t, math.IsInf(g.RemainingDistance(), 1))

	g.Step(0)
	assert.False(t, g.PathPending())
	assert.InDelta(t, 3.0, g.RemainingDistance(), 1e-9)
}

func TestGridAgentMovesAndStops(t *testing.T) {
	g := newAgent(t, setupLevel(t, twoRooms), model.NewVec3(1.5, 0, 1.5))
	g.SetSpeed(1)
	g.SetDestination(model.NewVec3(4.5, 0, 1.5))

	g.Step(1)
	assert.InDelta(t, 2.5, g.Position().X, 1e-9)
	assert.InDelta(t, 1, g.Forward().X, 1e-9)

	for range 10 {
		g.Step(1)
	}

	// Stops at the stopping distance, not on the destination itself.
	assert.InDelta(t, 4.0, g.Position().X, 1e-9)
	assert.InDelta(t, g.StoppingDistance(), g.RemainingDistance(), 1e-9)
}

func TestGridAgentArrivesOnDiagonalPaths(t *testing.T) {
	l := setupLevel(t, []string{
		"############",
		"#..........#",
		"#..........#",
		"#..........#",
		"#..........#",
		"#..........#",
		"############",
	})
	rng := rand.New(rand.NewPCG(3, 4))

	for i := range 200 {
		start := model.NewVec3(1+rng.Float64()*10, 0, 1+rng.Float64()*5)
		dest := model.NewVec3(1+rng.Float64()*10, 0, 1+rng.Float64()*5)

		g := newAgent(t, l, start)
		g.SetSpeed(3.5)
		g.SetDestination(dest)
		for range 400 {
			g.Step(0.05)
		}

		require.LessOrEqual(t, g.RemainingDistance(), g.StoppingDistance(),
			"run %d: %v -> %v stuck at %v", i, start, dest, g.Position())

		// Arrived agents stay put.
		at := g.Position()
		g.Step(0.05)
		require.Equal(t, at, g.Position())
	}
}

func TestGridAgentNewDestinationAfterArrival(t *testing.T) {
	g := newAgent(t, setupLevel(t, twoRooms), model.NewVec3(1.5, 0, 1.5))
	g.SetSpeed(10)
	g.SetDestination(model.NewVec3(4.3, 0, 3.2))
	g.Step(1)
	require.LessOrEqual(t, g.RemainingDistance(), g.StoppingDistance())

	g.SetDestination(model.NewVec3(1.5, 0, 1.5))
	g.Step(0)
	assert.Greater(t, g.RemainingDistance(), g.StoppingDistance())

	g.Step(1)
	assert.LessOrEqual(t, g.RemainingDistance(), g.StoppingDistance())
	assert.InDelta(t, 0.5, g.Position().Distance(model.NewVec3(1.5, 0, 1.5)), 1e-6)
}

func TestGridAgentNegativeStoppingDistance(t *testing.T) {
	g := NewGridAgent(setupLevel(t, twoRooms), model.NewVec3(1.5, 0, 1.5), model.Forward, -1, nil)
	assert.Zero(t, g.StoppingDistance())
}

func TestGridAgentZeroSpeedStaysPut(t *testing.T) {
	start := model.NewVec3(1.5, 0, 1.5)
	g := newAgent(t, setupLevel(t, twoRooms), start)
	g.SetDestination(model.NewVec3(4.5, 0, 3.5))

	g.Step(1)

	assert.Equal(t, start, g.Position())
	assert.Greater(t, g.RemainingDistance(), 0.0)
}

func TestGridAgentUnreachable(t *testing.T) {
	start := model.NewVec3(1.5, 0, 1.5)
	g := newAgent(t, setupLevel(t, twoRooms), start)
	g.SetSpeed(5)
	g.SetDestination(model.NewVec3(7.5, 0, 2.5))

	g.Step(1)

	assert.False(t, g.PathPending())
	assert.Zero(t, g.RemainingDistance())
	assert.Equal(t, start, g.Position())

	dest, ok := g.Destination()
	assert.True(t, ok)
	assert.Equal(t, model.NewVec3(7.5, 0, 2.5), dest)
}

func TestGridAgentSetSpeedClampsNegative(t *testing.T) {
	g := newAgent(t, setupLevel(t, twoRooms), model.NewVec3(1.5, 0, 1.5))
	g.SetSpeed(-3)
	assert.Zero(t, g.Speed())
}

func TestGridAgentWarp(t *testing.T) {
	g := newAgent(t, setupLevel(t, twoRooms), model.NewVec3(1.5, 0, 1.5))
	g.SetDestination(model.NewVec3(4.5, 0, 1.5))

	g.Warp(model.NewVec3(3.5, 0, 3.5))

	assert.Equal(t, model.NewVec3(3.5, 0, 3.5), g.Position())
	assert.False(t, g.PathPending())
	assert.Zero(t, g.RemainingDistance())
}

func TestSampleReachablePoint(t *testing.T) {
	l := setupLevel(t, twoRooms)
	start := model.NewVec3(1.5, 0, 1.5)
	g := newAgent(t, l, start)

	for range 50 {
		p, ok := g.SampleReachablePoint(start, 3, 30)
		require.True(t, ok)
		assert.True(t, l.Walkable(l.CellOf(p)))
		assert.NotNil(t, l.FindPath(start, p))
		assert.LessOrEqual(t, p.X, 5.0, "never lands in the sealed room")
	}
}

func TestSampleReachablePointFails(t *testing.T) {
	l := setupLevel(t, twoRooms)
	g := newAgent(t, l, model.NewVec3(1.5, 0, 1.5))

	t.Run("outside level", func(t *testing.T) {
		_, ok := g.SampleReachablePoint(model.NewVec3(100, 0, 100), 2, 30)
		assert.False(t, ok)
	})

	t.Run("only unreachable points", func(t *testing.T) {
		_, ok := g.SampleReachablePoint(model.NewVec3(7.5, 0, 2.5), 0.4, 30)
		assert.False(t, ok)
	})

	t.Run("zero attempts", func(t *testing.T) {
		_, ok := g.SampleReachablePoint(model.NewVec3(1.5, 0, 1.5), 2, 0)
		assert.False(t, ok)
	})
}

func TestSampleReachablePointDeterministic(t *testing.T) {
	l := setupLevel(t, twoRooms)
	start := model.NewVec3(1.5, 0, 1.5)

	a := newAgent(t, l, start)
	b := newAgent(t, l, start)

	for range 10 {
		pa, oka := a.SampleReachablePoint(start, 3, 30)
		pb, okb := b.SampleReachablePoint(start, 3, 30)
		assert.Equal(t, oka, okb)
		assert.Equal(t, pa, pb)
	}
}
