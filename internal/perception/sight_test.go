package perception

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/model"
)

func testViewer() Viewer {
	return Viewer{
		Position:        model.Vec3{},
		Forward:         model.Forward,
		ViewDistance:    10,
		ViewAngle:       90,
		EyeHeight:       DefaultEyeHeight,
		ObstructionMask: model.LayerWall,
	}
}

// at places a candidate at dist along a direction angleDeg off +Z.
func at(id uint32, dist, angleDeg float64) model.Candidate {
	rad := angleDeg * math.Pi / 180
	return model.Candidate{
		ID:       id,
		Tag:      model.TagPlayer,
		Position: model.NewVec3(math.Sin(rad)*dist, 0, math.Cos(rad)*dist),
	}
}

func TestEvaluateVisible(t *testing.T) {
	q := &fakeQuery{}
	res := Evaluate(testViewer(), slices.Values([]model.Candidate{at(7, 3, 0)}), q)

	require.True(t, res.Visible)
	assert.Equal(t, uint32(7), res.Target.ID)
	assert.InDelta(t, 3.0, res.Distance, 1e-9)

	require.Len(t, q.calls, 1)
	assert.InDelta(t, DefaultEyeHeight, q.calls[0].origin.Y, 1e-9, "ray starts at eye height")
	assert.InDelta(t, 3.0, q.calls[0].maxDist, 1e-9)
	assert.Equal(t, model.LayerWall, q.calls[0].mask)
}

func TestEvaluateGates(t *testing.T) {
	tests := []struct {
		name      string
		candidate model.Candidate
		blocked   bool
		want      bool
	}{
		{"inside cone", at(1, 5, 30), false, true},
		{"at view distance", at(1, 10, 0), false, false},
		{"beyond view distance", at(1, 12, 0), false, false},
		{"outside cone", at(1, 5, 60), false, false},
		{"behind", at(1, 5, 180), false, false},
		{"occluded", at(1, 5, 0), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuery{blockAll: tt.blocked}
			res := Evaluate(testViewer(), slices.Values([]model.Candidate{tt.candidate}), q)
			assert.Equal(t, tt.want, res.Visible)
			if !tt.want {
				assert.Equal(t, model.Candidate{}, res.Target)
			}
		})
	}
}

func TestEvaluateClosestWins(t *testing.T) {
	candidates := []model.Candidate{at(1, 8, 0), at(2, 4, 20), at(3, 6, -20)}
	res := Evaluate(testViewer(), slices.Values(candidates), &fakeQuery{})

	require.True(t, res.Visible)
	assert.Equal(t, uint32(2), res.Target.ID)
}

func TestEvaluateTieKeepsFirst(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 5, Position: model.NewVec3(1, 0, 3)},
		{ID: 6, Position: model.NewVec3(-1, 0, 3)},
	}
	res := Evaluate(testViewer(), slices.Values(candidates), &fakeQuery{})

	require.True(t, res.Visible)
	assert.Equal(t, uint32(5), res.Target.ID)

	slices.Reverse(candidates)
	res = Evaluate(testViewer(), slices.Values(candidates), &fakeQuery{})
	assert.Equal(t, uint32(6), res.Target.ID)
}

func TestEvaluateNoCandidates(t *testing.T) {
	res := Evaluate(testViewer(), slices.Values([]model.Candidate(nil)), &fakeQuery{})
	assert.False(t, res.Visible)
}

func TestEvaluateSamePosition(t *testing.T) {
	q := &fakeQuery{blockAll: true}
	res := Evaluate(testViewer(), slices.Values([]model.Candidate{{ID: 9}}), q)

	assert.True(t, res.Visible, "candidate standing on the viewer is seen")
	assert.Empty(t, q.calls, "no ray for a zero-length segment")
}

func TestEvaluateMonotonic(t *testing.T) {
	distances := []float64{0.5, 2, 4, 6, 8, 9.5, 10, 11}
	angles := []float64{0, 10, 20, 30, 40, 44.9, 45, 60}

	for _, blocked := range []bool{false, true} {
		accepted := func(d, a float64) bool {
			res := Evaluate(testViewer(), slices.Values([]model.Candidate{at(1, d, a)}), &fakeQuery{blockAll: blocked})
			return res.Visible
		}

		for i, d := range distances {
			for j, a := range angles {
				if !accepted(d, a) {
					continue
				}
				for _, d2 := range distances[:i+1] {
					for _, a2 := range angles[:j+1] {
						assert.True(t, accepted(d2, a2),
							"accepted at (%v, %v) but rejected at (%v, %v), blocked=%v", d, a, d2, a2, blocked)
					}
				}
			}
		}
	}
}

func TestNearest(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 1, Position: model.NewVec3(0, 0, 8)},
		{ID: 2, Position: model.NewVec3(0, 0, -3)},
		{ID: 3, Position: model.NewVec3(3, 0, 0)},
	}

	c, ok := Nearest(model.Vec3{}, slices.Values(candidates))
	require.True(t, ok)
	assert.Equal(t, uint32(2), c.ID, "nearest ignores the view cone; ties keep the first")

	_, ok = Nearest(model.Vec3{}, slices.Values([]model.Candidate(nil)))
	assert.False(t, ok)
}
