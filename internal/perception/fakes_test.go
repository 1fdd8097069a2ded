package perception

import "github.com/udisondev/nightfall/internal/model"

// rayCall records one Raycast invocation.
type rayCall struct {
	origin    model.Vec3
	direction model.Vec3
	maxDist   float64
	mask      model.LayerMask
}

// fakeQuery records rays and either blocks all of them or none.
type fakeQuery struct {
	blockAll bool
	calls    []rayCall
}

func (q *fakeQuery) Raycast(origin, direction model.Vec3, maxDistance float64, mask model.LayerMask) (model.RaycastHit, bool) {
	q.calls = append(q.calls, rayCall{origin, direction, maxDistance, mask})
	if q.blockAll {
		return model.RaycastHit{Distance: maxDistance / 2, Layers: mask}, true
	}
	return model.RaycastHit{}, false
}

type fakeListener struct {
	id    uint32
	pos   model.Vec3
	heard []model.Vec3
}

func (l *fakeListener) ObjectID() uint32     { return l.id }
func (l *fakeListener) Position() model.Vec3 { return l.pos }
func (l *fakeListener) OnHeardSound(o model.Vec3) bool {
	l.heard = append(l.heard, o)
	return true
}
