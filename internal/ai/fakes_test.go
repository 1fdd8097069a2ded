package ai

import (
	"fmt"
	"iter"
	"slices"

	"github.com/udisondev/nightfall/internal/model"
)

type fakeBody struct {
	pos model.Vec3
	fwd model.Vec3
}

func (b *fakeBody) Position() model.Vec3 { return b.pos }
func (b *fakeBody) Forward() model.Vec3  { return b.fwd }

// fakeNav records movement requests and answers arrival and sampling
// queries from its fields.
type fakeNav struct {
	destinations []model.Vec3
	speeds       []float64

	pending   bool
	remaining float64
	stopping  float64

	samplePoint model.Vec3
	sampleOK    bool
	sampleCalls int
}

func newFakeNav() *fakeNav {
	return &fakeNav{
		remaining:   10,
		stopping:    0.5,
		samplePoint: model.NewVec3(5, 0, 5),
		sampleOK:    true,
	}
}

func (n *fakeNav) SetDestination(p model.Vec3) { n.destinations = append(n.destinations, p) }
func (n *fakeNav) PathPending() bool           { return n.pending }
func (n *fakeNav) RemainingDistance() float64  { return n.remaining }
func (n *fakeNav) StoppingDistance() float64   { return n.stopping }
func (n *fakeNav) SetSpeed(speed float64)      { n.speeds = append(n.speeds, speed) }

func (n *fakeNav) SampleReachablePoint(model.Vec3, float64, int) (model.Vec3, bool) {
	n.sampleCalls++
	if !n.sampleOK {
		return model.Vec3{}, false
	}
	return n.samplePoint, true
}

func (n *fakeNav) lastDestination() (model.Vec3, bool) {
	if len(n.destinations) == 0 {
		return model.Vec3{}, false
	}
	return n.destinations[len(n.destinations)-1], true
}

func (n *fakeNav) lastSpeed() float64 {
	if len(n.speeds) == 0 {
		return 0
	}
	return n.speeds[len(n.speeds)-1]
}

// targets is an in-memory candidate source.
type targets struct {
	list []model.Candidate
}

func (t *targets) scan(tag string) iter.Seq[model.Candidate] {
	return func(yield func(model.Candidate) bool) {
		for _, c := range t.list {
			if c.Tag != tag {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

func (t *targets) lookup(id uint32) (model.Candidate, bool) {
	i := slices.IndexFunc(t.list, func(c model.Candidate) bool { return c.ID == id })
	if i < 0 {
		return model.Candidate{}, false
	}
	return t.list[i], true
}

func (t *targets) put(id uint32, pos model.Vec3) {
	i := slices.IndexFunc(t.list, func(c model.Candidate) bool { return c.ID == id })
	if i < 0 {
		t.list = append(t.list, model.Candidate{ID: id, Tag: model.TagPlayer, Position: pos})
		return
	}
	t.list[i].Position = pos
}

func (t *targets) remove(id uint32) {
	t.list = slices.DeleteFunc(t.list, func(c model.Candidate) bool { return c.ID == id })
}

// recorder is a Controller that logs its calls into a shared journal.
type recorder struct {
	id      uint32
	journal *[]string
	state   model.BehaviorState
}

func (r *recorder) Start()                            { r.log("start") }
func (r *recorder) Stop()                             { r.log("stop") }
func (r *recorder) Tick(float64)                      { r.log("tick") }
func (r *recorder) CurrentState() model.BehaviorState { return r.state }
func (r *recorder) Snapshot() Snapshot                { return Snapshot{ObjectID: r.id, State: r.state} }

func (r *recorder) log(event string) {
	*r.journal = append(*r.journal, fmt.Sprintf("%s:%d", event, r.id))
}
