package ai

import (
	"errors"
	"slices"
	"testing"

	"github.com/udisondev/nightfall/internal/model"
)

func TestTickManager_RegisterUnregister(t *testing.T) {
	mgr := NewTickManager()
	var journal []string
	rec := &recorder{id: 1, journal: &journal, state: model.StateWander}

	mgr.Register(1, rec)

	if mgr.Count() != 1 {
		t.Errorf("Count() after Register() = %d, want 1", mgr.Count())
	}

	controller, err := mgr.GetController(1)
	if err != nil {
		t.Fatalf("GetController() error = %v", err)
	}
	if controller.CurrentState() != model.StateWander {
		t.Errorf("controller.CurrentState() = %v, want WANDER", controller.CurrentState())
	}

	mgr.Unregister(1)
	mgr.Unregister(1) // no-op

	if mgr.Count() != 0 {
		t.Errorf("Count() after Unregister() = %d, want 0", mgr.Count())
	}

	_, err = mgr.GetController(1)
	if !errors.Is(err, ErrControllerNotFound) {
		t.Errorf("GetController() after Unregister() error = %v, want ErrControllerNotFound", err)
	}

	want := []string{"start:1", "stop:1"}
	if !slices.Equal(journal, want) {
		t.Errorf("journal = %v, want %v", journal, want)
	}
}

func TestTickManager_TickAllInRegistrationOrder(t *testing.T) {
	mgr := NewTickManager()
	var journal []string

	for _, id := range []uint32{3, 1, 2} {
		mgr.Register(id, &recorder{id: id, journal: &journal})
	}
	journal = journal[:0]

	mgr.TickAll(0.1)
	mgr.Unregister(1)
	mgr.TickAll(0.1)

	want := []string{"tick:3", "tick:1", "tick:2", "stop:1", "tick:3", "tick:2"}
	if !slices.Equal(journal, want) {
		t.Errorf("journal = %v, want %v", journal, want)
	}
}

func TestTickManager_RegisterReplaces(t *testing.T) {
	mgr := NewTickManager()
	var journal []string

	mgr.Register(1, &recorder{id: 1, journal: &journal})
	mgr.Register(2, &recorder{id: 2, journal: &journal})
	mgr.Register(1, &recorder{id: 1, journal: &journal, state: model.StateChase})

	if mgr.Count() != 2 {
		t.Errorf("Count() = %d, want 2", mgr.Count())
	}

	snaps := mgr.Snapshots()
	if len(snaps) != 2 || snaps[0].ObjectID != 1 || snaps[1].ObjectID != 2 {
		t.Fatalf("Snapshots() = %+v, want ids [1 2]", snaps)
	}
	if snaps[0].State != model.StateChase {
		t.Errorf("replaced controller state = %v, want CHASE", snaps[0].State)
	}

	want := []string{"start:1", "start:2", "stop:1", "start:1"}
	if !slices.Equal(journal, want) {
		t.Errorf("journal = %v, want %v", journal, want)
	}
}

func TestTickManager_Agents(t *testing.T) {
	mgr := NewTickManager()
	tg := &targets{}
	tg.put(playerID, inFront)

	for i := range 10 {
		body := &fakeBody{fwd: model.Forward}
		kind := model.KindStealth
		if i%2 == 1 {
			kind = model.KindAggressive
		}
		a := NewAgent(agentID+uint32(i), testConfig(kind), body, newFakeNav(), tg.scan, tg.lookup)
		mgr.Register(a.ObjectID(), a)
	}

	if mgr.Count() != 10 {
		t.Errorf("Count() after registering 10 controllers = %d, want 10", mgr.Count())
	}

	mgr.TickAll(0.1)

	for _, s := range mgr.Snapshots() {
		if s.State != model.StateChase || !s.HasVisibleTarget {
			t.Errorf("agent %d: state = %v, visible = %v, want CHASE and visible", s.ObjectID, s.State, s.HasVisibleTarget)
		}
	}

	for i := range 10 {
		mgr.Unregister(agentID + uint32(i))
	}

	if mgr.Count() != 0 {
		t.Errorf("Count() after unregistering all = %d, want 0", mgr.Count())
	}
}
