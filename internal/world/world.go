package world

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/perception"
)

var (
	ErrDuplicateObject = errors.New("object already registered")
	ErrInvalidObjectID = errors.New("object id is zero")
)

// Entity is a world object that agents can perceive (a player, a decoy).
type Entity interface {
	ObjectID() uint32
	Tag() string
	Position() model.Vec3
}

// Registry tracks perceivable entities and sound listeners by object ID.
// Iteration follows insertion order so perception tie-breaks are stable.
//
// Iterators snapshot the membership under the lock and yield outside it,
// so callers may add or remove objects while ranging.
type Registry struct {
	mu sync.RWMutex

	entities    map[uint32]Entity
	entityOrder []uint32

	listeners     map[uint32]perception.Listener
	listenerOrder []uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities:  make(map[uint32]Entity),
		listeners: make(map[uint32]perception.Listener),
	}
}

// AddEntity registers a perceivable entity.
func (r *Registry) AddEntity(e Entity) error {
	id := e.ObjectID()
	if id == 0 {
		return fmt.Errorf("adding entity: %w", ErrInvalidObjectID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entities[id]; ok {
		return fmt.Errorf("adding entity %d: %w", id, ErrDuplicateObject)
	}
	r.entities[id] = e
	r.entityOrder = append(r.entityOrder, id)
	return nil
}

// RemoveEntity unregisters an entity. Agents still holding its ID will
// simply fail to resolve it from now on.
func (r *Registry) RemoveEntity(objectID uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entities[objectID]; !ok {
		return
	}
	delete(r.entities, objectID)
	r.entityOrder = slices.DeleteFunc(r.entityOrder, func(id uint32) bool { return id == objectID })
}

// AddListener registers a sound listener.
func (r *Registry) AddListener(l perception.Listener) error {
	id := l.ObjectID()
	if id == 0 {
		return fmt.Errorf("adding listener: %w", ErrInvalidObjectID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listeners[id]; ok {
		return fmt.Errorf("adding listener %d: %w", id, ErrDuplicateObject)
	}
	r.listeners[id] = l
	r.listenerOrder = append(r.listenerOrder, id)
	return nil
}

// RemoveListener unregisters a sound listener.
func (r *Registry) RemoveListener(objectID uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listeners[objectID]; !ok {
		return
	}
	delete(r.listeners, objectID)
	r.listenerOrder = slices.DeleteFunc(r.listenerOrder, func(id uint32) bool { return id == objectID })
}

// Candidate resolves an entity ID to its current state.
func (r *Registry) Candidate(objectID uint32) (model.Candidate, bool) {
	r.mu.RLock()
	e, ok := r.entities[objectID]
	r.mu.RUnlock()

	if !ok {
		return model.Candidate{}, false
	}
	return candidateOf(e), true
}

// Candidates yields every entity carrying tag, in insertion order.
// An empty tag yields all entities.
func (r *Registry) Candidates(tag string) iter.Seq[model.Candidate] {
	return func(yield func(model.Candidate) bool) {
		for _, e := range r.snapshotEntities() {
			if tag != "" && e.Tag() != tag {
				continue
			}
			if !yield(candidateOf(e)) {
				return
			}
		}
	}
}

// Listeners yields every registered listener in insertion order.
func (r *Registry) Listeners() iter.Seq[perception.Listener] {
	return func(yield func(perception.Listener) bool) {
		for _, l := range r.snapshotListeners() {
			if !yield(l) {
				return
			}
		}
	}
}

// EntityCount returns the number of registered entities.
func (r *Registry) EntityCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entityOrder)
}

// ListenerCount returns the number of registered listeners.
func (r *Registry) ListenerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listenerOrder)
}

func (r *Registry) snapshotEntities() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entity, 0, len(r.entityOrder))
	for _, id := range r.entityOrder {
		out = append(out, r.entities[id])
	}
	return out
}

func (r *Registry) snapshotListeners() []perception.Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]perception.Listener, 0, len(r.listenerOrder))
	for _, id := range r.listenerOrder {
		out = append(out, r.listeners[id])
	}
	return out
}

func candidateOf(e Entity) model.Candidate {
	return model.Candidate{
		ID:       e.ObjectID(),
		Tag:      e.Tag(),
		Position: e.Position(),
	}
}
