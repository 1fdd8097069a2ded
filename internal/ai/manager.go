package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

var ErrControllerNotFound = errors.New("controller not found")

// TickManager drives every registered controller once per TickAll, in
// registration order. It owns no loop: the caller schedules ticks.
type TickManager struct {
	mu              sync.RWMutex
	controllers     map[uint32]Controller // objectID → controller
	order           []uint32
	controllerCount atomic.Int32 // cached count of controllers (O(1) access)
}

// NewTickManager creates an empty tick manager
func NewTickManager() *TickManager {
	return &TickManager{
		controllers: make(map[uint32]Controller),
	}
}

// Register starts controller and adds it to the tick order.
// Registering an objectID again stops and replaces the previous controller
// in place.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	m.mu.Lock()
	old, exists := m.controllers[objectID]
	m.controllers[objectID] = controller
	if !exists {
		m.order = append(m.order, objectID)
		m.controllerCount.Add(1)
	}
	m.mu.Unlock()

	if exists {
		old.Stop()
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"objectID", objectID,
		"state", controller.CurrentState())
}

// Unregister stops and removes the controller
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	controller, ok := m.controllers[objectID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.controllers, objectID)
	m.order = slices.DeleteFunc(m.order, func(id uint32) bool { return id == objectID })
	m.controllerCount.Add(-1)
	m.mu.Unlock()

	controller.Stop()

	slog.Debug("AI controller unregistered", "objectID", objectID)
}

// TickAll ticks all registered controllers by elapsed seconds.
// Controllers are ticked outside the lock, so a tick may register or
// unregister controllers.
func (m *TickManager) TickAll(elapsed float64) {
	controllers := m.ordered()
	for _, c := range controllers {
		c.Tick(elapsed)
	}

	if len(controllers) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed",
			"controllers", len(controllers),
			"elapsed", elapsed)
	}
}

// Snapshots returns the snapshot of every controller in registration order.
func (m *TickManager) Snapshots() []Snapshot {
	controllers := m.ordered()
	out := make([]Snapshot, 0, len(controllers))
	for _, c := range controllers {
		out = append(out, c.Snapshot())
	}
	return out
}

// Count returns number of registered controllers (O(1) cached count)
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns the controller registered for objectID
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	controller, ok := m.controllers[objectID]
	if !ok {
		return nil, fmt.Errorf("objectID %d: %w", objectID, ErrControllerNotFound)
	}
	return controller, nil
}

func (m *TickManager) ordered() []Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Controller, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.controllers[id])
	}
	return out
}
