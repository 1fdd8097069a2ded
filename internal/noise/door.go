package noise

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/nightfall/internal/game/geo"
	"github.com/udisondev/nightfall/internal/model"
)

// DefaultDoorNoiseRadius is how far a door toggle carries.
const DefaultDoorNoiseRadius = 5.0

// Door is a level door that makes noise whenever it is toggled.
type Door struct {
	level       *geo.Level
	cell        geo.Cell
	position    model.Vec3
	noiseRadius float64
	barriers    model.LayerMask
	emitter     *Emitter

	mu   sync.Mutex
	open bool
}

// NewDoor binds a door to its level cell. The cell must be a door cell.
// The door starts in the given state and the level is updated to match.
func NewDoor(level *geo.Level, cell geo.Cell, open bool, noiseRadius float64, barriers model.LayerMask, e *Emitter) (*Door, error) {
	if err := level.SetDoorOpen(cell, open); err != nil {
		return nil, fmt.Errorf("binding door: %w", err)
	}
	return &Door{
		level:       level,
		cell:        cell,
		position:    level.CellCenter(cell),
		noiseRadius: noiseRadius,
		barriers:    barriers,
		emitter:     e,
		open:        open,
	}, nil
}

// Cell returns the door's level cell.
func (d *Door) Cell() geo.Cell { return d.cell }

// Position returns the world position noise is emitted from.
func (d *Door) Position() model.Vec3 { return d.position }

// IsOpen reports whether the door is open.
func (d *Door) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Toggle opens a closed door or closes an open one, then emits its noise.
// An open door no longer blocks sight, sound or movement.
func (d *Door) Toggle() error {
	d.mu.Lock()
	open := !d.open
	if err := d.level.SetDoorOpen(d.cell, open); err != nil {
		d.mu.Unlock()
		return fmt.Errorf("toggling door: %w", err)
	}
	d.open = open
	d.mu.Unlock()

	slog.Debug("door toggled",
		"cell", d.cell,
		"open", open)

	d.emitter.EmitNoiseMasked(d.position, d.noiseRadius, d.barriers)
	return nil
}
