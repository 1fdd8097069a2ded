package geo

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/udisondev/nightfall/internal/model"
)

var (
	ErrEmptyLevel   = errors.New("level has no rows")
	ErrRaggedLevel  = errors.New("level rows differ in length")
	ErrUnknownGlyph = errors.New("unknown level glyph")
	ErrNotADoor     = errors.New("cell is not a door")
)

// blockingMove are the layers an agent cannot walk through.
const blockingMove = model.LayerWall | model.LayerDoor | model.LayerGlass

// Cell is a level cell index on the ground plane (X, Z).
type Cell struct {
	X, Z int32
}

// Level is a tile level on the ground plane. Each cell carries a layer
// mask used for ray queries (sight, sound) and walkability.
// Thread-safe: door cells can be toggled while rays are being cast.
type Level struct {
	width    int32
	depth    int32
	cellSize float64

	mu    sync.RWMutex
	cells []model.LayerMask
	doors map[Cell]struct{}
}

// NewLevel creates an empty (all floor) level of width x depth cells.
func NewLevel(width, depth int32, cellSize float64) *Level {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Level{
		width:    width,
		depth:    depth,
		cellSize: cellSize,
		cells:    make([]model.LayerMask, int(width)*int(depth)),
		doors:    make(map[Cell]struct{}),
	}
}

// ParseLevel builds a level from ASCII rows. Row index is Z, column is X.
//
//	'.' or ' ' floor, '#' wall, 'D' closed door, '=' glass, '%' sound barrier
func ParseLevel(rows []string, cellSize float64) (*Level, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyLevel
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), width, ErrRaggedLevel)
		}
	}

	l := NewLevel(int32(width), int32(len(rows)), cellSize)
	for z, row := range rows {
		for x, glyph := range []byte(row) {
			c := Cell{X: int32(x), Z: int32(z)}
			switch glyph {
			case GlyphFloor, GlyphFloorAlt:
			case GlyphWall:
				l.cells[l.index(c)] = model.LayerWall
			case GlyphDoor:
				l.cells[l.index(c)] = model.LayerDoor
				l.doors[c] = struct{}{}
			case GlyphGlass:
				l.cells[l.index(c)] = model.LayerGlass
			case GlyphSoundBarrier:
				l.cells[l.index(c)] = model.LayerSoundBarrier
			default:
				return nil, fmt.Errorf("glyph %q at (%d, %d): %w", glyph, x, z, ErrUnknownGlyph)
			}
		}
	}

	slog.Debug("level parsed",
		"width", l.width,
		"depth", l.depth,
		"cellSize", l.cellSize,
		"doors", len(l.doors))
	return l, nil
}

// Width returns the number of cells along X.
func (l *Level) Width() int32 { return l.width }

// Depth returns the number of cells along Z.
func (l *Level) Depth() int32 { return l.depth }

// CellSize returns the edge length of a cell in world units.
func (l *Level) CellSize() float64 { return l.cellSize }

func (l *Level) index(c Cell) int {
	return int(c.Z)*int(l.width) + int(c.X)
}

// InBounds reports whether c lies inside the level.
func (l *Level) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < l.width && c.Z >= 0 && c.Z < l.depth
}

// CellOf returns the cell containing world position p.
func (l *Level) CellOf(p model.Vec3) Cell {
	return Cell{
		X: int32(math.Floor(p.X / l.cellSize)),
		Z: int32(math.Floor(p.Z / l.cellSize)),
	}
}

// CellCenter returns the world position of the center of c (Y = 0).
func (l *Level) CellCenter(c Cell) model.Vec3 {
	return model.Vec3{
		X: (float64(c.X) + 0.5) * l.cellSize,
		Z: (float64(c.Z) + 0.5) * l.cellSize,
	}
}

// Layers returns the layer mask of c. Cells outside the level are walls.
func (l *Level) Layers(c Cell) model.LayerMask {
	if !l.InBounds(c) {
		return model.LayerWall
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cells[l.index(c)]
}

// SetLayers overwrites the layer mask of c (no-op outside the level).
func (l *Level) SetLayers(c Cell, mask model.LayerMask) {
	if !l.InBounds(c) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cells[l.index(c)] = mask
}

// Walkable reports whether an agent can stand in c.
func (l *Level) Walkable(c Cell) bool {
	return !l.Layers(c).Has(blockingMove)
}

// IsDoor reports whether c is a door cell (open or closed).
func (l *Level) IsDoor(c Cell) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.doors[c]
	return ok
}

// SetDoorOpen opens or closes the door at c. An open door blocks nothing.
func (l *Level) SetDoorOpen(c Cell, open bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.doors[c]; !ok {
		return fmt.Errorf("cell (%d, %d): %w", c.X, c.Z, ErrNotADoor)
	}
	idx := l.index(c)
	if open {
		l.cells[idx] &^= model.LayerDoor
	} else {
		l.cells[idx] |= model.LayerDoor
	}
	return nil
}

// NearestWalkable returns the walkable point closest to p within maxDist.
// If p itself stands on a walkable cell, p is returned unchanged.
func (l *Level) NearestWalkable(p model.Vec3, maxDist float64) (model.Vec3, bool) {
	origin := l.CellOf(p)
	if l.Walkable(origin) {
		return p, true
	}

	r := int32(math.Ceil(maxDist / l.cellSize))
	best := model.Vec3{}
	bestDistSq := maxDist * maxDist
	found := false

	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			c := Cell{X: origin.X + dx, Z: origin.Z + dz}
			if !l.Walkable(c) {
				continue
			}
			center := l.CellCenter(c)
			center.Y = p.Y
			if d := center.DistanceSquared(p); d <= bestDistSq {
				best, bestDistSq, found = center, d, true
			}
		}
	}
	return best, found
}
