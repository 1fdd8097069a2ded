package geo

import "github.com/udisondev/nightfall/internal/model"

// Raycast walks the cells along a ray from origin toward direction for at
// most maxDistance and reports the first cell whose layers intersect mask.
// The origin cell never blocks its own ray. A diagonal step that squeezes
// between two cells is blocked if either of them matches mask.
func (l *Level) Raycast(origin, direction model.Vec3, maxDistance float64, mask model.LayerMask) (model.RaycastHit, bool) {
	if maxDistance <= 0 || mask == model.LayerNone {
		return model.RaycastHit{}, false
	}
	dir := direction.Normalized()
	if dir == (model.Vec3{}) {
		return model.RaycastHit{}, false
	}

	start := l.CellOf(origin)
	end := l.CellOf(origin.Add(dir.Scale(maxDistance)))

	it := NewLineIterator(start.X, start.Z, end.X, end.Z)
	it.Next() // Skip start cell

	prev := start
	for it.Next() {
		cur := it.Cell()

		if cur.X != prev.X && cur.Z != prev.Z {
			for _, side := range [2]Cell{{X: cur.X, Z: prev.Z}, {X: prev.X, Z: cur.Z}} {
				if layers := l.Layers(side); layers.Has(mask) {
					return l.hitAt(origin, dir, maxDistance, side, layers), true
				}
			}
		}

		if layers := l.Layers(cur); layers.Has(mask) {
			return l.hitAt(origin, dir, maxDistance, cur, layers), true
		}
		prev = cur
	}

	return model.RaycastHit{}, false
}

// hitAt projects the center of c onto the ray.
func (l *Level) hitAt(origin, dir model.Vec3, maxDistance float64, c Cell, layers model.LayerMask) model.RaycastHit {
	center := l.CellCenter(c)
	center.Y = origin.Y
	t := center.Sub(origin).Dot(dir)
	t = max(0, min(maxDistance, t))
	return model.RaycastHit{
		Point:    origin.Add(dir.Scale(t)),
		Distance: t,
		Layers:   layers,
	}
}

// CanMoveTo checks if direct movement from a to b is possible (no blocking
// cell on the straight line and no corner cutting).
func (l *Level) CanMoveTo(a, b model.Vec3) bool {
	start := l.CellOf(a)
	end := l.CellOf(b)

	it := NewLineIterator(start.X, start.Z, end.X, end.Z)
	it.Next() // Skip start

	prev := start
	for it.Next() {
		cur := it.Cell()

		if !l.Walkable(cur) {
			return false
		}

		// Diagonal step: both adjacent cardinals must be passable
		if cur.X != prev.X && cur.Z != prev.Z {
			if !l.Walkable(Cell{X: cur.X, Z: prev.Z}) || !l.Walkable(Cell{X: prev.X, Z: cur.Z}) {
				return false
			}
		}
		prev = cur
	}

	return true
}
