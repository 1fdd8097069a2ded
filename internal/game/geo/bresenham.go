package geo

// LineIterator implements the Bresenham line algorithm over level cells.
// Steps through cells along a line from start to end, start included.
type LineIterator struct {
	currentX, currentZ int32
	targetX, targetZ   int32
	deltaX, deltaZ     int32
	stepX, stepZ       int32
	err                int32
	xDominant          bool
	started            bool
}

// NewLineIterator creates a Bresenham line iterator from (sx,sz) to (ex,ez).
func NewLineIterator(sx, sz, ex, ez int32) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentZ: sz,
		targetX: ex, targetZ: ez,
	}

	it.deltaX = abs32(ex - sx)
	it.deltaZ = abs32(ez - sz)

	if sx < ex {
		it.stepX = 1
	} else {
		it.stepX = -1
	}
	if sz < ez {
		it.stepZ = 1
	} else {
		it.stepZ = -1
	}

	// Determine dominant axis and init error term.
	if it.deltaX >= it.deltaZ {
		it.xDominant = true
		it.err = it.deltaX / 2
	} else {
		it.err = it.deltaZ / 2
	}

	return it
}

// Next advances the iterator to the next cell.
// Returns false when the target has been passed.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true // Return start point
	}

	if it.currentX == it.targetX && it.currentZ == it.targetZ {
		return false
	}

	if it.xDominant {
		it.currentX += it.stepX
		it.err += it.deltaZ
		if it.err >= it.deltaX {
			it.currentZ += it.stepZ
			it.err -= it.deltaX
		}
	} else {
		it.currentZ += it.stepZ
		it.err += it.deltaX
		if it.err >= it.deltaZ {
			it.currentX += it.stepX
			it.err -= it.deltaZ
		}
	}

	return true
}

// Cell returns the current cell.
func (it *LineIterator) Cell() Cell { return Cell{X: it.currentX, Z: it.currentZ} }

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
