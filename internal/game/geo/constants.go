package geo

// Level glyphs used by ParseLevel.
const (
	GlyphFloor        = '.'
	GlyphFloorAlt     = ' '
	GlyphWall         = '#'
	GlyphDoor         = 'D'
	GlyphGlass        = '='
	GlyphSoundBarrier = '%'
)

// Pathfinding configuration.
const (
	MaxPathfindIterations = 20000

	// A* weights.
	WeightStraight = 1.0
	WeightDiagonal = 1.41421356
)
