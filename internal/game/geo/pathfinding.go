package geo

import (
	"container/heap"
	"math"

	"github.com/udisondev/nightfall/internal/model"
)

// FindPath finds a walking path from start to end using A* over level cells.
// Returns the waypoints to visit after leaving start (the last one is end
// itself) or nil if end is unreachable.
// MaxPathfindIterations limits CPU usage.
func (l *Level) FindPath(start, end model.Vec3) []model.Vec3 {
	sc := l.CellOf(start)
	ec := l.CellOf(end)

	if !l.Walkable(ec) {
		return nil
	}

	// Same cell, already there
	if sc == ec {
		return []model.Vec3{end}
	}

	result := l.astar(sc, ec)
	if result == nil {
		return nil // No path found
	}

	// Convert to world coordinates
	path := make([]model.Vec3, 0, 32)
	for n := result; n != nil; n = n.parent {
		p := l.CellCenter(n.cell)
		p.Y = end.Y
		path = append(path, p)
	}

	// Reverse (A* builds path backward)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	// Replace start and end cell centers with the exact points
	path[0] = start
	path[len(path)-1] = end

	path = l.smoothPath(path)

	return path[1:]
}

// smoothPath removes unnecessary intermediate waypoints from an A* path.
// If waypoint N can be reached directly from N-2, waypoint N-1 is removed.
// Runs up to 3 passes to progressively simplify the path.
func (l *Level) smoothPath(path []model.Vec3) []model.Vec3 {
	for range 3 {
		if len(path) <= 2 {
			return path
		}

		changed := false
		smoothed := make([]model.Vec3, 0, len(path))
		smoothed = append(smoothed, path[0])

		for i := 1; i < len(path)-1; i++ {
			prev := smoothed[len(smoothed)-1]
			next := path[i+1]

			if l.CanMoveTo(prev, next) {
				changed = true
				continue
			}
			smoothed = append(smoothed, path[i])
		}
		smoothed = append(smoothed, path[len(path)-1])
		path = smoothed

		if !changed {
			break
		}
	}
	return path
}

// pathNode represents a node in the A* search graph.
type pathNode struct {
	cell   Cell
	parent *pathNode
	gCost  float64 // Actual cost from start
	fCost  float64 // gCost + heuristic
	index  int     // heap index
}

// astar implements the A* algorithm on level cells (8 directions).
func (l *Level) astar(start, target Cell) *pathNode {
	root := &pathNode{cell: start}
	root.fCost = heuristic(start, target)

	openList := &nodeHeap{}
	heap.Init(openList)
	heap.Push(openList, root)

	closed := make(map[Cell]struct{}, 256)

	for range MaxPathfindIterations {
		if openList.Len() == 0 {
			return nil
		}

		current := heap.Pop(openList).(*pathNode)

		if current.cell == target {
			return current
		}

		if _, exists := closed[current.cell]; exists {
			continue
		}
		closed[current.cell] = struct{}{}

		l.expandNeighbors(current, target, openList, closed)
	}

	return nil // Max iterations exceeded
}

// expandNeighbors adds valid adjacent cells to the open list.
func (l *Level) expandNeighbors(current *pathNode, target Cell, openList *nodeHeap, closed map[Cell]struct{}) {
	// N, E, S, W
	cardinals := [4]Cell{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	var passable [4]bool

	push := func(c Cell, weight float64) {
		if _, exists := closed[c]; exists {
			return
		}
		node := &pathNode{
			cell:   c,
			parent: current,
			gCost:  current.gCost + weight,
		}
		node.fCost = node.gCost + heuristic(c, target)
		heap.Push(openList, node)
	}

	for i, d := range cardinals {
		c := Cell{X: current.cell.X + d.X, Z: current.cell.Z + d.Z}
		if !l.Walkable(c) {
			continue
		}
		passable[i] = true
		push(c, WeightStraight)
	}

	// Diagonal directions (anti-corner-cut: both adjacent cardinals must be passable)
	diagonals := [4]struct {
		d          Cell
		adj1, adj2 int
	}{
		{Cell{1, -1}, 0, 1},  // NE
		{Cell{1, 1}, 1, 2},   // SE
		{Cell{-1, 1}, 2, 3},  // SW
		{Cell{-1, -1}, 3, 0}, // NW
	}

	for _, dg := range diagonals {
		if !passable[dg.adj1] || !passable[dg.adj2] {
			continue
		}
		c := Cell{X: current.cell.X + dg.d.X, Z: current.cell.Z + dg.d.Z}
		if !l.Walkable(c) {
			continue
		}
		push(c, WeightDiagonal)
	}
}

// heuristic is the Euclidean distance between cells.
func heuristic(a, b Cell) float64 {
	dx := float64(a.X - b.X)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// nodeHeap implements container/heap for A* open list (min-heap by fCost).
type nodeHeap []*pathNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].fCost < h[j].fCost }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any)        { n := x.(*pathNode); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	node.index = -1
	*h = old[:n-1]
	return node
}
