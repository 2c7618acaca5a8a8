package ai

import (
	"container/heap"
	"math"
)

// DefaultGridSize is the planner's cell size in map units.
const DefaultGridSize = 50.0

// maxExpansions caps A* work per query. On exhaustion the planner
// falls back to a direct path, which may cross obstacles; callers must
// tolerate that degenerate case.
const maxExpansions = 1000

// smoothSampleStep is the spacing, in map units, of the collision
// samples taken along a candidate smoothed segment.
const smoothSampleStep = 20.0

// TerrainCollider is a static circular obstacle from the map layer.
type TerrainCollider struct {
	X, Y     float64
	Radius   float64
	Collides bool
}

// Waypoint is one point of a planned path, in map units.
type Waypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type cell struct {
	gx, gy int
}

type pathNode struct {
	cell   cell
	g, f   float64
	parent *pathNode
	index  int
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

// FindPath plans a route from start to goal over a grid of gridSize
// cells (pass 0 for the default), avoiding circular terrain colliders
// inflated by unitRadius. The search is A* with 8-connected moves
// (diagonals cost sqrt 2), a Manhattan heuristic and an expansion cap;
// when the cap is hit or no route exists, a direct two-point path is
// returned instead of nothing. The raw grid path is smoothed by
// removing waypoints whose bypass segment is collision free.
func FindPath(startX, startY, goalX, goalY, unitRadius float64, colliders []TerrainCollider, maxWidth, maxHeight float64, gridSize float64) []Waypoint {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	direct := []Waypoint{{startX, startY}, {goalX, goalY}}

	toCell := func(x, y float64) cell {
		return cell{int(math.Round(x / gridSize)), int(math.Round(y / gridSize))}
	}
	center := func(c cell) (float64, float64) {
		return float64(c.gx) * gridSize, float64(c.gy) * gridSize
	}
	maxGX := int(math.Ceil(maxWidth / gridSize))
	maxGY := int(math.Ceil(maxHeight / gridSize))

	blocked := func(c cell) bool {
		x, y := center(c)
		for _, col := range colliders {
			if !col.Collides {
				continue
			}
			dx, dy := x-col.X, y-col.Y
			reach := col.Radius + unitRadius
			if dx*dx+dy*dy < reach*reach {
				return true
			}
		}
		return false
	}

	start := toCell(startX, startY)
	goal := toCell(goalX, goalY)
	if start == goal {
		return direct
	}

	// Manhattan distance in map units.
	h := func(c cell) float64 {
		return (math.Abs(float64(c.gx-goal.gx)) + math.Abs(float64(c.gy-goal.gy))) * gridSize
	}

	open := &nodeHeap{}
	heap.Init(open)
	gScore := map[cell]float64{start: 0}
	closed := map[cell]bool{}
	heap.Push(open, &pathNode{cell: start, g: 0, f: h(start)})

	diag := gridSize * math.Sqrt2
	steps := []struct {
		dx, dy int
		cost   float64
	}{
		{1, 0, gridSize}, {-1, 0, gridSize}, {0, 1, gridSize}, {0, -1, gridSize},
		{1, 1, diag}, {1, -1, diag}, {-1, 1, diag}, {-1, -1, diag},
	}

	var goalNode *pathNode
	expansions := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true

		if cur.cell == goal {
			goalNode = cur
			break
		}

		expansions++
		if expansions >= maxExpansions {
			return direct
		}

		for _, s := range steps {
			next := cell{cur.cell.gx + s.dx, cur.cell.gy + s.dy}
			if next.gx < 0 || next.gy < 0 || next.gx > maxGX || next.gy > maxGY {
				continue
			}
			if closed[next] || blocked(next) {
				continue
			}
			ng := cur.g + s.cost
			if prev, ok := gScore[next]; ok && ng >= prev {
				continue
			}
			gScore[next] = ng
			heap.Push(open, &pathNode{cell: next, g: ng, f: ng + h(next), parent: cur})
		}
	}
	if goalNode == nil {
		return direct
	}

	// Reconstruct: exact endpoints, grid centers in between.
	var cells []cell
	for n := goalNode; n != nil; n = n.parent {
		cells = append(cells, n.cell)
	}
	path := make([]Waypoint, 0, len(cells)+1)
	path = append(path, Waypoint{startX, startY})
	for i := len(cells) - 2; i >= 1; i-- {
		x, y := center(cells[i])
		path = append(path, Waypoint{x, y})
	}
	path = append(path, Waypoint{goalX, goalY})

	return smoothPath(path, unitRadius, colliders)
}

// smoothPath greedily removes intermediate waypoints: from each anchor
// it jumps to the furthest later waypoint reachable by a collision
// free straight segment.
func smoothPath(path []Waypoint, unitRadius float64, colliders []TerrainCollider) []Waypoint {
	if len(path) <= 2 {
		return path
	}
	out := []Waypoint{path[0]}
	i := 0
	for i < len(path)-1 {
		j := len(path) - 1
		for j > i+1 && !segmentClear(path[i], path[j], unitRadius, colliders) {
			j--
		}
		out = append(out, path[j])
		i = j
	}
	return out
}

// segmentClear samples the segment every smoothSampleStep map units
// and checks each sample against the inflated colliders.
func segmentClear(a, b Waypoint, unitRadius float64, colliders []TerrainCollider) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Hypot(dx, dy)
	steps := int(math.Ceil(dist / smoothSampleStep))
	if steps < 1 {
		steps = 1
	}
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		x, y := a.X+dx*t, a.Y+dy*t
		for _, col := range colliders {
			if !col.Collides {
				continue
			}
			cx, cy := x-col.X, y-col.Y
			reach := col.Radius + unitRadius
			if cx*cx+cy*cy < reach*reach {
				return false
			}
		}
	}
	return true
}
