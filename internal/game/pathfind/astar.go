package pathfind

import "container/heap"

// neighborOffsets is the fixed 8-direction expansion order. The order itself
// does not affect results (the frontier's total order does), but it is kept
// fixed anyway so traces are reproducible.
var neighborOffsets = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// node is one A* search record. gCost is the exact cost from start, hCost the
// heuristic to goal, fCost their sum.
type node struct {
	pos    Position
	gCost  int
	hCost  int
	fCost  int
	parent *node
	index  int // heap index; -1 once popped
	closed bool
}

// FindPath returns the lowest-cost path from start to goal as an ordered
// sequence of positions including both endpoints, or (nil, false) when no
// path exists. Repeated calls with identical inputs always return the
// identical path: the frontier is ordered by fCost, then hCost, then x, then
// y, which is total over distinct positions.
//
// Edge cases: start == goal returns a single-element path without searching;
// a blocked goal always returns no path. The returned path never contains an
// obstacle position.
func FindPath(start, goal Position, obstacles ObstacleSet) ([]Position, bool) {
	if start == goal {
		return []Position{start}, true
	}
	if obstacles.Contains(goal) {
		return nil, false
	}

	nodes := make(map[Position]*node)
	open := &frontier{}
	heap.Init(open)

	startNode := &node{pos: start, gCost: 0, hCost: heuristic(start, goal)}
	startNode.fCost = startNode.hCost
	nodes[start] = startNode
	heap.Push(open, startNode)

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		current.closed = true

		if current.pos == goal {
			return reconstruct(current), true
		}

		for _, d := range neighborOffsets {
			next := Position{X: current.pos.X + d[0], Y: current.pos.Y + d[1]}
			if obstacles.Contains(next) {
				continue
			}
			stepCost := OrthogonalCost
			if d[0] != 0 && d[1] != 0 {
				stepCost = DiagonalCost
			}
			tentative := current.gCost + stepCost

			existing, seen := nodes[next]
			if seen && existing.closed {
				continue
			}
			if seen && tentative >= existing.gCost {
				continue
			}

			if !seen {
				existing = &node{pos: next, hCost: heuristic(next, goal)}
				nodes[next] = existing
				existing.gCost = tentative
				existing.fCost = tentative + existing.hCost
				existing.parent = current
				heap.Push(open, existing)
				continue
			}

			existing.gCost = tentative
			existing.fCost = tentative + existing.hCost
			existing.parent = current
			heap.Fix(open, existing.index)
		}
	}
	return nil, false
}

// PathCost sums the step costs along path.
//
// Precondition: consecutive positions are adjacent.
// Postcondition: returns 0 for paths of length 0 or 1.
func PathCost(path []Position) int {
	total := 0
	for i := 1; i < len(path); i++ {
		total += path[i-1].StepCost(path[i])
	}
	return total
}

// heuristic is Manhattan distance scaled by the orthogonal cost.
func heuristic(a, b Position) int {
	return (abs(a.X-b.X) + abs(a.Y-b.Y)) * OrthogonalCost
}

// reconstruct walks parent links from goal back to start and reverses.
func reconstruct(goal *node) []Position {
	var path []Position
	for n := goal; n != nil; n = n.parent {
		path = append(path, n.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// frontier is the open set: a min-heap ordered by fCost, then hCost, then
// position x, then y. The positional keys make the order total over distinct
// cells, which is what pins the expansion order (and therefore the returned
// path) for identical inputs.
type frontier []*node

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	a, b := f[i], f[j]
	if a.fCost != b.fCost {
		return a.fCost < b.fCost
	}
	if a.hCost != b.hCost {
		return a.hCost < b.hCost
	}
	return a.pos.less(b.pos)
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(*f)
	*f = append(*f, n)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*f = old[:n-1]
	return item
}
