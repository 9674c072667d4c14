// Package pathfind implements deterministic A* grid search with integer
// movement costs. FindPath is a pure function: all state lives on the call
// stack, so independent encounters may search concurrently as long as each
// supplies its own obstacle set.
package pathfind

import "fmt"

// Movement costs in fixed-point units (orthogonal step = 100; diagonal step
// approximates 100*sqrt(2)).
const (
	OrthogonalCost = 100
	DiagonalCost   = 141
)

// Position is an immutable integer grid coordinate.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// String renders as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// IsAdjacent reports whether o is one of p's 8 neighbors (orthogonal or
// diagonal). A position is not adjacent to itself.
func (p Position) IsAdjacent(o Position) bool {
	dx := abs(p.X - o.X)
	dy := abs(p.Y - o.Y)
	if dx == 0 && dy == 0 {
		return false
	}
	return dx <= 1 && dy <= 1
}

// StepCost returns the movement cost from p to an adjacent position o:
// OrthogonalCost for straight steps, DiagonalCost for diagonal steps.
//
// Precondition: p.IsAdjacent(o).
func (p Position) StepCost(o Position) int {
	if p.X != o.X && p.Y != o.Y {
		return DiagonalCost
	}
	return OrthogonalCost
}

// less orders positions by x then y. Only used for tie-breaking; exported
// behavior never depends on it beyond determinism.
func (p Position) less(o Position) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// ObstacleSet is an immutable set view of blocked positions, built fresh for
// every search call. The zero value is an empty set.
type ObstacleSet struct {
	blocked map[Position]struct{}
}

// NewObstacleSet copies positions into a set.
func NewObstacleSet(positions ...Position) ObstacleSet {
	blocked := make(map[Position]struct{}, len(positions))
	for _, p := range positions {
		blocked[p] = struct{}{}
	}
	return ObstacleSet{blocked: blocked}
}

// Contains reports whether p is blocked.
func (s ObstacleSet) Contains(p Position) bool {
	_, ok := s.blocked[p]
	return ok
}

// Len returns the number of blocked positions.
func (s ObstacleSet) Len() int { return len(s.blocked) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
