package encounter

import "github.com/Coelancanth/Darklands-sub008/internal/game/pathfind"

// approachOffsets is the fixed candidate order for tiles adjacent to a
// target. Fixed so goal selection ties break the same way on every run.
var approachOffsets = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// SeekAndStrike is the stock aggressive advisor: strike the nearest living
// contact if adjacent, otherwise move toward a tile beside it. Waits when
// alone. Purely a function of TurnState, so it preserves replay determinism.
func SeekAndStrike(state TurnState) Intent {
	target, found := nearestContact(state)
	if !found {
		return Intent{Kind: IntentWait}
	}
	if state.Pos.IsAdjacent(target.Pos) {
		return Intent{Kind: IntentStrike, Target: target.ID}
	}
	return Intent{Kind: IntentMove, Goal: approachTile(state.Pos, target.Pos)}
}

// nearestContact picks the contact with the smallest Chebyshev distance from
// state.Pos. Contacts arrive ordered by id, so equal distances resolve to the
// lexicographically smallest id.
func nearestContact(state TurnState) (Contact, bool) {
	best := Contact{}
	bestDist := -1
	for _, c := range state.Contacts {
		d := chebyshev(state.Pos, c.Pos)
		if bestDist == -1 || d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, bestDist != -1
}

// approachTile returns the tile adjacent to target closest to from, trying
// candidates in the fixed approach order.
func approachTile(from, target pathfind.Position) pathfind.Position {
	best := target
	bestDist := -1
	for _, d := range approachOffsets {
		tile := pathfind.Position{X: target.X + d[0], Y: target.Y + d[1]}
		dist := chebyshev(from, tile)
		if bestDist == -1 || dist < bestDist {
			best = tile
			bestDist = dist
		}
	}
	return best
}

// chebyshev is the 8-direction move-count distance between two tiles.
func chebyshev(a, b pathfind.Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
