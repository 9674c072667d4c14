// Package encounter drives one combat encounter: it owns the turn scheduler,
// the authoritative spatial index, and the actor roster, and resolves each
// popped turn into a move, strike, or wait. Everything is single-threaded by
// contract; the caller marshals all calls onto one simulation goroutine.
package encounter

import (
	"errors"
	"fmt"

	"github.com/Coelancanth/Darklands-sub008/internal/game/actor"
	"github.com/Coelancanth/Darklands-sub008/internal/game/pathfind"
)

// Spatial index errors.
var (
	// ErrTileOccupied is returned when placing or moving onto an occupied
	// or terrain-blocked tile.
	ErrTileOccupied = errors.New("encounter: tile occupied")
	// ErrAlreadyPlaced is returned when placing an actor that already has a
	// position.
	ErrAlreadyPlaced = errors.New("encounter: actor already placed")
	// ErrNotPlaced is returned when moving or removing an actor the index
	// does not know.
	ErrNotPlaced = errors.New("encounter: actor not placed")
)

// SpatialIndex is the authoritative grid-to-actor mapping for one encounter.
// Actor models never carry positions; the scheduler's position field is a
// snapshot refreshed from here.
type SpatialIndex struct {
	terrain      pathfind.ObstacleSet
	terrainTiles []pathfind.Position
	byPos        map[pathfind.Position]actor.ID
	byID         map[actor.ID]pathfind.Position
}

// NewSpatialIndex builds an index over the given impassable terrain tiles.
func NewSpatialIndex(terrain ...pathfind.Position) *SpatialIndex {
	tiles := make([]pathfind.Position, len(terrain))
	copy(tiles, terrain)
	return &SpatialIndex{
		terrain:      pathfind.NewObstacleSet(terrain...),
		terrainTiles: tiles,
		byPos:        make(map[pathfind.Position]actor.ID),
		byID:         make(map[actor.ID]pathfind.Position),
	}
}

// Place assigns pos to id.
//
// Postcondition: error wraps ErrAlreadyPlaced if id already has a position,
// or ErrTileOccupied if pos is terrain-blocked or held by another actor.
func (s *SpatialIndex) Place(id actor.ID, pos pathfind.Position) error {
	if _, ok := s.byID[id]; ok {
		return fmt.Errorf("encounter.SpatialIndex.Place: %s: %w", id, ErrAlreadyPlaced)
	}
	if s.blocked(pos) {
		return fmt.Errorf("encounter.SpatialIndex.Place: %s at %s: %w", id, pos, ErrTileOccupied)
	}
	s.byPos[pos] = id
	s.byID[id] = pos
	return nil
}

// Move relocates id to pos.
//
// Postcondition: error wraps ErrNotPlaced if id has no position, or
// ErrTileOccupied if pos is blocked by terrain or another actor. Moving onto
// the actor's own tile is a no-op.
func (s *SpatialIndex) Move(id actor.ID, pos pathfind.Position) error {
	current, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("encounter.SpatialIndex.Move: %s: %w", id, ErrNotPlaced)
	}
	if current == pos {
		return nil
	}
	if s.blocked(pos) {
		return fmt.Errorf("encounter.SpatialIndex.Move: %s to %s: %w", id, pos, ErrTileOccupied)
	}
	delete(s.byPos, current)
	s.byPos[pos] = id
	s.byID[id] = pos
	return nil
}

// Remove clears id's position (a corpse frees its tile).
//
// Postcondition: error wraps ErrNotPlaced iff id has no position.
func (s *SpatialIndex) Remove(id actor.ID) error {
	pos, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("encounter.SpatialIndex.Remove: %s: %w", id, ErrNotPlaced)
	}
	delete(s.byPos, pos)
	delete(s.byID, id)
	return nil
}

// At returns the actor occupying pos, if any.
func (s *SpatialIndex) At(pos pathfind.Position) (actor.ID, bool) {
	id, ok := s.byPos[pos]
	return id, ok
}

// PositionOf returns id's current position, if placed.
func (s *SpatialIndex) PositionOf(id actor.ID) (pathfind.Position, bool) {
	pos, ok := s.byID[id]
	return pos, ok
}

// ObstaclesFor builds a fresh obstacle set for a path search by mover:
// terrain plus every occupied tile except the mover's own. The set is a
// per-call value; the index keeps no search state.
func (s *SpatialIndex) ObstaclesFor(mover actor.ID) pathfind.ObstacleSet {
	blocked := make([]pathfind.Position, 0, s.terrain.Len()+len(s.byPos))
	blocked = append(blocked, s.Terrain()...)
	for pos, id := range s.byPos {
		if id == mover {
			continue
		}
		blocked = append(blocked, pos)
	}
	return pathfind.NewObstacleSet(blocked...)
}

// Terrain returns a copy of the impassable terrain tiles.
func (s *SpatialIndex) Terrain() []pathfind.Position {
	tiles := make([]pathfind.Position, len(s.terrainTiles))
	copy(tiles, s.terrainTiles)
	return tiles
}

// blocked reports whether pos is terrain or occupied.
func (s *SpatialIndex) blocked(pos pathfind.Position) bool {
	if s.terrain.Contains(pos) {
		return true
	}
	_, occupied := s.byPos[pos]
	return occupied
}
