// Package scheduler maintains the single source of truth for "who acts next"
// in an encounter. References are ordered by activation time, then actor id,
// under a strict total order, so identical reference sets always produce an
// identical processing order regardless of insertion sequence. That property
// is what makes saves, loads, and replays bit-compatible.
package scheduler

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"

	"github.com/Coelancanth/Darklands-sub008/internal/game/actor"
	"github.com/Coelancanth/Darklands-sub008/internal/game/clock"
	"github.com/Coelancanth/Darklands-sub008/internal/game/pathfind"
)

// ErrInvalidEntity is returned by Schedule when the reference carries no
// actor identity. This is a caller bug surfaced as an error rather than a
// panic: the core must never crash a long-running session.
var ErrInvalidEntity = errors.New("scheduler: reference has no actor id")

// ScheduledActor is the scheduler's lightweight view of an entity: who, when
// they next act, and where they were when scheduled. Pos is a snapshot for
// presentation and targeting hints; the encounter's spatial index stays
// authoritative.
//
// Duplicate ActorIDs may be scheduled concurrently. That is intentional: the
// scheduler orders turns, it does not enforce one pending turn per entity.
type ScheduledActor struct {
	ActorID  actor.ID
	NextTurn clock.TimeUnits
	Pos      pathfind.Position
}

// before is the scheduler's total order: NextTurn ascending, then ActorID
// ascending in canonical form. References with equal (NextTurn, ActorID)
// compare equal.
func (s ScheduledActor) before(o ScheduledActor) bool {
	if !s.NextTurn.Equal(o.NextTurn) {
		return s.NextTurn.Less(o.NextTurn)
	}
	return s.ActorID.Less(o.ActorID)
}

// Scheduler is a mutable ordered collection of pending turns. It is not safe
// for concurrent use: exactly one logical owner per active encounter, all
// calls on one simulation goroutine.
type Scheduler struct {
	entries entryHeap
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Schedule inserts ref in O(log n).
//
// Postcondition: error wraps ErrInvalidEntity iff ref.ActorID is the zero
// id; duplicates of an already-scheduled id are accepted.
func (s *Scheduler) Schedule(ref ScheduledActor) error {
	if ref.ActorID.IsZero() {
		return fmt.Errorf("scheduler.Schedule: %w", ErrInvalidEntity)
	}
	heap.Push(&s.entries, ref)
	return nil
}

// PopNext removes and returns the earliest-ordered reference in O(log n).
// The second return is false when the scheduler is empty, which is a valid
// terminal state, not an error.
func (s *Scheduler) PopNext() (ScheduledActor, bool) {
	if len(s.entries) == 0 {
		return ScheduledActor{}, false
	}
	ref := heap.Pop(&s.entries).(ScheduledActor)
	return ref, true
}

// TurnOrder returns the full ordered sequence without mutating state.
// Repeated calls with no intervening mutation return identical slices.
func (s *Scheduler) TurnOrder() []ScheduledActor {
	order := make([]ScheduledActor, len(s.entries))
	copy(order, s.entries)
	sort.Slice(order, func(i, j int) bool {
		return order[i].before(order[j])
	})
	return order
}

// Clear empties the scheduler unconditionally.
func (s *Scheduler) Clear() {
	s.entries = s.entries[:0]
}

// Len returns the number of pending references.
func (s *Scheduler) Len() int {
	return len(s.entries)
}

// entryHeap is a min-heap over the scheduler's total order. The heap's
// internal layout depends on insertion history, but pop order and TurnOrder
// do not: ties are broken by actor id, never by heap position.
type entryHeap []ScheduledActor

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].before(h[j]) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(ScheduledActor))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
