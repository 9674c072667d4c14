package encounter

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Coelancanth/Darklands-sub008/internal/config"
	"github.com/Coelancanth/Darklands-sub008/internal/game/actor"
	"github.com/Coelancanth/Darklands-sub008/internal/game/clock"
	"github.com/Coelancanth/Darklands-sub008/internal/game/pathfind"
	"github.com/Coelancanth/Darklands-sub008/internal/game/rng"
	"github.com/Coelancanth/Darklands-sub008/internal/game/scheduler"
)

// ErrDuplicateActor is returned by AddActor for an id already on the roster.
// The scheduler itself accepts duplicate references, but the roster maps each
// id to exactly one actor state and one position.
var ErrDuplicateActor = errors.New("encounter: actor already on roster")

// IntentKind identifies what an actor wants to do with its turn. The zero
// value is IntentWait, so an advisor that returns the zero Intent simply
// idles.
type IntentKind int

const (
	IntentWait IntentKind = iota
	IntentMove
	IntentStrike
)

// Intent is an advisor's decision for one turn.
type Intent struct {
	Kind   IntentKind
	Goal   pathfind.Position // move destination; ignored otherwise
	Target actor.ID          // strike target; ignored otherwise
}

// Contact is a read-only view of another placed, living actor.
type Contact struct {
	ID     actor.ID
	Name   string
	Pos    pathfind.Position
	Static bool
}

// TurnState is everything an advisor may consult when choosing an Intent.
// It is a value snapshot; mutating it does not touch the encounter.
type TurnState struct {
	Self     actor.Actor
	Pos      pathfind.Position
	Now      clock.TimeUnits
	Contacts []Contact // living placed actors other than Self, ordered by id
}

// Advisor chooses an Intent for the acting entity. Advisors must be
// deterministic functions of TurnState (and any rng stream they were built
// with) or replay compatibility is lost.
type Advisor func(TurnState) Intent

// EventKind classifies resolved turn outcomes.
type EventKind int

const (
	EventWait EventKind = iota
	EventMove
	EventStrike
	EventDeath
)

// String returns the event kind label used in logs and event dumps.
func (k EventKind) String() string {
	switch k {
	case EventWait:
		return "wait"
	case EventMove:
		return "move"
	case EventStrike:
		return "strike"
	case EventDeath:
		return "death"
	default:
		return "unknown"
	}
}

// Event records one resolved turn (or a death caused by one).
type Event struct {
	Kind    EventKind
	At      clock.TimeUnits
	ActorID actor.ID
	Actor   string
	Target  actor.ID
	Damage  int
	Path    []pathfind.Position // move events only
	Note    string
}

// Encounter owns one combat: the scheduler, the spatial index, and the actor
// roster. It is the single mutable shared resource of a running fight and
// must only be touched from one goroutine.
type Encounter struct {
	cfg     config.SimulationConfig
	log     *zap.Logger
	src     rng.Source
	sched   *scheduler.Scheduler
	spatial *SpatialIndex
	roster  map[actor.ID]actor.Actor
	advisor Advisor
	events  []Event
}

// New constructs an Encounter over the given terrain. A nil advisor makes
// every actor wait; a nil logger disables logging.
func New(cfg config.SimulationConfig, advisor Advisor, src rng.Source, logger *zap.Logger, terrain ...pathfind.Position) *Encounter {
	if advisor == nil {
		advisor = func(TurnState) Intent { return Intent{Kind: IntentWait} }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encounter{
		cfg:     cfg,
		log:     logger,
		src:     src,
		sched:   scheduler.New(),
		spatial: NewSpatialIndex(terrain...),
		roster:  make(map[actor.ID]actor.Actor),
		advisor: advisor,
	}
}

// AddActor places a on the grid and, if a is an agent, schedules its first
// turn at firstTurn. Statics are placed but never scheduled.
func (e *Encounter) AddActor(a actor.Actor, pos pathfind.Position, firstTurn clock.TimeUnits) error {
	if _, ok := e.roster[a.ID()]; ok {
		return fmt.Errorf("encounter.AddActor: %s: %w", a.ID(), ErrDuplicateActor)
	}
	if err := e.spatial.Place(a.ID(), pos); err != nil {
		return fmt.Errorf("encounter.AddActor: %w", err)
	}
	e.roster[a.ID()] = a
	if a.IsAgent() {
		if err := e.sched.Schedule(scheduler.ScheduledActor{ActorID: a.ID(), NextTurn: firstTurn, Pos: pos}); err != nil {
			return fmt.Errorf("encounter.AddActor: %w", err)
		}
	}
	return nil
}

// Step pops the earliest pending turn and resolves it. Returns false when
// the scheduler is empty. Stale references (dead or unplaced actors) are
// consumed without producing events or rescheduling.
func (e *Encounter) Step() bool {
	ref, ok := e.sched.PopNext()
	if !ok {
		return false
	}
	self, known := e.roster[ref.ActorID]
	if !known || self.IsDead() {
		return true
	}
	pos, placed := e.spatial.PositionOf(ref.ActorID)
	if !placed {
		return true
	}

	state := TurnState{Self: self, Pos: pos, Now: ref.NextTurn, Contacts: e.contactsFor(ref.ActorID)}
	intent := e.advisor(state)

	var duration clock.TimeUnits
	switch intent.Kind {
	case IntentMove:
		duration = e.resolveMove(self, pos, ref.NextTurn, intent.Goal)
	case IntentStrike:
		duration = e.resolveStrike(self, pos, ref.NextTurn, intent.Target)
	default:
		duration = e.resolveWait(self, ref.NextTurn, "waits")
	}

	next := ref.NextTurn.Add(duration)
	newPos, _ := e.spatial.PositionOf(ref.ActorID)
	if err := e.sched.Schedule(scheduler.ScheduledActor{ActorID: ref.ActorID, NextTurn: next, Pos: newPos}); err != nil {
		e.log.Error("rescheduling actor", zap.String("actor", ref.ActorID.String()), zap.Error(err))
	}
	return true
}

// Run drives Step until the scheduler empties, no living agent remains, or
// maxSteps turns have been resolved. Returns the full ordered event log.
func (e *Encounter) Run(maxSteps int) []Event {
	for steps := 0; steps < maxSteps; steps++ {
		if e.livingAgents() == 0 {
			break
		}
		if !e.Step() {
			break
		}
	}
	return e.Events()
}

// Events returns a copy of the ordered event log so far.
func (e *Encounter) Events() []Event {
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// ActorByID returns the current state of an actor on the roster.
func (e *Encounter) ActorByID(id actor.ID) (actor.Actor, bool) {
	a, ok := e.roster[id]
	return a, ok
}

// Actors returns the roster ordered by id.
func (e *Encounter) Actors() []actor.Actor {
	out := make([]actor.Actor, 0, len(e.roster))
	for _, a := range e.roster {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().Less(out[j].ID()) })
	return out
}

// TurnOrder returns the scheduler's non-destructive ordered snapshot.
func (e *Encounter) TurnOrder() []scheduler.ScheduledActor {
	return e.sched.TurnOrder()
}

// PositionOf returns an actor's authoritative position.
func (e *Encounter) PositionOf(id actor.ID) (pathfind.Position, bool) {
	return e.spatial.PositionOf(id)
}

// resolveMove validates a path to goal over the fresh obstacle view and, if
// one exists, relocates the actor to its end. Cost is the path's fixed-point
// movement cost scaled to time units per orthogonal tile.
func (e *Encounter) resolveMove(self actor.Actor, pos pathfind.Position, now clock.TimeUnits, goal pathfind.Position) clock.TimeUnits {
	if goal == pos {
		return e.resolveWait(self, now, "holds position")
	}
	obstacles := e.spatial.ObstaclesFor(self.ID())
	path, ok := pathfind.FindPath(pos, goal, obstacles)
	if !ok {
		return e.resolveWait(self, now, fmt.Sprintf("finds no route to %s", goal))
	}
	dest := path[len(path)-1]
	if err := e.spatial.Move(self.ID(), dest); err != nil {
		e.log.Error("moving actor", zap.String("actor", self.Name()), zap.Error(err))
		return e.resolveWait(self, now, "is blocked")
	}
	cost := pathfind.PathCost(path)
	duration := clock.Saturate(cost * e.cfg.TileTime / pathfind.OrthogonalCost)
	e.emit(Event{
		Kind: EventMove, At: now, ActorID: self.ID(), Actor: self.Name(),
		Path: path, Note: fmt.Sprintf("moves %s to %s", self.Name(), dest),
	})
	return duration
}

// resolveStrike applies damage to an adjacent living target. Out-of-reach or
// invalid targets degrade to a wait so a buggy advisor cannot stall the
// timeline.
func (e *Encounter) resolveStrike(self actor.Actor, pos pathfind.Position, now clock.TimeUnits, targetID actor.ID) clock.TimeUnits {
	target, known := e.roster[targetID]
	if !known || target.IsDead() {
		return e.resolveWait(self, now, "strikes at nothing")
	}
	targetPos, placed := e.spatial.PositionOf(targetID)
	if !placed || !pos.IsAdjacent(targetPos) {
		return e.resolveWait(self, now, fmt.Sprintf("cannot reach %s", target.Name()))
	}

	damage := e.cfg.StrikeDamage
	if e.cfg.DamageJitter > 0 && e.src != nil {
		damage += e.src.Intn(e.cfg.DamageJitter + 1)
	}
	struck, err := target.TakeDamage(damage)
	if err != nil {
		e.log.Error("applying damage", zap.String("target", target.Name()), zap.Error(err))
		return e.resolveWait(self, now, "falters")
	}
	e.roster[targetID] = struck
	e.emit(Event{
		Kind: EventStrike, At: now, ActorID: self.ID(), Actor: self.Name(),
		Target: targetID, Damage: damage,
		Note: fmt.Sprintf("%s strikes %s for %d (%s)", self.Name(), struck.Name(), damage, struck.Health()),
	})

	if struck.IsDead() {
		if err := e.spatial.Remove(targetID); err != nil {
			e.log.Error("removing corpse", zap.String("target", struck.Name()), zap.Error(err))
		}
		e.emit(Event{
			Kind: EventDeath, At: now, ActorID: targetID, Actor: struck.Name(),
			Note: fmt.Sprintf("%s dies", struck.Name()),
		})
	}
	return clock.Saturate(e.cfg.StrikeTime)
}

// resolveWait emits an idle event and returns the idle duration.
func (e *Encounter) resolveWait(self actor.Actor, now clock.TimeUnits, note string) clock.TimeUnits {
	e.emit(Event{
		Kind: EventWait, At: now, ActorID: self.ID(), Actor: self.Name(),
		Note: fmt.Sprintf("%s %s", self.Name(), note),
	})
	return clock.Saturate(e.cfg.WaitTime)
}

// contactsFor returns the living placed actors other than selfID, ordered by
// id so advisors see a deterministic view.
func (e *Encounter) contactsFor(selfID actor.ID) []Contact {
	var contacts []Contact
	for id, a := range e.roster {
		if id == selfID || a.IsDead() {
			continue
		}
		pos, placed := e.spatial.PositionOf(id)
		if !placed {
			continue
		}
		contacts = append(contacts, Contact{ID: id, Name: a.Name(), Pos: pos, Static: a.IsStatic()})
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].ID.Less(contacts[j].ID) })
	return contacts
}

// livingAgents counts schedulable actors still alive.
func (e *Encounter) livingAgents() int {
	n := 0
	for _, a := range e.roster {
		if a.IsAgent() && !a.IsDead() {
			n++
		}
	}
	return n
}

// emit appends ev to the log and mirrors it to the structured logger.
func (e *Encounter) emit(ev Event) {
	e.events = append(e.events, ev)
	e.log.Debug("turn resolved",
		zap.String("kind", ev.Kind.String()),
		zap.String("at", ev.At.String()),
		zap.String("actor", ev.Actor),
		zap.String("note", ev.Note),
	)
}
