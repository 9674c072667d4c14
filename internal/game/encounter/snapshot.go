package encounter

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Coelancanth/Darklands-sub008/internal/config"
	"github.com/Coelancanth/Darklands-sub008/internal/game/actor"
	"github.com/Coelancanth/Darklands-sub008/internal/game/clock"
	"github.com/Coelancanth/Darklands-sub008/internal/game/pathfind"
	"github.com/Coelancanth/Darklands-sub008/internal/game/rng"
	"github.com/Coelancanth/Darklands-sub008/internal/game/scheduler"
)

// ActorSnapshot is one roster entry in flat serializable form. Identity is
// the id's canonical string; no behavior, no engine handles.
type ActorSnapshot struct {
	ID      string            `yaml:"id"`
	Name    string            `yaml:"name"`
	Current int               `yaml:"current"`
	Maximum int               `yaml:"maximum"`
	Static  bool              `yaml:"static"`
	Placed  bool              `yaml:"placed"`
	Pos     pathfind.Position `yaml:"pos"`
}

// QueueSnapshot is one pending scheduler reference in serializable form.
type QueueSnapshot struct {
	ActorID  string            `yaml:"actor_id"`
	NextTurn int               `yaml:"next_turn"`
	Pos      pathfind.Position `yaml:"pos"`
}

// Snapshot is a complete restorable capture of a running encounter: roster,
// positions, pending turns in scheduler order, terrain, and the rng stream
// state. Save order is the scheduler's total order, so two snapshots of the
// same state are byte-identical however they were reached.
type Snapshot struct {
	Actors   []ActorSnapshot     `yaml:"actors"`
	Queue    []QueueSnapshot     `yaml:"queue"`
	Terrain  []pathfind.Position `yaml:"terrain"`
	RNGState uint64              `yaml:"rng_state"`
}

// Snapshot captures the encounter's current state. The event log is not
// captured; it is derived output, not simulation state.
func (e *Encounter) Snapshot() Snapshot {
	var snap Snapshot
	for _, a := range e.Actors() {
		pos, placed := e.spatial.PositionOf(a.ID())
		snap.Actors = append(snap.Actors, ActorSnapshot{
			ID:      a.ID().String(),
			Name:    a.Name(),
			Current: a.Health().Current(),
			Maximum: a.Health().Maximum(),
			Static:  a.IsStatic(),
			Placed:  placed,
			Pos:     pos,
		})
	}
	for _, ref := range e.sched.TurnOrder() {
		snap.Queue = append(snap.Queue, QueueSnapshot{
			ActorID:  ref.ActorID.String(),
			NextTurn: ref.NextTurn.Value(),
			Pos:      ref.Pos,
		})
	}
	snap.Terrain = e.spatial.Terrain()
	if stream, ok := e.src.(*rng.Stream); ok {
		snap.RNGState = stream.State()
	}
	return snap
}

// Restore rebuilds an Encounter from a snapshot. The restored encounter's
// turn order, actor states, positions, and rng stream are identical to the
// captured one's.
func Restore(snap Snapshot, cfg config.SimulationConfig, advisor Advisor, logger *zap.Logger) (*Encounter, error) {
	enc := New(cfg, advisor, rng.ResumeStream(snap.RNGState), logger, snap.Terrain...)
	for _, as := range snap.Actors {
		id, err := actor.ParseID(as.ID)
		if err != nil {
			return nil, fmt.Errorf("encounter.Restore: %w", err)
		}
		health, err := actor.NewHealth(as.Current, as.Maximum)
		if err != nil {
			return nil, fmt.Errorf("encounter.Restore: actor %q: %w", as.Name, err)
		}
		a, err := actor.New(id, as.Name, health, as.Static)
		if err != nil {
			return nil, fmt.Errorf("encounter.Restore: %w", err)
		}
		enc.roster[a.ID()] = a
		if as.Placed {
			if err := enc.spatial.Place(a.ID(), as.Pos); err != nil {
				return nil, fmt.Errorf("encounter.Restore: %w", err)
			}
		}
	}
	for _, qs := range snap.Queue {
		id, err := actor.ParseID(qs.ActorID)
		if err != nil {
			return nil, fmt.Errorf("encounter.Restore: %w", err)
		}
		// NewUnchecked: the value was range-valid when captured.
		ref := scheduler.ScheduledActor{ActorID: id, NextTurn: clock.NewUnchecked(qs.NextTurn), Pos: qs.Pos}
		if err := enc.sched.Schedule(ref); err != nil {
			return nil, fmt.Errorf("encounter.Restore: %w", err)
		}
	}
	return enc, nil
}

// Encode renders the snapshot as YAML.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encounter.Snapshot.Encode: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a YAML snapshot produced by Encode.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("encounter.DecodeSnapshot: %w", err)
	}
	return s, nil
}
