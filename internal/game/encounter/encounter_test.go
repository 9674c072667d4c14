package encounter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Coelancanth/Darklands-sub008/internal/config"
	"github.com/Coelancanth/Darklands-sub008/internal/game/actor"
	"github.com/Coelancanth/Darklands-sub008/internal/game/clock"
	"github.com/Coelancanth/Darklands-sub008/internal/game/encounter"
	"github.com/Coelancanth/Darklands-sub008/internal/game/pathfind"
	"github.com/Coelancanth/Darklands-sub008/internal/game/rng"
)

func simCfg() config.SimulationConfig {
	return config.SimulationConfig{
		MaxSteps:     200,
		TileTime:     100,
		StrikeTime:   150,
		StrikeDamage: 12,
		DamageJitter: 0,
		WaitTime:     100,
	}
}

func mustAgent(t *testing.T, name string, hp int) actor.Actor {
	t.Helper()
	a, err := actor.NewAgent(name, hp)
	require.NoError(t, err)
	return a
}

func TestAddActor_DuplicateRejected(t *testing.T) {
	enc := encounter.New(simCfg(), nil, nil, nil)
	a := mustAgent(t, "Aldric", 100)
	require.NoError(t, enc.AddActor(a, pos(0, 0), clock.Zero()))

	err := enc.AddActor(a, pos(1, 1), clock.Zero())
	require.Error(t, err)
	assert.True(t, errors.Is(err, encounter.ErrDuplicateActor))
}

func TestAddActor_OccupiedTileRejected(t *testing.T) {
	enc := encounter.New(simCfg(), nil, nil, nil)
	require.NoError(t, enc.AddActor(mustAgent(t, "Aldric", 100), pos(0, 0), clock.Zero()))

	err := enc.AddActor(mustAgent(t, "Gorn", 80), pos(0, 0), clock.Zero())
	require.Error(t, err)
	assert.True(t, errors.Is(err, encounter.ErrTileOccupied))
}

func TestAddActor_StaticsNotScheduled(t *testing.T) {
	enc := encounter.New(simCfg(), nil, nil, nil)
	dummy, err := actor.NewTrainingDummy("Dummy")
	require.NoError(t, err)
	require.NoError(t, enc.AddActor(dummy, pos(3, 3), clock.Zero()))
	require.NoError(t, enc.AddActor(mustAgent(t, "Aldric", 100), pos(0, 0), clock.Zero()))

	order := enc.TurnOrder()
	require.Len(t, order, 1)
	assert.NotEqual(t, dummy.ID(), order[0].ActorID)
}

func TestStep_EmptyScheduler(t *testing.T) {
	enc := encounter.New(simCfg(), nil, nil, nil)
	assert.False(t, enc.Step())
}

func TestStep_DefaultAdvisorWaits(t *testing.T) {
	enc := encounter.New(simCfg(), nil, nil, nil)
	a := mustAgent(t, "Aldric", 100)
	require.NoError(t, enc.AddActor(a, pos(0, 0), clock.Zero()))

	require.True(t, enc.Step())

	events := enc.Events()
	require.Len(t, events, 1)
	assert.Equal(t, encounter.EventWait, events[0].Kind)
	assert.Equal(t, a.ID(), events[0].ActorID)

	order := enc.TurnOrder()
	require.Len(t, order, 1, "agent must be rescheduled")
	assert.Equal(t, simCfg().WaitTime, order[0].NextTurn.Value())
}

func TestStep_MoveAdvancesActor(t *testing.T) {
	goal := pos(2, 0)
	advisor := func(state encounter.TurnState) encounter.Intent {
		return encounter.Intent{Kind: encounter.IntentMove, Goal: goal}
	}
	enc := encounter.New(simCfg(), advisor, nil, nil)
	a := mustAgent(t, "Aldric", 100)
	require.NoError(t, enc.AddActor(a, pos(0, 0), clock.Zero()))

	require.True(t, enc.Step())

	p, ok := enc.PositionOf(a.ID())
	require.True(t, ok)
	assert.Equal(t, goal, p)

	events := enc.Events()
	require.Len(t, events, 1)
	assert.Equal(t, encounter.EventMove, events[0].Kind)
	assert.Equal(t, []pathfind.Position{pos(0, 0), pos(1, 0), pos(2, 0)}, events[0].Path)

	// Two orthogonal steps at 100 units each.
	order := enc.TurnOrder()
	require.Len(t, order, 1)
	assert.Equal(t, 200, order[0].NextTurn.Value())
	assert.Equal(t, goal, order[0].Pos, "snapshot position must be refreshed")
}

func TestStep_MoveWithNoRouteWaits(t *testing.T) {
	// Goal enclosed by terrain on all 8 sides.
	goal := pos(8, 8)
	var blocked []pathfind.Position
	for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
		blocked = append(blocked, pos(goal.X+d[0], goal.Y+d[1]))
	}
	enc := encounter.New(simCfg(), func(encounter.TurnState) encounter.Intent {
		return encounter.Intent{Kind: encounter.IntentMove, Goal: goal}
	}, nil, nil, blocked...)

	a := mustAgent(t, "Aldric", 100)
	require.NoError(t, enc.AddActor(a, pos(0, 0), clock.Zero()))
	require.True(t, enc.Step())

	events := enc.Events()
	require.Len(t, events, 1)
	assert.Equal(t, encounter.EventWait, events[0].Kind)
	p, _ := enc.PositionOf(a.ID())
	assert.Equal(t, pos(0, 0), p, "actor must not move when no route exists")
}

func TestStep_StrikeAppliesDamage(t *testing.T) {
	target := mustAgent(t, "Gorn", 80)
	advisor := func(state encounter.TurnState) encounter.Intent {
		return encounter.Intent{Kind: encounter.IntentStrike, Target: target.ID()}
	}
	enc := encounter.New(simCfg(), advisor, nil, nil)
	striker := mustAgent(t, "Aldric", 100)
	require.NoError(t, enc.AddActor(striker, pos(0, 0), clock.Zero()))
	require.NoError(t, enc.AddActor(target, pos(1, 0), clock.NewUnchecked(5000)))

	require.True(t, enc.Step())

	got, ok := enc.ActorByID(target.ID())
	require.True(t, ok)
	assert.Equal(t, 80-simCfg().StrikeDamage, got.Health().Current())

	events := enc.Events()
	require.Len(t, events, 1)
	assert.Equal(t, encounter.EventStrike, events[0].Kind)
	assert.Equal(t, simCfg().StrikeDamage, events[0].Damage)
}

func TestStep_StrikeOutOfReachWaits(t *testing.T) {
	target := mustAgent(t, "Gorn", 80)
	advisor := func(state encounter.TurnState) encounter.Intent {
		return encounter.Intent{Kind: encounter.IntentStrike, Target: target.ID()}
	}
	enc := encounter.New(simCfg(), advisor, nil, nil)
	require.NoError(t, enc.AddActor(mustAgent(t, "Aldric", 100), pos(0, 0), clock.Zero()))
	require.NoError(t, enc.AddActor(target, pos(5, 5), clock.NewUnchecked(5000)))

	require.True(t, enc.Step())
	events := enc.Events()
	require.Len(t, events, 1)
	assert.Equal(t, encounter.EventWait, events[0].Kind)

	got, _ := enc.ActorByID(target.ID())
	assert.Equal(t, 80, got.Health().Current(), "no damage out of reach")
}

func TestStep_LethalStrikeEmitsDeathAndFreesTile(t *testing.T) {
	dummy, err := actor.NewStatic("Dummy", 10)
	require.NoError(t, err)
	advisor := func(state encounter.TurnState) encounter.Intent {
		return encounter.Intent{Kind: encounter.IntentStrike, Target: dummy.ID()}
	}
	enc := encounter.New(simCfg(), advisor, nil, nil)
	require.NoError(t, enc.AddActor(mustAgent(t, "Aldric", 100), pos(0, 0), clock.Zero()))
	require.NoError(t, enc.AddActor(dummy, pos(1, 0), clock.Zero()))

	require.True(t, enc.Step())

	events := enc.Events()
	require.Len(t, events, 2)
	assert.Equal(t, encounter.EventStrike, events[0].Kind)
	assert.Equal(t, encounter.EventDeath, events[1].Kind)
	assert.Equal(t, dummy.ID(), events[1].ActorID)

	got, ok := enc.ActorByID(dummy.ID())
	require.True(t, ok, "dead actors stay on the roster")
	assert.True(t, got.IsDead())

	_, occupied := enc.PositionOf(dummy.ID())
	assert.False(t, occupied, "corpse must free its tile")
}

func TestStep_JitterDrawsFromStream(t *testing.T) {
	cfg := simCfg()
	cfg.DamageJitter = 6
	target := mustAgent(t, "Gorn", 80)
	advisor := func(state encounter.TurnState) encounter.Intent {
		return encounter.Intent{Kind: encounter.IntentStrike, Target: target.ID()}
	}
	src := rng.NewDeterministic(7).Stream("test")
	wantJitter := rng.NewDeterministic(7).Stream("test").Intn(cfg.DamageJitter + 1)

	enc := encounter.New(cfg, advisor, src, nil)
	require.NoError(t, enc.AddActor(mustAgent(t, "Aldric", 100), pos(0, 0), clock.Zero()))
	require.NoError(t, enc.AddActor(target, pos(1, 0), clock.NewUnchecked(5000)))

	require.True(t, enc.Step())
	events := enc.Events()
	require.Len(t, events, 1)
	assert.Equal(t, cfg.StrikeDamage+wantJitter, events[0].Damage)
}

func TestRun_SeekAndStrike_FightsToTheDeath(t *testing.T) {
	enc := encounter.New(simCfg(), encounter.SeekAndStrike, nil, nil)
	a := mustAgent(t, "Aldric", 100)
	b := mustAgent(t, "Gorn", 48)
	require.NoError(t, enc.AddActor(a, pos(0, 0), clock.Zero()))
	require.NoError(t, enc.AddActor(b, pos(5, 0), clock.NewUnchecked(50)))

	events := enc.Run(simCfg().MaxSteps)
	require.NotEmpty(t, events)

	deaths := 0
	for _, ev := range events {
		if ev.Kind == encounter.EventDeath {
			deaths++
		}
	}
	assert.Equal(t, 1, deaths)

	gotA, _ := enc.ActorByID(a.ID())
	gotB, _ := enc.ActorByID(b.ID())
	assert.NotEqual(t, gotA.IsDead(), gotB.IsDead(), "exactly one combatant should fall")
}

func TestRun_StepBudgetBounds(t *testing.T) {
	enc := encounter.New(simCfg(), nil, nil, nil)
	require.NoError(t, enc.AddActor(mustAgent(t, "Aldric", 100), pos(0, 0), clock.Zero()))

	events := enc.Run(10)
	assert.Len(t, events, 10, "wait-only encounter must stop at the step budget")
}
