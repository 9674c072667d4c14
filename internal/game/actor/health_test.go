package actor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Coelancanth/Darklands-sub008/internal/game/actor"
)

func TestNewHealth(t *testing.T) {
	tests := []struct {
		name             string
		current, maximum int
		wantErr          bool
	}{
		{"full", 10, 10, false},
		{"partial", 3, 10, false},
		{"zero current", 0, 10, false},
		{"zero maximum", 0, 0, true},
		{"negative maximum", 5, -1, true},
		{"negative current", -1, 10, true},
		{"current above maximum", 11, 10, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := actor.NewHealth(tc.current, tc.maximum)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, actor.ErrInvalidHealth))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.current, h.Current())
			assert.Equal(t, tc.maximum, h.Maximum())
		})
	}
}

func TestHealth_DerivedPredicates(t *testing.T) {
	full, err := actor.FullHealth(20)
	require.NoError(t, err)
	assert.True(t, full.IsFullHealth())
	assert.False(t, full.IsDead())
	assert.InDelta(t, 1.0, full.Percent(), 1e-9)

	hurt, err := actor.NewHealth(5, 20)
	require.NoError(t, err)
	assert.False(t, hurt.IsFullHealth())
	assert.False(t, hurt.IsDead())
	assert.InDelta(t, 0.25, hurt.Percent(), 1e-9)

	dead := hurt.SetToDead()
	assert.True(t, dead.IsDead())
	assert.InDelta(t, 0.0, dead.Percent(), 1e-9)
}

func TestHealth_TakeDamage(t *testing.T) {
	h, err := actor.FullHealth(20)
	require.NoError(t, err)

	hurt, err := h.TakeDamage(5)
	require.NoError(t, err)
	assert.Equal(t, 15, hurt.Current())
	// Original is unchanged.
	assert.Equal(t, 20, h.Current())

	floored, err := hurt.TakeDamage(100)
	require.NoError(t, err)
	assert.Equal(t, 0, floored.Current())
	assert.True(t, floored.IsDead())
}

func TestHealth_TakeDamage_NegativeRejected(t *testing.T) {
	h, err := actor.FullHealth(20)
	require.NoError(t, err)
	_, err = h.TakeDamage(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, actor.ErrNegativeAmount))
}

func TestHealth_Heal(t *testing.T) {
	h, err := actor.NewHealth(5, 20)
	require.NoError(t, err)

	healed, err := h.Heal(10)
	require.NoError(t, err)
	assert.Equal(t, 15, healed.Current())

	capped, err := healed.Heal(100)
	require.NoError(t, err)
	assert.Equal(t, 20, capped.Current())
	assert.True(t, capped.IsFullHealth())
}

func TestHealth_Heal_NegativeRejected(t *testing.T) {
	h, err := actor.FullHealth(20)
	require.NoError(t, err)
	_, err = h.Heal(-3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, actor.ErrNegativeAmount))
}

func TestHealth_RestoreToFull(t *testing.T) {
	h, err := actor.NewHealth(1, 20)
	require.NoError(t, err)
	assert.True(t, h.RestoreToFull().IsFullHealth())
}

func TestHealth_Property_InvariantHoldsAfterEveryOperation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maximum := rapid.IntRange(1, 500).Draw(rt, "maximum")
		current := rapid.IntRange(0, maximum).Draw(rt, "current")
		h, err := actor.NewHealth(current, maximum)
		require.NoError(rt, err)

		ops := rapid.IntRange(1, 20).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				h, err = h.TakeDamage(rapid.IntRange(0, 2*maximum).Draw(rt, "dmg"))
				require.NoError(rt, err)
			case 1:
				h, err = h.Heal(rapid.IntRange(0, 2*maximum).Draw(rt, "heal"))
				require.NoError(rt, err)
			case 2:
				h = h.RestoreToFull()
			case 3:
				h = h.SetToDead()
			}
			assert.GreaterOrEqual(rt, h.Current(), 0)
			assert.LessOrEqual(rt, h.Current(), h.Maximum())
			assert.Equal(rt, maximum, h.Maximum())
		}
	})
}

func TestHealth_String(t *testing.T) {
	h, err := actor.NewHealth(7, 20)
	require.NoError(t, err)
	assert.Equal(t, "7/20", h.String())
}
