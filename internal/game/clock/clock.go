// Package clock provides the bounded, saturating time quantity used for turn
// costs and scheduling deadlines in the combat core.
//
// TimeUnits is a value type: all arithmetic returns new values and saturates
// at the representable bounds instead of failing. Turn costs flow through the
// resolution pipeline continuously, so a duration pinned at the maximum is a
// legitimate game state, not a fault.
package clock

import (
	"errors"
	"fmt"
	"math"
)

// Bounds for any publicly constructed TimeUnits value.
const (
	MinUnits = 0
	MaxUnits = 10000
)

// unitsPerSecond is the fixed-point scale used by String.
const unitsPerSecond = 1000

// ErrOutOfRange is returned by New for values outside [MinUnits, MaxUnits].
var ErrOutOfRange = errors.New("clock: time units out of range")

// TimeUnits is an immutable duration in abstract time units.
//
// Invariant: MinUnits <= value <= MaxUnits for any instance produced by New,
// Zero, Min, Max, or the arithmetic methods.
type TimeUnits struct {
	value int
}

// New validates v and returns a TimeUnits.
//
// Postcondition: error is ErrOutOfRange (wrapped) iff v < MinUnits or v > MaxUnits.
func New(v int) (TimeUnits, error) {
	if v < MinUnits || v > MaxUnits {
		return TimeUnits{}, fmt.Errorf("clock.New: %d not in [%d, %d]: %w", v, MinUnits, MaxUnits, ErrOutOfRange)
	}
	return TimeUnits{value: v}, nil
}

// NewUnchecked skips range validation. For trusted callers only: tests and
// deserialization of values that were valid when written.
func NewUnchecked(v int) TimeUnits {
	return TimeUnits{value: v}
}

// Saturate clamps v into [MinUnits, MaxUnits] and returns the result. Used
// where a duration is computed from unbounded arithmetic (path costs) and the
// saturating policy applies.
func Saturate(v int) TimeUnits {
	if v < MinUnits {
		v = MinUnits
	}
	if v > MaxUnits {
		v = MaxUnits
	}
	return TimeUnits{value: v}
}

// Zero returns the zero duration.
func Zero() TimeUnits { return TimeUnits{value: MinUnits} }

// Min returns the minimum representable duration (same as Zero).
func Min() TimeUnits { return TimeUnits{value: MinUnits} }

// Max returns the maximum representable duration.
func Max() TimeUnits { return TimeUnits{value: MaxUnits} }

// Value returns the raw unit count.
//
// Postcondition: MinUnits <= return <= MaxUnits for publicly constructed values.
func (t TimeUnits) Value() int { return t.value }

// Add returns t + o, saturating at MaxUnits. Never fails.
func (t TimeUnits) Add(o TimeUnits) TimeUnits {
	sum := t.value + o.value
	if sum > MaxUnits {
		sum = MaxUnits
	}
	return TimeUnits{value: sum}
}

// Sub returns t - o, saturating at MinUnits. Never fails.
func (t TimeUnits) Sub(o TimeUnits) TimeUnits {
	diff := t.value - o.value
	if diff < MinUnits {
		diff = MinUnits
	}
	return TimeUnits{value: diff}
}

// Scale returns t scaled by factor, truncated toward zero, then saturated.
// A negative or NaN factor saturates to MinUnits; factors large enough to
// exceed MaxUnits saturate to MaxUnits. Never fails.
//
// Saturation happens in the float domain: converting an out-of-int-range
// float first would yield an implementation-defined value. Truncation
// (rather than rounding) keeps the result bit-stable across platforms for
// the factors the combat pipeline uses.
func (t TimeUnits) Scale(factor float64) TimeUnits {
	scaled := float64(t.value) * factor
	if math.IsNaN(scaled) || scaled < MinUnits {
		return Min()
	}
	if scaled >= MaxUnits {
		return Max()
	}
	return TimeUnits{value: int(scaled)}
}

// Less reports t < o.
func (t TimeUnits) Less(o TimeUnits) bool { return t.value < o.value }

// LessEq reports t <= o.
func (t TimeUnits) LessEq(o TimeUnits) bool { return t.value <= o.value }

// Equal reports t == o.
func (t TimeUnits) Equal(o TimeUnits) bool { return t.value == o.value }

// IsZero reports whether t is the zero duration.
func (t TimeUnits) IsZero() bool { return t.value == MinUnits }

// String renders sub-second values as raw units ("250t") and values of at
// least one second as one-decimal seconds ("1.5s").
func (t TimeUnits) String() string {
	if t.value < unitsPerSecond {
		return fmt.Sprintf("%dt", t.value)
	}
	whole := t.value / unitsPerSecond
	tenths := (t.value % unitsPerSecond) / (unitsPerSecond / 10)
	return fmt.Sprintf("%d.%ds", whole, tenths)
}
