// Package actor defines the combatant domain model: an immutable Health value
// and the Actor aggregate built around it. Nothing outside this package can
// construct an inconsistent health state (negative current, current above
// maximum, non-positive maximum).
package actor

import (
	"errors"
	"fmt"
)

// Domain validation errors.
var (
	// ErrInvalidHealth is returned when constructing a Health that would
	// violate 0 <= current <= maximum with maximum > 0.
	ErrInvalidHealth = errors.New("actor: invalid health bounds")
	// ErrNegativeAmount is returned when TakeDamage or Heal receives a
	// negative amount. Negative input here is a caller bug, not a
	// representable edge case, so it is rejected rather than clamped.
	ErrNegativeAmount = errors.New("actor: amount must not be negative")
)

// Health is an immutable current/maximum resource pair.
//
// Invariant: 0 <= current <= maximum and maximum > 0 for every Health
// produced by this package.
type Health struct {
	current int
	maximum int
}

// NewHealth validates and constructs a Health.
//
// Postcondition: error wraps ErrInvalidHealth iff maximum <= 0, current < 0,
// or current > maximum.
func NewHealth(current, maximum int) (Health, error) {
	if maximum <= 0 {
		return Health{}, fmt.Errorf("actor.NewHealth: maximum %d must be positive: %w", maximum, ErrInvalidHealth)
	}
	if current < 0 || current > maximum {
		return Health{}, fmt.Errorf("actor.NewHealth: current %d not in [0, %d]: %w", current, maximum, ErrInvalidHealth)
	}
	return Health{current: current, maximum: maximum}, nil
}

// FullHealth constructs a Health at its maximum.
//
// Postcondition: error wraps ErrInvalidHealth iff maximum <= 0.
func FullHealth(maximum int) (Health, error) {
	return NewHealth(maximum, maximum)
}

// Current returns the current resource points.
func (h Health) Current() int { return h.current }

// Maximum returns the maximum resource points.
func (h Health) Maximum() int { return h.maximum }

// IsFullHealth reports current == maximum.
func (h Health) IsFullHealth() bool { return h.current == h.maximum }

// IsDead reports current == 0.
func (h Health) IsDead() bool { return h.current == 0 }

// Percent returns current/maximum as a float in [0, 1].
func (h Health) Percent() float64 {
	return float64(h.current) / float64(h.maximum)
}

// TakeDamage returns a new Health with current reduced by amount, floored
// at zero.
//
// Precondition: amount >= 0; a negative amount is a domain error.
// Postcondition: result.Current() == max(0, h.Current()-amount).
func (h Health) TakeDamage(amount int) (Health, error) {
	if amount < 0 {
		return Health{}, fmt.Errorf("actor.Health.TakeDamage: %d: %w", amount, ErrNegativeAmount)
	}
	next := h.current - amount
	if next < 0 {
		next = 0
	}
	return Health{current: next, maximum: h.maximum}, nil
}

// Heal returns a new Health with current raised by amount, capped at maximum.
//
// Precondition: amount >= 0; a negative amount is a domain error.
// Postcondition: result.Current() == min(h.Maximum(), h.Current()+amount).
func (h Health) Heal(amount int) (Health, error) {
	if amount < 0 {
		return Health{}, fmt.Errorf("actor.Health.Heal: %d: %w", amount, ErrNegativeAmount)
	}
	next := h.current + amount
	if next > h.maximum {
		next = h.maximum
	}
	return Health{current: next, maximum: h.maximum}, nil
}

// RestoreToFull returns a new Health at maximum. Unconditional.
func (h Health) RestoreToFull() Health {
	return Health{current: h.maximum, maximum: h.maximum}
}

// SetToDead returns a new Health at zero current. Unconditional.
func (h Health) SetToDead() Health {
	return Health{current: 0, maximum: h.maximum}
}

// String renders as "current/maximum".
func (h Health) String() string {
	return fmt.Sprintf("%d/%d", h.current, h.maximum)
}
