package actor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Identity validation errors.
var (
	// ErrEmptyID is returned when an Actor is constructed with a zero ID.
	ErrEmptyID = errors.New("actor: id must not be empty")
	// ErrEmptyName is returned when an Actor name is empty after trimming.
	ErrEmptyName = errors.New("actor: name must not be empty")
)

// ID is a stable unique actor identifier. Its canonical string form is the
// lowercase UUID rendering, which gives the scheduler a total lexicographic
// tie-break order.
type ID struct {
	value uuid.UUID
}

// idNamespace scopes DeriveID hashes to this game's actor identifiers.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("darklands.actor"))

// NewID generates a fresh random ID.
func NewID() ID {
	return ID{value: uuid.New()}
}

// DeriveID produces the same ID for the same parts on every run. Scenario
// builds use it so that replays of one scenario agree on every tie-break
// that involves actor identity.
func DeriveID(parts ...string) ID {
	name := strings.Join(parts, "/")
	return ID{value: uuid.NewSHA1(idNamespace, []byte(name))}
}

// ParseID reconstructs an ID from its canonical string form. Used by replay
// and save/load paths that persist ids as strings.
//
// Postcondition: error is non-nil iff s is not a valid UUID string.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("actor.ParseID: %q: %w", s, err)
	}
	return ID{value: u}, nil
}

// IsZero reports whether the ID is the zero value (no identity assigned).
func (id ID) IsZero() bool { return id.value == uuid.Nil }

// String returns the canonical lowercase UUID form.
func (id ID) String() string { return id.value.String() }

// Less reports whether id sorts before o under the canonical lexicographic
// order. The comparison is on the raw bytes, which matches the lexicographic
// order of the canonical string form.
func (id ID) Less(o ID) bool {
	for i := range id.value {
		if id.value[i] != o.value[i] {
			return id.value[i] < o.value[i]
		}
	}
	return false
}

// Actor is an immutable combatant aggregate: identity, display name, health,
// and a capability flag distinguishing agents (schedulable, can act) from
// statics (passive targets). Position is deliberately not an attribute; the
// encounter's spatial index owns it.
//
// Every mutation returns a new Actor; there are no setters.
type Actor struct {
	id     ID
	name   string
	health Health
	static bool
}

// New constructs an Actor with an explicit Health.
//
// Precondition: id non-zero; name non-empty after trimming.
func New(id ID, name string, health Health, static bool) (Actor, error) {
	if id.IsZero() {
		return Actor{}, fmt.Errorf("actor.New: %w", ErrEmptyID)
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Actor{}, fmt.Errorf("actor.New: %w", ErrEmptyName)
	}
	return Actor{id: id, name: trimmed, health: health, static: static}, nil
}

// NewAgent constructs a schedulable actor at full health.
func NewAgent(name string, maxHealth int) (Actor, error) {
	h, err := FullHealth(maxHealth)
	if err != nil {
		return Actor{}, fmt.Errorf("actor.NewAgent: %w", err)
	}
	return New(NewID(), name, h, false)
}

// NewStatic constructs a passive target at full health.
func NewStatic(name string, maxHealth int) (Actor, error) {
	h, err := FullHealth(maxHealth)
	if err != nil {
		return Actor{}, fmt.Errorf("actor.NewStatic: %w", err)
	}
	return New(NewID(), name, h, true)
}

// NewDead constructs an agent already at zero health. Used by tests and by
// restores of encounters where a combatant died before the snapshot.
func NewDead(name string, maxHealth int) (Actor, error) {
	h, err := FullHealth(maxHealth)
	if err != nil {
		return Actor{}, fmt.Errorf("actor.NewDead: %w", err)
	}
	return New(NewID(), name, h.SetToDead(), false)
}

// ID returns the actor's stable identifier.
func (a Actor) ID() ID { return a.id }

// Name returns the trimmed display name.
func (a Actor) Name() string { return a.name }

// Health returns the actor's vitality state.
func (a Actor) Health() Health { return a.health }

// IsStatic reports whether the actor is a passive target.
func (a Actor) IsStatic() bool { return a.static }

// IsAgent reports whether the actor is schedulable.
func (a Actor) IsAgent() bool { return !a.static }

// IsDead reports whether the actor's health is exhausted.
func (a Actor) IsDead() bool { return a.health.IsDead() }

// TakeDamage returns a new Actor with damage applied; id, name, and the
// capability flag are copied unchanged.
//
// Precondition: amount >= 0.
func (a Actor) TakeDamage(amount int) (Actor, error) {
	h, err := a.health.TakeDamage(amount)
	if err != nil {
		return Actor{}, fmt.Errorf("actor.Actor.TakeDamage: %w", err)
	}
	return Actor{id: a.id, name: a.name, health: h, static: a.static}, nil
}

// Heal returns a new Actor with healing applied; id, name, and the capability
// flag are copied unchanged.
//
// Precondition: amount >= 0.
func (a Actor) Heal(amount int) (Actor, error) {
	h, err := a.health.Heal(amount)
	if err != nil {
		return Actor{}, fmt.Errorf("actor.Actor.Heal: %w", err)
	}
	return Actor{id: a.id, name: a.name, health: h, static: a.static}, nil
}

// RestoreToFull returns a new Actor at maximum health. Unconditional.
func (a Actor) RestoreToFull() Actor {
	return Actor{id: a.id, name: a.name, health: a.health.RestoreToFull(), static: a.static}
}

// SetToDead returns a new Actor at zero health. Unconditional.
func (a Actor) SetToDead() Actor {
	return Actor{id: a.id, name: a.name, health: a.health.SetToDead(), static: a.static}
}

// WithHealth returns a new Actor carrying the given Health. Used by restore
// paths that rebuild actors from persisted fields.
func (a Actor) WithHealth(h Health) Actor {
	return Actor{id: a.id, name: a.name, health: h, static: a.static}
}

// String renders as "name (id-prefix) current/max".
func (a Actor) String() string {
	return fmt.Sprintf("%s (%s) %s", a.name, a.id.String()[:8], a.health)
}
