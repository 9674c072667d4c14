package actor

// Baseline health pools for the named presets.
const (
	soldierHealth = 100
	brigandHealth = 80
	dummyHealth   = 50
	wallHealth    = 999
)

// NewSoldier returns a standard line soldier: an agent with 100 health.
func NewSoldier(name string) (Actor, error) {
	return NewAgent(name, soldierHealth)
}

// NewBrigand returns a lighter hostile agent with 80 health.
func NewBrigand(name string) (Actor, error) {
	return NewAgent(name, brigandHealth)
}

// NewTrainingDummy returns a static 50-health target used by drills and tests.
func NewTrainingDummy(name string) (Actor, error) {
	return NewStatic(name, dummyHealth)
}

// NewBarricade returns a static obstacle-like target with a deep health pool.
// It occupies a tile and soaks damage but never acts.
func NewBarricade(name string) (Actor, error) {
	return NewStatic(name, wallHealth)
}
