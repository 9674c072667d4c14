// Package rng provides the seed-addressable deterministic random source the
// encounter layer consumes. The combat core's own algorithms are
// randomness-free; this package exists for encounter setup and randomized
// modifiers, and its streams are bit-stable across platforms and Go releases.
package rng

// Source is the randomness provider consumed by the encounter layer.
//
// Implementations used inside a simulation must be deterministic: the same
// construction parameters must yield the same value sequence on every host.
type Source interface {
	// Intn returns a non-negative value in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Deterministic is a seed-keyed factory of independent labeled streams.
// Streams with the same (seed, label) always produce the same sequence;
// drawing from one stream never perturbs another.
type Deterministic struct {
	seed uint64
}

// NewDeterministic returns a factory keyed by seed.
func NewDeterministic(seed uint64) *Deterministic {
	return &Deterministic{seed: seed}
}

// Stream returns the Source for a context label. The label is folded into
// the seed with FNV-1a so distinct labels get decorrelated streams.
func (d *Deterministic) Stream(label string) *Stream {
	return &Stream{state: d.seed ^ fnv1a(label)}
}

// ResumeStream reconstructs a Stream from a previously captured State. Used
// by save/load so a restored encounter continues the exact value sequence.
func ResumeStream(state uint64) *Stream {
	return &Stream{state: state}
}

// Stream is a splitmix64 generator. The algorithm is implemented here rather
// than taken from math/rand because the stdlib does not promise a stable
// sequence across Go versions, and replay compatibility requires one.
type Stream struct {
	state uint64
}

// State returns the current generator state for persistence.
func (s *Stream) State() uint64 { return s.state }

// Intn returns a value in [0, n) using rejection sampling to avoid modulo
// bias.
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" otherwise;
// a non-positive bound is a programmer contract violation, not game state.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	bound := uint64(n)
	limit := (^uint64(0) / bound) * bound
	for {
		v := s.next()
		if v < limit {
			return int(v % bound)
		}
	}
}

// next advances the splitmix64 state and returns the next raw value.
func (s *Stream) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// fnv1a hashes a label with 64-bit FNV-1a.
func fnv1a(s string) uint64 {
	const (
		offset = 0xcbf29ce484222325
		prime  = 0x100000001b3
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}
