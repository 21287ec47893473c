// Package rng implements the shared-seed RNG derivation used by Match to
// keep per-game RNG registers synchronized between the two peers (and the
// shadow emulator) without transmitting the registers themselves.
//
// The stepping function and the "derive N steps from the shared seed" rule
// are taken bit-for-bit from the original source's hooks/bn6.rs, since
// protocol correctness depends on both peers computing the exact same
// sequence.
package rng

import "math/rand"

// Shared wraps a seeded, reproducible source both peers agree on during
// the handshake. It is only ever touched during start_round and the
// round-init traps (spec.md §5).
type Shared struct {
	r *rand.Rand
}

// NewShared derives a Shared generator from a 64-bit handshake seed.
func NewShared(seed int64) *Shared {
	return &Shared{r: rand.New(rand.NewSource(seed))}
}

// StepN draws the same "how many times do we step" value both peers will
// draw, given they are at the same point in the shared stream.
func (s *Shared) StepN(maxInclusive int) int {
	return s.r.Intn(maxInclusive + 1)
}

// StepRNG is the per-game linear-recurrence generator used to evolve
// rng1/rng2/rng3 register state. Ported verbatim from bn6.rs's step_rng:
//
//	seed = ((seed*2) - (seed>>31) + 1) ^ 0x873ca9e5
//
// All arithmetic is performed mod 2^32, matching Rust's Wrapping<u32>.
func StepRNG(seed uint32) uint32 {
	return (((seed * 2) - (seed >> 31) + 1) ^ 0x873ca9e5)
}

// GenerateRNG1State derives a candidate rng1 register value by stepping
// StepRNG a random number of times (0..=0xff) drawn from the shared
// stream. rng1 is never transmitted on the wire — both peers derive both
// the offerer's and the answerer's candidate and each installs the one
// matching its own role, which is what makes the opponent's rng1
// reproducible on the shadow.
func GenerateRNG1State(shared *Shared) uint32 {
	var state uint32

	n := shared.StepN(0xff)
	for i := 0; i < n; i++ {
		state = StepRNG(state)
	}

	return state
}

// GenerateRNG2State derives the shared rng2 register value the same way,
// starting from the fixed seed 0xa338244f. Both peers install this value
// identically.
func GenerateRNG2State(shared *Shared) uint32 {
	state := uint32(0xa338244f)

	n := shared.StepN(0xff)
	for i := 0; i < n; i++ {
		state = StepRNG(state)
	}

	return state
}
