package fixmath

import "math/rand/v2"

// RNG is a seeded pseudo-random generator with a platform-stable sequence.
// It wraps the PCG generator from math/rand/v2, whose output for a given
// seed is specified and identical on every architecture.
//
// Each generation stage creates its own RNG from StageSeed so that stage
// ordering, thread scheduling, and call-site timing never perturb another
// stage's output.
type RNG struct {
	src  *rand.Rand
	seed uint64
}

// NewRNG creates a generator for the given seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		src:  rand.New(rand.NewPCG(seed, mix64(seed))),
		seed: seed,
	}
}

// Seed returns the seed this generator was created with.
func (r *RNG) Seed() uint64 { return r.seed }

// NextUint32 returns the next value in the sequence.
func (r *RNG) NextUint32() uint32 { return r.src.Uint32() }

// NextUint64 returns the next 64-bit value.
func (r *RNG) NextUint64() uint64 { return r.src.Uint64() }

// NextFloat32 returns a value in [0, 1).
func (r *RNG) NextFloat32() float32 { return r.src.Float32() }

// NextFloat64 returns a value in [0, 1).
func (r *RNG) NextFloat64() float64 { return r.src.Float64() }

// Range returns an integer in [lo, hi). Degenerate ranges return lo.
func (r *RNG) Range(lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + r.src.IntN(hi-lo)
}

// RangeFloat returns a float64 in [lo, hi).
func (r *RNG) RangeFloat(lo, hi float64) float64 {
	if lo >= hi {
		return lo
	}
	return lo + r.src.Float64()*(hi-lo)
}

// RangeFixed returns a Fixed in [lo, hi).
func (r *RNG) RangeFixed(lo, hi Fixed) Fixed {
	if lo >= hi {
		return lo
	}
	span := int64(hi) - int64(lo)
	return saturate(int64(lo) + r.src.Int64N(span))
}

// NextBool returns true with probability p.
func (r *RNG) NextBool(p float32) bool {
	return r.src.Float32() < p
}

// Shuffle permutes n elements using the swap function.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.src.Shuffle(n, swap)
}

// Stage salts for sub-seed derivation. New stages append; renumbering an
// existing salt changes every world generated from that stage onward.
const (
	SaltContinents uint64 = 0x01
	SaltElevation  uint64 = 0x02
	SaltClimate    uint64 = 0x03
	SaltErosion    uint64 = 0x04
	SaltRivers     uint64 = 0x05
	SaltMinerals   uint64 = 0x06
)

// StageSeed derives a stage sub-seed from the world seed and a stage salt.
// The mix avalanches every input bit so nearby world seeds do not produce
// correlated stage sequences.
func StageSeed(worldSeed uint32, salt uint64) uint64 {
	return mix64(uint64(worldSeed)<<32 | salt)
}

// mix64 is the splitmix64 finalizer. Stable by construction; do not change
// the constants.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
