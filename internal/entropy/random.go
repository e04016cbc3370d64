// Package entropy provides the seeded random source threaded through world
// generation and simulation. Every subsystem derives its own stream from the
// world seed so results are reproducible per seed.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	mrand "math/rand"
)

// Stream offsets, one per subsystem, added to the world seed.
const (
	OffsetElevation   int64 = 0
	OffsetTemperature int64 = 1
	OffsetHumidity    int64 = 2
	OffsetRivers      int64 = 100
	OffsetCities      int64 = 200
	OffsetNations     int64 = 300
	OffsetSimulation  int64 = 500
)

// Rand is a deterministic pseudo-random source.
type Rand struct {
	*mrand.Rand
	seed int64
}

// New creates a source from a seed.
func New(seed int64) *Rand {
	return &Rand{Rand: mrand.New(mrand.NewSource(seed)), seed: seed}
}

// Derive creates the stream for one subsystem of a world.
func Derive(seed, offset int64) *Rand {
	return New(seed + offset)
}

// Seed returns the seed this source was created from.
func (r *Rand) Seed() int64 {
	return r.seed
}

// IntBetween returns a uniform integer in [min, max], both inclusive.
func (r *Rand) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Pick returns a uniformly chosen element, or false for an empty slice.
func Pick[T any](r *Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[r.Intn(len(items))], true
}

// RandomSeed draws a fresh seed from crypto/rand for callers that ask for seed 0.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to the global source.
		slog.Debug("crypto seed failed", "error", err)
		return mrand.Int63()
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
