package rng

import (
	"context"
	"fmt"
	"math/rand"
)

// Adapter implements the RNGPort interface with deterministic stream
// derivation: a stream's seed is the base seed offset by a hash of its
// identifying strings, so the same run and permutation always replay
// the same draws.
type Adapter struct{}

// New creates a deterministic RNG adapter.
func New() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if name != "" {
		seed += int64(hashString(name))
	}
	return rand.New(rand.NewSource(seed)), nil
}

// Stream creates a deterministic RNG stream for a specific run/permutation
func (a *Adapter) Stream(ctx context.Context, runID string, permutation int, baseSeed int64) (*rand.Rand, error) {
	seed := baseSeed
	if runID != "" {
		seed += int64(hashString(runID))
	}
	seed += int64(hashString(fmt.Sprintf("perm-%d", permutation)))
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
