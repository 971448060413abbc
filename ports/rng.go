package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a specific run/permutation.
	// Each Monte Carlo iteration draws from its own stream so the parallel and
	// sequential execution paths produce identical matrices for the same seed.
	Stream(ctx context.Context, runID string, permutation int, baseSeed int64) (*rand.Rand, error)
}
