package app

import (
	"context"

	"poolscreen/adapters/rng"
	"poolscreen/domain/pooling"
)

// PoolingMC is the single-call entry point: it wires the default
// deterministic RNG adapter, runs a study, and returns the assay matrix
// (pools x permutations). The method tag is matched case-insensitively;
// a non-positive threshold selects the default cutoff.
func PoolingMC(ctx context.Context, values, scores []float64, poolSize, permNum int, method string, threshold float64, seed int64) (*pooling.AssayMatrix, error) {
	service := NewSimulationService(rng.New())
	result, err := service.Run(ctx, SimulationRequest{
		Values:    values,
		Scores:    scores,
		PoolSize:  poolSize,
		PermNum:   permNum,
		Method:    pooling.Method(method),
		Threshold: threshold,
		Seed:      seed,
	})
	if err != nil {
		return nil, err
	}
	return result.Matrix, nil
}
