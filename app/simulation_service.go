package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"poolscreen/domain/core"
	"poolscreen/domain/pooling"
	"poolscreen/ports"
)

// SimulationService runs Monte Carlo pooled-testing studies. Each
// iteration draws an independent permutation of the cohort, partitions
// it into pools, and records per-pool assay counts as one matrix column.
type SimulationService struct {
	rngPort ports.RNGPort
}

// SimulationRequest defines the inputs for a deterministic study.
type SimulationRequest struct {
	Values   []float64
	Scores   []float64
	PoolSize int
	PermNum  int
	Method   pooling.Method
	// Threshold <= 0 selects pooling.DefaultThreshold.
	Threshold float64
	Seed      int64
	// Workers <= 1 runs sequentially.
	Workers int
	// RunID is optional and generated if empty.
	RunID core.RunID
}

// SimulationResult contains the complete output of a study.
type SimulationResult struct {
	RunID     core.RunID
	Method    pooling.Method
	Threshold float64
	Matrix    *pooling.AssayMatrix
	RuntimeMs int64
}

// NewSimulationService creates a simulation service
func NewSimulationService(rngPort ports.RNGPort) *SimulationService {
	return &SimulationService{rngPort: rngPort}
}

// Run executes the study. All configuration errors are reported before
// any simulation work begins; no partial matrix is ever returned.
func (s *SimulationService) Run(ctx context.Context, req SimulationRequest) (*SimulationResult, error) {
	startTime := time.Now()

	cohort, err := pooling.NewCohort(req.Values, req.Scores)
	if err != nil {
		return nil, err
	}
	n := cohort.Len()

	if req.PoolSize <= 0 {
		return nil, core.ErrInvalidPoolSize
	}
	if n == 0 {
		return nil, core.NewConfigurationError("cohort is empty")
	}
	if req.PoolSize > n {
		return nil, core.NewConfigurationError(
			fmt.Sprintf("pool size %d exceeds cohort size %d", req.PoolSize, n))
	}
	if req.PermNum <= 0 {
		return nil, core.NewConfigurationError(
			fmt.Sprintf("permutation count must be positive, got %d", req.PermNum))
	}
	method, err := pooling.ParseMethod(string(req.Method))
	if err != nil {
		return nil, err
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = pooling.DefaultThreshold
	}

	// The generated ID labels the result only. Streams derive from the
	// caller-supplied RunID (empty by default) so that the same seed and
	// inputs always reproduce the same matrix.
	runID := req.RunID
	if runID == "" {
		runID = core.RunID(core.NewID())
	}

	matrix := pooling.NewAssayMatrix(pooling.PoolCount(n, req.PoolSize), req.PermNum)

	if req.Workers > 1 {
		err = s.runParallel(ctx, cohort, req, method, threshold, matrix)
	} else {
		err = s.runSequential(ctx, cohort, req, method, threshold, matrix)
	}
	if err != nil {
		return nil, err
	}

	return &SimulationResult{
		RunID:     runID,
		Method:    method,
		Threshold: threshold,
		Matrix:    matrix,
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}

func (s *SimulationService) runSequential(ctx context.Context, cohort pooling.Cohort, req SimulationRequest, method pooling.Method, threshold float64, matrix *pooling.AssayMatrix) error {
	for j := 0; j < req.PermNum; j++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.runPermutation(ctx, cohort, req, method, threshold, j, matrix); err != nil {
			return err
		}
	}
	return nil
}

// runParallel fans iterations out across workers. Every permutation owns
// an independently derived RNG stream and a disjoint matrix column, so
// the result is identical to the sequential path for the same seed.
func (s *SimulationService) runParallel(ctx context.Context, cohort pooling.Cohort, req SimulationRequest, method pooling.Method, threshold float64, matrix *pooling.AssayMatrix) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Workers)

	for j := 0; j < req.PermNum; j++ {
		j := j
		g.Go(func() error {
			return s.runPermutation(gctx, cohort, req, method, threshold, j, matrix)
		})
	}
	return g.Wait()
}

// runPermutation executes one Monte Carlo iteration: draw a permutation,
// partition it, resolve every pool, and fill the iteration's column.
func (s *SimulationService) runPermutation(ctx context.Context, cohort pooling.Cohort, req SimulationRequest, method pooling.Method, threshold float64, j int, matrix *pooling.AssayMatrix) error {
	stream, err := s.rngPort.Stream(ctx, req.RunID.String(), j, req.Seed)
	if err != nil {
		return fmt.Errorf("deriving rng stream for permutation %d: %w", j, err)
	}

	perm := stream.Perm(cohort.Len())
	pools, err := pooling.Partition(perm, req.PoolSize)
	if err != nil {
		return err
	}

	column := matrix.Column(j)
	for i, indices := range pools {
		count, err := pooling.Resolve(cohort.Pool(indices), method, threshold)
		if err != nil {
			// Partition never yields an empty pool; reaching this is a
			// driver bug, not a user error.
			return fmt.Errorf("resolving pool %d of permutation %d: %w", i, j, err)
		}
		column[i] = count
	}
	return nil
}
