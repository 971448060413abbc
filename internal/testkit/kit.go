package testkit

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"poolscreen/adapters/rng"
	"poolscreen/domain/pooling"
	"poolscreen/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct{}

// NewTestKit creates a new test kit instance
func NewTestKit() *TestKit {
	return &TestKit{}
}

// RNGAdapter returns the deterministic RNG adapter used across tests
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return rng.New()
}

// CohortSpec configures synthetic cohort generation.
type CohortSpec struct {
	Size       int
	Prevalence float64 // fraction of subjects at or above the threshold
	Threshold  float64
	ScoreNoise float64 // standard deviation of noise added to scores
}

// GenerateCohort draws a synthetic cohort of measurement values and
// correlated risk scores. Negative subjects draw from a log-normal
// bounded below the threshold, positive subjects from one shifted above
// it; the score is the log-value perturbed by Gaussian noise, so higher
// scores track higher values without determining them. Draws go through
// quantile transforms of the provided rand.Rand, keeping generation
// reproducible for a fixed seed.
func GenerateCohort(rnd *rand.Rand, spec CohortSpec) pooling.Cohort {
	threshold := spec.Threshold
	if threshold <= 0 {
		threshold = pooling.DefaultThreshold
	}

	// Log-normal shapes for the two strata. Quantiles are capped away
	// from the extremes so negatives stay strictly below the threshold.
	negative := distuv.LogNormal{Mu: 3.0, Sigma: 1.2}
	positive := distuv.LogNormal{Mu: 9.5, Sigma: 1.0}

	values := make([]float64, spec.Size)
	scores := make([]float64, spec.Size)
	for i := 0; i < spec.Size; i++ {
		u := clamp(rnd.Float64(), 0.001, 0.999)
		if rnd.Float64() < spec.Prevalence {
			v := positive.Quantile(u)
			if v < threshold {
				v = threshold
			}
			values[i] = v
		} else {
			v := negative.Quantile(u)
			if v >= threshold {
				v = threshold - 1
			}
			values[i] = v
		}
		scores[i] = logScore(values[i]) + spec.ScoreNoise*rnd.NormFloat64()
	}

	cohort, _ := pooling.NewCohort(values, scores)
	return cohort
}

// AllNegativeCohort builds a cohort whose every subject, and every
// possible pool total, stays below the threshold.
func AllNegativeCohort(size int, threshold float64) pooling.Cohort {
	values := make([]float64, size)
	scores := make([]float64, size)
	for i := range values {
		values[i] = threshold / float64(2*size)
		scores[i] = float64(i)
	}
	cohort, _ := pooling.NewCohort(values, scores)
	return cohort
}

func logScore(v float64) float64 {
	return math.Log10(v + 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
