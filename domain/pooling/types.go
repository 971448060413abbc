package pooling

import (
	"strings"

	"poolscreen/domain/core"
)

// DefaultThreshold is the conventional virologic-failure cutoff applied
// when a request leaves the threshold unset.
const DefaultThreshold = 1000.0

// Method selects the pool-resolution strategy.
type Method string

const (
	// MethodMiniPool runs one pooled assay and, when flagged, retests
	// every member individually.
	MethodMiniPool Method = "minipool"

	// MethodMPA narrows a flagged pool by retesting members one at a
	// time and re-evaluating the residual pool after each subtraction.
	MethodMPA Method = "mpa"

	// MethodMMPA is MPA with members ordered by descending risk score
	// before retesting begins.
	MethodMMPA Method = "mmpa"
)

// ParseMethod resolves a strategy tag case-insensitively.
func ParseMethod(tag string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(tag))) {
	case MethodMiniPool:
		return MethodMiniPool, nil
	case MethodMPA:
		return MethodMPA, nil
	case MethodMMPA:
		return MethodMMPA, nil
	default:
		return "", core.NewMethodError(tag)
	}
}

// Subject is one specimen in the cohort. Identity is its position in the
// input arrays; subjects are immutable once the cohort is built.
type Subject struct {
	Index int
	Value float64
	Score float64
}

// Positive reports whether the subject's true measurement meets the
// diagnostic threshold. Derived on demand, never stored.
func (s Subject) Positive(threshold float64) bool {
	return s.Value >= threshold
}

// Pool is an ordered group of subjects assayed together. Order descends
// from the permutation that produced it.
type Pool []Subject

// Cohort holds the parallel value/score arrays for all subjects.
type Cohort struct {
	values []float64
	scores []float64
}

// NewCohort validates and wraps parallel value/score arrays.
func NewCohort(values, scores []float64) (Cohort, error) {
	if len(values) != len(scores) {
		return Cohort{}, core.ErrDimensionMismatch
	}
	return Cohort{values: values, scores: scores}, nil
}

// Len returns the number of subjects.
func (c Cohort) Len() int { return len(c.values) }

// Subject returns the subject at position i.
func (c Cohort) Subject(i int) Subject {
	return Subject{Index: i, Value: c.values[i], Score: c.scores[i]}
}

// Pool assembles the subjects at the given permuted indices, preserving
// their order.
func (c Cohort) Pool(indices []int) Pool {
	pool := make(Pool, len(indices))
	for i, idx := range indices {
		pool[i] = c.Subject(idx)
	}
	return pool
}

// Values returns the raw measurement array.
func (c Cohort) Values() []float64 { return c.values }

// Scores returns the raw risk-score array.
func (c Cohort) Scores() []float64 { return c.scores }
