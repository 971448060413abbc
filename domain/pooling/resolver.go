package pooling

import (
	"sort"

	"poolscreen/domain/core"
)

// resolverFunc counts the assays a strategy consumes on one pool.
type resolverFunc func(pool Pool, threshold float64) int

// Closed dispatch table; unknown tags are rejected at the boundary.
var resolvers = map[Method]resolverFunc{
	MethodMiniPool: resolveMiniPool,
	MethodMPA:      resolveMPA,
	MethodMMPA:     resolveMMPA,
}

// Resolve returns the number of assays consumed to classify every member
// of the pool against the threshold. Pure function of its inputs; the
// count is always in [1, len(pool)+1].
func Resolve(pool Pool, method Method, threshold float64) (int, error) {
	if len(pool) == 0 {
		return 0, core.ErrEmptyPool
	}
	resolve, ok := resolvers[method]
	if !ok {
		return 0, core.NewMethodError(string(method))
	}
	return resolve(pool, threshold), nil
}

// flagged reports whether the pooled assay trips the dilution-adjusted
// cutoff: the assay measures the mean of the members' values, and the
// pool is flagged when mean >= threshold/K, i.e. when the summed values
// reach the threshold. Any single member at or above the threshold is
// therefore guaranteed to flag its pool.
func flagged(pool Pool, threshold float64) bool {
	return poolTotal(pool) >= threshold
}

func poolTotal(pool Pool) float64 {
	total := 0.0
	for _, s := range pool {
		total += s.Value
	}
	return total
}

// resolveMiniPool clears an unflagged pool with the single pooled assay,
// and otherwise retests every member individually.
func resolveMiniPool(pool Pool, threshold float64) int {
	if !flagged(pool, threshold) {
		return 1
	}
	return 1 + len(pool)
}

// resolveMPA narrows a flagged pool in its given order.
func resolveMPA(pool Pool, threshold float64) int {
	return resolveSequential(pool, threshold)
}

// resolveMMPA reorders the pool by descending risk score before
// narrowing. The sort is stable, so equal scores keep the pool's
// permuted order and the procedure degenerates to plain MPA. Scores
// never affect a subject's classification, only the retesting order.
func resolveMMPA(pool Pool, threshold float64) int {
	ordered := make(Pool, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	return resolveSequential(ordered, threshold)
}

// resolveSequential applies the head|tail split sequence: retest the
// first remaining member individually, subtract its measured value from
// the pooled total, and re-evaluate the residual tail. A tail whose
// residual falls below the threshold cannot contain a positive and is
// cleared with no further assays, since the quantitative pooled
// measurement already implies its result by subtraction.
func resolveSequential(pool Pool, threshold float64) int {
	residual := poolTotal(pool)
	if residual < threshold {
		return 1
	}
	assays := 1
	for _, s := range pool {
		if residual < threshold {
			break
		}
		assays++
		residual -= s.Value
	}
	return assays
}
