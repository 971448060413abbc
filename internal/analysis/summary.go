package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"poolscreen/domain/pooling"
)

// Summary describes the assay cost of one simulated strategy across all
// Monte Carlo permutations.
type Summary struct {
	CohortSize   int
	Pools        int
	Permutations int

	// Per-permutation totals
	MeanTotal   float64
	MedianTotal float64
	Q25Total    float64
	Q75Total    float64
	MinTotal    float64
	MaxTotal    float64

	// ATR is the average number of assays required per 100 subjects.
	ATR float64
}

// Summarize reduces an assay matrix to per-permutation totals and ATR.
func Summarize(matrix *pooling.AssayMatrix, cohortSize int) (Summary, error) {
	if matrix == nil || matrix.Permutations() == 0 {
		return Summary{}, fmt.Errorf("cannot summarize empty matrix")
	}
	if cohortSize <= 0 {
		return Summary{}, fmt.Errorf("cohort size must be positive, got %d", cohortSize)
	}

	totals := make([]float64, matrix.Permutations())
	for j := range totals {
		totals[j] = float64(matrix.ColumnTotal(j))
	}

	mean, _ := stats.Mean(totals)
	median, _ := stats.Median(totals)
	q25, _ := stats.Percentile(totals, 25)
	q75, _ := stats.Percentile(totals, 75)
	min, _ := stats.Min(totals)
	max, _ := stats.Max(totals)

	return Summary{
		CohortSize:   cohortSize,
		Pools:        matrix.Pools(),
		Permutations: matrix.Permutations(),
		MeanTotal:    mean,
		MedianTotal:  median,
		Q25Total:     q25,
		Q75Total:     q75,
		MinTotal:     min,
		MaxTotal:     max,
		ATR:          mean / float64(cohortSize) * 100,
	}, nil
}

// String renders a one-line report for CLI output.
func (s Summary) String() string {
	return fmt.Sprintf("n=%d pools=%d perms=%d mean=%.1f median=%.1f iqr=[%.1f, %.1f] range=[%.0f, %.0f] ATR=%.1f",
		s.CohortSize, s.Pools, s.Permutations, s.MeanTotal, s.MedianTotal,
		s.Q25Total, s.Q75Total, s.MinTotal, s.MaxTotal, s.ATR)
}
