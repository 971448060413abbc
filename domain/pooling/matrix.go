package pooling

// AssayMatrix records assays consumed per pool per permutation.
// Cell (i, j) is the count for pool i under permutation j. Storage is
// column-major so each permutation owns a contiguous, disjoint block,
// which keeps concurrent column writes safe without locking.
type AssayMatrix struct {
	pools int
	perms int
	cells []int
}

// NewAssayMatrix allocates a pools x perms matrix.
func NewAssayMatrix(pools, perms int) *AssayMatrix {
	return &AssayMatrix{
		pools: pools,
		perms: perms,
		cells: make([]int, pools*perms),
	}
}

// Pools returns the row count (pools per permutation).
func (m *AssayMatrix) Pools() int { return m.pools }

// Permutations returns the column count.
func (m *AssayMatrix) Permutations() int { return m.perms }

// At returns the assay count for pool i under permutation j.
func (m *AssayMatrix) At(i, j int) int {
	return m.cells[j*m.pools+i]
}

// Column returns the writable slice backing permutation j. Callers fill
// it with per-pool counts; columns of distinct permutations never alias.
func (m *AssayMatrix) Column(j int) []int {
	return m.cells[j*m.pools : (j+1)*m.pools]
}

// ColumnTotal returns the assays consumed across all pools of
// permutation j.
func (m *AssayMatrix) ColumnTotal(j int) int {
	total := 0
	for _, c := range m.Column(j) {
		total += c
	}
	return total
}

// Totals returns per-permutation assay totals.
func (m *AssayMatrix) Totals() []int {
	totals := make([]int, m.perms)
	for j := 0; j < m.perms; j++ {
		totals[j] = m.ColumnTotal(j)
	}
	return totals
}

// Equal reports cell-for-cell equality, used by determinism checks.
func (m *AssayMatrix) Equal(other *AssayMatrix) bool {
	if other == nil || m.pools != other.pools || m.perms != other.perms {
		return false
	}
	for i, c := range m.cells {
		if c != other.cells[i] {
			return false
		}
	}
	return true
}
