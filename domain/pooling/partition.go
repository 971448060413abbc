package pooling

import "poolscreen/domain/core"

// Partition splits a permuted index sequence into consecutive pools of
// size k; the final pool holds the remainder (size 1..k). Pools are
// sub-slices of perm and preserve its order. The pool count is always
// ceil(len(perm)/k), independent of which permutation was drawn.
func Partition(perm []int, k int) ([][]int, error) {
	if k <= 0 {
		return nil, core.ErrInvalidPoolSize
	}
	pools := make([][]int, 0, (len(perm)+k-1)/k)
	for start := 0; start < len(perm); start += k {
		end := start + k
		if end > len(perm) {
			end = len(perm)
		}
		pools = append(pools, perm[start:end])
	}
	return pools, nil
}

// PoolCount returns the number of pools a cohort of n subjects yields
// under pool size k.
func PoolCount(n, k int) int {
	return (n + k - 1) / k
}
