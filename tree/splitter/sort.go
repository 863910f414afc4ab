package splitter

import "sort"

// SortIndicesByFeature returns a permutation of sample indices such that
// the column is non-decreasing when read through it. The sort is stable,
// so samples sharing a feature value keep their index order and repeated
// calls produce identical permutations.
//
// Producing order arrays is the growth engine's responsibility; it may
// cache and reuse them across nodes. The FindSplit functions only consume
// them.
func SortIndicesByFeature[T Float](column []T) []int {
	order := make([]int, len(column))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return column[order[a]] < column[order[b]]
	})
	return order
}
