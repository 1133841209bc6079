package sphorb

import (
	"math"
	"sort"
)

// perLevelBudget computes the per-level keypoint target N[l], per
// spec.md §4.5: a geometric schedule with factor = 1/2^(1/3), level 0
// getting the largest share and the last level absorbing the remainder
// so the total is exact.
func perLevelBudget(nTotal, nLevels int) []int {
	budget := make([]int, nLevels)
	factor := 1.0 / math.Pow(2.0, 1.0/3.0)
	desired := float64(nTotal) * (1 - factor) / (1 - math.Pow(factor, float64(nLevels)))

	sum := 0
	for l := 0; l < nLevels-1; l++ {
		n := int(math.Round(desired))
		budget[l] = n
		sum += n
		desired *= factor
	}
	remainder := nTotal - sum
	if remainder < 0 {
		remainder = 0
	}
	budget[nLevels-1] = remainder
	return budget
}

// retainBest keeps the target highest-scoring keypoints of kps, per
// spec.md §4.5. If len(kps) <= target, kps is returned unchanged.
func retainBest(kps []KeyPoint, target int) []KeyPoint {
	if target < 0 || len(kps) <= target {
		return kps
	}
	sorted := make([]KeyPoint, len(kps))
	copy(sorted, kps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Response > sorted[j].Response
	})
	return sorted[:target]
}
