package sphorb

import "testing"

func TestPerLevelBudgetSumsExactly(t *testing.T) {
	for _, total := range []int{500, 1000, 7, 1} {
		budget := perLevelBudget(total, MaxLevels)
		sum := 0
		for _, n := range budget {
			if n < 0 {
				t.Fatalf("perLevelBudget(%d, %d) produced a negative entry: %v", total, MaxLevels, budget)
			}
			sum += n
		}
		if sum != total {
			t.Errorf("perLevelBudget(%d, %d) sums to %d, want %d (budget=%v)", total, MaxLevels, sum, total, budget)
		}
	}
}

func TestPerLevelBudgetIsDecreasing(t *testing.T) {
	budget := perLevelBudget(500, MaxLevels)
	for l := 1; l < MaxLevels-1; l++ {
		if budget[l] > budget[l-1] {
			t.Errorf("budget[%d]=%d > budget[%d]=%d, expected a decreasing geometric schedule", l, budget[l], l-1, budget[l-1])
		}
	}
}

func TestRetainBestTruncatesByResponse(t *testing.T) {
	kps := []KeyPoint{
		{Response: 3},
		{Response: 9},
		{Response: 1},
		{Response: 5},
	}
	got := retainBest(kps, 2)
	if len(got) != 2 {
		t.Fatalf("retainBest(_, 2) returned %d keypoints, want 2", len(got))
	}
	if got[0].Response != 9 || got[1].Response != 5 {
		t.Errorf("retainBest(_, 2) = %v, want responses [9, 5]", got)
	}
}

func TestRetainBestNoOpWhenUnderTarget(t *testing.T) {
	kps := []KeyPoint{{Response: 1}, {Response: 2}}
	got := retainBest(kps, 10)
	if len(got) != 2 {
		t.Fatalf("retainBest should not drop keypoints when len(kps) <= target, got %d", len(got))
	}
}
