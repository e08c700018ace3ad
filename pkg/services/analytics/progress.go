package analytics

import (
	"math"

	"github.com/de-tools/goal-master/pkg/models/domain"
)

const (
	minProgress = 0
	maxProgress = 100
)

// ComputeProgress converts a goal's numeric state into a completion percentage in [0, 100].
//
// A goal without a numeric baseline or target yields 0; callers that aggregate
// should skip such goals rather than count the 0. A missing current value reads
// as the baseline. The function is pure and is called in tight loops, so it must
// stay free of logging and I/O.
func ComputeProgress(initial, current, target *float64, isLowerBetter bool) int {
	if !domain.IsNumber(initial) || !domain.IsNumber(target) {
		return minProgress
	}

	from, to := *initial, *target
	now := from
	if domain.IsNumber(current) {
		now = *current
	}

	if to == from {
		return bounded(reached(now, to, isLowerBetter))
	}

	// direction contradicts the baseline/target ordering: the baseline itself is the bar
	if (isLowerBetter && from < to) || (!isLowerBetter && from > to) {
		return bounded(reached(now, from, isLowerBetter))
	}

	var ratio float64
	if isLowerBetter {
		ratio = (from - now) / (from - to)
	} else {
		ratio = (now - from) / (to - from)
	}

	return clamp(math.Round(ratio * 100))
}

// GoalProgress is ComputeProgress applied to the snapshot's current state.
func GoalProgress(g domain.GoalSnapshot) int {
	return ComputeProgress(g.InitialValue, g.CurrentValue, g.TargetValue, g.IsLowerBetter)
}

func reached(value, bar float64, isLowerBetter bool) bool {
	if isLowerBetter {
		return value <= bar
	}
	return value >= bar
}

func bounded(ok bool) int {
	if ok {
		return maxProgress
	}
	return minProgress
}

func clamp(p float64) int {
	switch {
	case math.IsNaN(p) || p < minProgress:
		return minProgress
	case p > maxProgress:
		return maxProgress
	}
	return int(p)
}

// meanProgress returns the rounded mean of the given percentages, 0 for none.
func meanProgress(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}
