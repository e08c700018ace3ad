package analytics

import (
	"time"

	"github.com/de-tools/goal-master/pkg/models/domain"
)

const monthLayout = "2006-01"

// BuildMonthlySeries returns the average progress of all quantitative goals as
// of the end of every calendar month in the period, oldest first, with no gaps.
func BuildMonthlySeries(goals []domain.GoalSnapshot, period domain.Period, now time.Time) []domain.MonthlyProgress {
	months := monthGrid(goals, period, now)
	series := make([]domain.MonthlyProgress, 0, len(months))
	for _, month := range months {
		series = append(series, monthPoint(goals, month))
	}
	return series
}

// BuildCategorySeries is BuildMonthlySeries split by category, all categories sharing one month grid.
func BuildCategorySeries(goals []domain.GoalSnapshot, period domain.Period, now time.Time) map[domain.Category][]domain.MonthlyProgress {
	byCategory := map[domain.Category][]domain.GoalSnapshot{}
	for _, g := range goals {
		if g.Category == "" || !g.IsQuantitative() {
			continue
		}
		byCategory[g.Category] = append(byCategory[g.Category], g)
	}

	months := monthGrid(goals, period, now)
	result := make(map[domain.Category][]domain.MonthlyProgress, len(byCategory))
	for category, categoryGoals := range byCategory {
		series := make([]domain.MonthlyProgress, 0, len(months))
		for _, month := range months {
			series = append(series, monthPoint(categoryGoals, month))
		}
		result[category] = series
	}
	return result
}

// FilterCategory keeps the goals of one category; an empty category keeps everything.
func FilterCategory(goals []domain.GoalSnapshot, category domain.Category) []domain.GoalSnapshot {
	if category == "" {
		return goals
	}
	filtered := make([]domain.GoalSnapshot, 0, len(goals))
	for _, g := range goals {
		if g.Category == category {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// ComputeTrend compares the two most recent points of a monthly series.
func ComputeTrend(series []domain.MonthlyProgress) domain.Trend {
	if len(series) < 2 {
		return domain.Trend{Direction: domain.TrendStable}
	}

	delta := series[len(series)-1].AverageProgress - series[len(series)-2].AverageProgress
	switch {
	case delta > 0:
		return domain.Trend{Direction: domain.TrendUp, Delta: delta}
	case delta < 0:
		return domain.Trend{Direction: domain.TrendDown, Delta: delta}
	default:
		return domain.Trend{Direction: domain.TrendStable}
	}
}

func monthPoint(goals []domain.GoalSnapshot, month time.Time) domain.MonthlyProgress {
	end := month.AddDate(0, 1, 0).Add(-time.Nanosecond)

	var values []int
	for _, g := range goals {
		if !g.IsQuantitative() {
			continue
		}
		if !g.CreatedAt.IsZero() && g.CreatedAt.After(end) {
			continue
		}
		values = append(values, ComputeProgress(g.InitialValue, valueAsOf(g, end), g.TargetValue, g.IsLowerBetter))
	}

	return domain.MonthlyProgress{
		MonthYear:       month.Format(monthLayout),
		AverageProgress: meanProgress(values),
	}
}

// valueAsOf picks the latest recorded measurement on or before t, falling back to the baseline.
func valueAsOf(g domain.GoalSnapshot, t time.Time) *float64 {
	var (
		latest *domain.ProgressEntry
		found  bool
	)
	for i := range g.ProgressEntries {
		e := &g.ProgressEntries[i]
		if e.EntryDate.After(t) {
			continue
		}
		if !found || !e.EntryDate.Before(latest.EntryDate) {
			latest, found = e, true
		}
	}
	if !found {
		return g.InitialValue
	}
	v := latest.Value
	return &v
}

// monthGrid lists the first day of every month between the period bounds.
// The unbounded period starts at the earliest recorded activity instead of the epoch.
func monthGrid(goals []domain.GoalSnapshot, period domain.Period, now time.Time) []time.Time {
	window := ResolveRange(period, now)
	start := window.Start
	if IsUnbounded(period) {
		earliest, ok := earliestActivity(goals)
		if !ok {
			return nil
		}
		start = earliest.In(now.Location())
	}

	first := startOfMonth(start)
	last := startOfMonth(window.End)

	var months []time.Time
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

func earliestActivity(goals []domain.GoalSnapshot) (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)
	consider := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if !found || t.Before(earliest) {
			earliest, found = t, true
		}
	}
	for _, g := range goals {
		consider(g.CreatedAt)
		for _, e := range g.ProgressEntries {
			consider(e.EntryDate)
		}
	}
	return earliest, found
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
