package analytics

import (
	"sort"
	"time"

	"github.com/de-tools/goal-master/pkg/models/domain"
)

const dueSoonWindow = 7 * 24 * time.Hour

// Summarize rolls a user's goals up into the dashboard counters.
// Deadlines are instants: an EndDate at midnight of the current day is already
// past for DueSoonCount once now is later than that midnight.
func Summarize(goals []domain.GoalSnapshot, period domain.Period, now time.Time) domain.SummaryStats {
	window := ResolveRange(period, now)
	dueBy := now.Add(dueSoonWindow)

	stats := domain.SummaryStats{
		TotalObjectives:      len(goals),
		StatusCounts:         map[domain.Status]int{},
		CategoryDistribution: map[domain.Category]int{},
	}

	var progress []int
	for _, g := range goals {
		stats.StatusCounts[g.Status]++

		if g.Status.IsActive() {
			stats.ActiveObjectives++
		}
		if g.Status == domain.StatusCompleted && window.Contains(g.UpdatedAt) {
			stats.CompletedObjectives++
		}
		if g.Category != "" {
			stats.CategoryDistribution[g.Category]++
		}
		if !g.Status.IsTerminal() && g.EndDate != nil && !g.EndDate.Before(now) && !g.EndDate.After(dueBy) {
			stats.DueSoonCount++
		}
		if countsTowardsAverage(g) {
			progress = append(progress, GoalProgress(g))
		}
	}

	stats.AverageProgress = meanProgress(progress)
	stats.CategoryCount = len(stats.CategoryDistribution)
	stats.Trend = ComputeTrend(BuildMonthlySeries(goals, domain.PeriodOneMonth, now))

	return stats
}

// CategoryProgress averages goal progress per category over the same goals
// that feed SummaryStats.AverageProgress.
func CategoryProgress(goals []domain.GoalSnapshot) []domain.CategoryProgress {
	byCategory := map[domain.Category][]int{}
	for _, g := range goals {
		if g.Category == "" || !countsTowardsAverage(g) {
			continue
		}
		byCategory[g.Category] = append(byCategory[g.Category], GoalProgress(g))
	}

	result := make([]domain.CategoryProgress, 0, len(byCategory))
	for category, values := range byCategory {
		result = append(result, domain.CategoryProgress{
			Category:        category,
			AverageProgress: meanProgress(values),
			Goals:           len(values),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result
}

// Distribution flattens a count map into chart slices ordered by name.
func Distribution[K ~string](counts map[K]int) []domain.NamedValue {
	result := make([]domain.NamedValue, 0, len(counts))
	for name, value := range counts {
		result = append(result, domain.NamedValue{Name: string(name), Value: value})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// BuildDistributions assembles the category, status and per-category progress breakdowns.
func BuildDistributions(goals []domain.GoalSnapshot, period domain.Period, now time.Time) domain.Distributions {
	stats := Summarize(goals, period, now)
	return domain.Distributions{
		Categories: Distribution(stats.CategoryDistribution),
		Statuses:   Distribution(stats.StatusCounts),
		Progress:   CategoryProgress(goals),
	}
}

func countsTowardsAverage(g domain.GoalSnapshot) bool {
	if !g.IsQuantitative() {
		return false
	}
	return g.Status != domain.StatusArchived && g.Status != domain.StatusFailed
}
