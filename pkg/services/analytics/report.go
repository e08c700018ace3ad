package analytics

import (
	"fmt"
	"time"

	"github.com/de-tools/goal-master/pkg/models/domain"
)

// BuildReport lays out the dashboard figures as printable sections.
func BuildReport(userID string, goals []domain.GoalSnapshot, period domain.Period, now time.Time, limit int) *domain.Report {
	window := ResolveRange(period, now)
	if IsUnbounded(period) {
		if earliest, ok := earliestActivity(goals); ok {
			window.Start = earliest
		}
	}

	stats := Summarize(goals, period, now)

	return &domain.Report{
		Title:  fmt.Sprintf("Goal progress report for %s", userID),
		UserID: userID,
		Period: domain.TimePeriod{
			Start:    window.Start,
			End:      window.End,
			Duration: int(window.End.Sub(window.Start).Hours() / 24),
		},
		Sections: []domain.ReportSection{
			summarySection(stats),
			categorySection(CategoryProgress(goals)),
			monthlySection(BuildMonthlySeries(goals, period, now)),
			rankingSection("Top goals", Rank(goals, domain.SortTop, limit)),
			rankingSection("Goals needing attention", Rank(goals, domain.SortLow, limit)),
		},
	}
}

func summarySection(stats domain.SummaryStats) domain.ReportSection {
	details := make([]domain.ReportDetail, 0, len(domain.Statuses))
	for _, status := range domain.Statuses {
		details = append(details, domain.ReportDetail{
			Name:        string(status),
			Value:       stats.StatusCounts[status],
			Unit:        "goals",
			Description: "Goals currently in this status",
		})
	}

	return domain.ReportSection{
		Title: "Summary",
		Summary: map[string]interface{}{
			"Total objectives":     stats.TotalObjectives,
			"Active objectives":    stats.ActiveObjectives,
			"Completed in period":  stats.CompletedObjectives,
			"Average progress (%)": stats.AverageProgress,
			"Categories":           stats.CategoryCount,
			"Due within 7 days":    stats.DueSoonCount,
			"Trend":                fmt.Sprintf("%s (%+d)", stats.Trend.Direction, stats.Trend.Delta),
		},
		Details: details,
	}
}

func categorySection(progress []domain.CategoryProgress) domain.ReportSection {
	details := make([]domain.ReportDetail, 0, len(progress))
	for _, p := range progress {
		details = append(details, domain.ReportDetail{
			Name:        string(p.Category),
			Value:       p.AverageProgress,
			Unit:        "%",
			Description: fmt.Sprintf("Average over %d goals", p.Goals),
		})
	}
	return domain.ReportSection{Title: "Progress by category", Details: details}
}

func monthlySection(series []domain.MonthlyProgress) domain.ReportSection {
	details := make([]domain.ReportDetail, 0, len(series))
	for _, p := range series {
		details = append(details, domain.ReportDetail{
			Name:        p.MonthYear,
			Value:       p.AverageProgress,
			Unit:        "%",
			Description: "Average progress at month end",
		})
	}
	return domain.ReportSection{
		Title:   "Monthly progress",
		Summary: map[string]interface{}{"Trend": ComputeTrend(series).Direction},
		Details: details,
	}
}

func rankingSection(title string, ranked []domain.RankedGoal) domain.ReportSection {
	details := make([]domain.ReportDetail, 0, len(ranked))
	for _, r := range ranked {
		details = append(details, domain.ReportDetail{
			Name:        r.Goal.Title,
			Value:       r.ProgressPercentage,
			Unit:        "%",
			Description: fmt.Sprintf("%s, %s", r.Goal.Category, r.Goal.Status),
		})
	}
	return domain.ReportSection{Title: title, Details: details}
}
