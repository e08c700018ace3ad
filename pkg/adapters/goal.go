package adapters

import (
	"database/sql"
	"time"

	"github.com/de-tools/goal-master/pkg/models/api"
	"github.com/de-tools/goal-master/pkg/models/domain"
	"github.com/de-tools/goal-master/pkg/models/store"
)

func MapStoreGoalToDomain(g store.Goal) domain.GoalSnapshot {
	snapshot := domain.GoalSnapshot{
		ID:            g.ID,
		UserID:        g.UserID,
		Title:         g.Title,
		Status:        domain.Status(g.Status),
		InitialValue:  nullFloat(g.InitialValue),
		CurrentValue:  nullFloat(g.CurrentValue),
		TargetValue:   nullFloat(g.TargetValue),
		IsLowerBetter: g.IsLowerBetter,
		EndDate:       timePtr(g.EndDate),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
	if g.Category.Valid {
		snapshot.Category = domain.Category(g.Category.String)
	}
	if g.Entries != nil {
		snapshot.ProgressEntries = make([]domain.ProgressEntry, 0, len(g.Entries))
		for _, e := range g.Entries {
			snapshot.ProgressEntries = append(snapshot.ProgressEntries, domain.ProgressEntry{
				Value:     e.Value,
				EntryDate: e.EntryDate,
			})
		}
	}
	return snapshot
}

func MapStoreGoalsToDomain(goals []store.Goal) []domain.GoalSnapshot {
	result := make([]domain.GoalSnapshot, 0, len(goals))
	for _, g := range goals {
		result = append(result, MapStoreGoalToDomain(g))
	}
	return result
}

func MapDomainGoalToStore(g domain.GoalSnapshot) *store.Goal {
	goal := &store.Goal{
		ID:            g.ID,
		UserID:        g.UserID,
		Title:         g.Title,
		Category:      sql.NullString{String: string(g.Category), Valid: g.Category != ""},
		Status:        string(g.Status),
		InitialValue:  toNullFloat(g.InitialValue),
		CurrentValue:  toNullFloat(g.CurrentValue),
		TargetValue:   toNullFloat(g.TargetValue),
		IsLowerBetter: g.IsLowerBetter,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
	if g.EndDate != nil {
		goal.EndDate = sql.NullTime{Time: *g.EndDate, Valid: true}
	}
	for _, e := range g.ProgressEntries {
		goal.Entries = append(goal.Entries, store.ProgressEntry{Value: e.Value, EntryDate: e.EntryDate})
	}
	return goal
}

func MapApiGoalToDomain(g api.Goal) domain.GoalSnapshot {
	snapshot := domain.GoalSnapshot{
		ID:            g.ID,
		UserID:        g.UserID,
		Title:         g.Title,
		Category:      domain.Category(g.Category),
		Status:        domain.Status(g.Status),
		InitialValue:  g.InitialValue,
		CurrentValue:  g.CurrentValue,
		TargetValue:   g.TargetValue,
		IsLowerBetter: g.IsLowerBetter,
		EndDate:       g.EndDate,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
	for _, e := range g.ProgressEntries {
		snapshot.ProgressEntries = append(snapshot.ProgressEntries, domain.ProgressEntry{
			Value:     e.Value,
			EntryDate: e.EntryDate,
		})
	}
	return snapshot
}

func MapDomainGoalToApi(g domain.GoalSnapshot) api.Goal {
	goal := api.Goal{
		ID:            g.ID,
		UserID:        g.UserID,
		Title:         g.Title,
		Category:      string(g.Category),
		Status:        string(g.Status),
		InitialValue:  g.InitialValue,
		CurrentValue:  g.CurrentValue,
		TargetValue:   g.TargetValue,
		IsLowerBetter: g.IsLowerBetter,
		EndDate:       g.EndDate,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
	for _, e := range g.ProgressEntries {
		goal.ProgressEntries = append(goal.ProgressEntries, api.ProgressEntry{Value: e.Value, EntryDate: e.EntryDate})
	}
	return goal
}

func MapSummaryDomainToApi(s domain.SummaryStats) api.SummaryStats {
	statuses := make(map[string]int, len(s.StatusCounts))
	for k, v := range s.StatusCounts {
		statuses[string(k)] = v
	}
	categories := make(map[string]int, len(s.CategoryDistribution))
	for k, v := range s.CategoryDistribution {
		categories[string(k)] = v
	}

	return api.SummaryStats{
		TotalObjectives:      s.TotalObjectives,
		ActiveObjectives:     s.ActiveObjectives,
		CompletedObjectives:  s.CompletedObjectives,
		AverageProgress:      s.AverageProgress,
		StatusCounts:         statuses,
		CategoryDistribution: categories,
		CategoryCount:        s.CategoryCount,
		DueSoonCount:         s.DueSoonCount,
		Trend: api.Trend{
			Direction: string(s.Trend.Direction),
			Delta:     s.Trend.Delta,
		},
	}
}

func MapMonthlySeriesDomainToApi(series []domain.MonthlyProgress) []api.MonthlyProgress {
	result := make([]api.MonthlyProgress, 0, len(series))
	for _, p := range series {
		result = append(result, api.MonthlyProgress{MonthYear: p.MonthYear, AverageProgress: p.AverageProgress})
	}
	return result
}

func MapCategorySeriesDomainToApi(series map[domain.Category][]domain.MonthlyProgress) map[string][]api.MonthlyProgress {
	result := make(map[string][]api.MonthlyProgress, len(series))
	for category, points := range series {
		result[string(category)] = MapMonthlySeriesDomainToApi(points)
	}
	return result
}

func MapRankedGoalsDomainToApi(ranked []domain.RankedGoal) []api.RankedGoal {
	result := make([]api.RankedGoal, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, api.RankedGoal{
			Goal:               MapDomainGoalToApi(r.Goal),
			ProgressPercentage: r.ProgressPercentage,
		})
	}
	return result
}

func MapNamedValuesDomainToApi(values []domain.NamedValue) []api.NamedValue {
	result := make([]api.NamedValue, 0, len(values))
	for _, v := range values {
		result = append(result, api.NamedValue{Name: v.Name, Value: v.Value})
	}
	return result
}

func MapCategoryProgressDomainToApi(progress []domain.CategoryProgress) []api.CategoryProgress {
	result := make([]api.CategoryProgress, 0, len(progress))
	for _, p := range progress {
		result = append(result, api.CategoryProgress{
			Category:        string(p.Category),
			AverageProgress: p.AverageProgress,
			Goals:           p.Goals,
		})
	}
	return result
}

func MapDistributionsDomainToApi(d domain.Distributions) api.Distributions {
	return api.Distributions{
		Categories: MapNamedValuesDomainToApi(d.Categories),
		Statuses:   MapNamedValuesDomainToApi(d.Statuses),
		Progress:   MapCategoryProgressDomainToApi(d.Progress),
	}
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
