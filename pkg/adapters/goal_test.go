package adapters

import (
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/goal-master/pkg/models/domain"
	"github.com/de-tools/goal-master/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStoreGoalToDomain(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		goal     store.Goal
		expected domain.GoalSnapshot
	}{
		{
			name: "all columns present",
			goal: store.Goal{
				ID:           "g1",
				UserID:       "u1",
				Title:        "Save",
				Category:     sql.NullString{String: "Finance", Valid: true},
				Status:       "InProgress",
				InitialValue: sql.NullFloat64{Float64: 0, Valid: true},
				CurrentValue: sql.NullFloat64{Float64: 250, Valid: true},
				TargetValue:  sql.NullFloat64{Float64: 500, Valid: true},
				EndDate:      sql.NullTime{Time: end, Valid: true},
				CreatedAt:    created,
				UpdatedAt:    created,
				Entries:      []store.ProgressEntry{{ID: "e1", ObjectiveID: "g1", Value: 250, EntryDate: created}},
			},
			expected: domain.GoalSnapshot{
				ID:              "g1",
				UserID:          "u1",
				Title:           "Save",
				Category:        domain.CategoryFinance,
				Status:          domain.StatusInProgress,
				InitialValue:    domain.Float(0),
				CurrentValue:    domain.Float(250),
				TargetValue:     domain.Float(500),
				EndDate:         &end,
				CreatedAt:       created,
				UpdatedAt:       created,
				ProgressEntries: []domain.ProgressEntry{{Value: 250, EntryDate: created}},
			},
		},
		{
			name: "null columns",
			goal: store.Goal{
				ID:        "g2",
				UserID:    "u1",
				Title:     "Read more",
				Status:    "Pending",
				CreatedAt: created,
				UpdatedAt: created,
			},
			expected: domain.GoalSnapshot{
				ID:        "g2",
				UserID:    "u1",
				Title:     "Read more",
				Status:    domain.StatusPending,
				CreatedAt: created,
				UpdatedAt: created,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapStoreGoalToDomain(tt.goal))
		})
	}
}

func TestMapDomainGoalToStore_KeepsNulls(t *testing.T) {
	g := MapDomainGoalToStore(domain.GoalSnapshot{
		ID:           "g1",
		Status:       domain.StatusPending,
		InitialValue: domain.Float(3),
	})

	assert.False(t, g.Category.Valid)
	assert.True(t, g.InitialValue.Valid)
	assert.Equal(t, 3.0, g.InitialValue.Float64)
	assert.False(t, g.TargetValue.Valid)
	assert.False(t, g.EndDate.Valid)
	assert.Nil(t, g.Entries)
}

func TestMapSummaryDomainToApi(t *testing.T) {
	out := MapSummaryDomainToApi(domain.SummaryStats{
		TotalObjectives:      3,
		AverageProgress:      42,
		StatusCounts:         map[domain.Status]int{domain.StatusCompleted: 1, domain.StatusPending: 2},
		CategoryDistribution: map[domain.Category]int{domain.CategoryHealth: 3},
		CategoryCount:        1,
		Trend:                domain.Trend{Direction: domain.TrendUp, Delta: 7},
	})

	assert.Equal(t, 3, out.TotalObjectives)
	assert.Equal(t, map[string]int{"Completed": 1, "Pending": 2}, out.StatusCounts)
	assert.Equal(t, map[string]int{"Health": 3}, out.CategoryDistribution)
	assert.Equal(t, "up", out.Trend.Direction)
	assert.Equal(t, 7, out.Trend.Delta)
}

func TestMapRankedGoalsDomainToApi(t *testing.T) {
	out := MapRankedGoalsDomainToApi([]domain.RankedGoal{{
		Goal:               domain.GoalSnapshot{ID: "g1", Category: domain.CategoryCareer},
		ProgressPercentage: 64,
	}})

	require.Len(t, out, 1)
	assert.Equal(t, "g1", out[0].ID)
	assert.Equal(t, "Career", out[0].Category)
	assert.Equal(t, 64, out[0].ProgressPercentage)

	assert.NotNil(t, MapRankedGoalsDomainToApi(nil))
}
