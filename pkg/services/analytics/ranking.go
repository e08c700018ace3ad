package analytics

import (
	"sort"
	"strings"

	"github.com/de-tools/goal-master/pkg/models/domain"
)

const DefaultRankingLimit = 5

// ParseSortDirection maps a sort token to a direction, defaulting to SortTop.
func ParseSortDirection(token string) domain.SortDirection {
	if domain.SortDirection(strings.ToLower(strings.TrimSpace(token))) == domain.SortLow {
		return domain.SortLow
	}
	return domain.SortTop
}

// Rank orders quantitative, non-archived goals by progress and returns at most limit of them.
// Ties go to the most recently updated goal. A non-positive limit falls back to DefaultRankingLimit.
func Rank(goals []domain.GoalSnapshot, direction domain.SortDirection, limit int) []domain.RankedGoal {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}

	ranked := make([]domain.RankedGoal, 0, len(goals))
	for _, g := range goals {
		if !g.IsQuantitative() || g.Status == domain.StatusArchived {
			continue
		}
		ranked = append(ranked, domain.RankedGoal{Goal: g, ProgressPercentage: GoalProgress(g)})
	}

	ascending := direction == domain.SortLow
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ProgressPercentage != b.ProgressPercentage {
			if ascending {
				return a.ProgressPercentage < b.ProgressPercentage
			}
			return a.ProgressPercentage > b.ProgressPercentage
		}
		return a.Goal.UpdatedAt.After(b.Goal.UpdatedAt)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
