package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/goal-master/pkg/adapters"
	"github.com/de-tools/goal-master/pkg/models/domain"
	"github.com/de-tools/goal-master/pkg/models/store"
	"github.com/de-tools/goal-master/pkg/store/cache"
	"github.com/de-tools/goal-master/pkg/store/goals"
	"github.com/rs/zerolog"
)

// DefaultCacheTTL bounds how long a summary outlives a write made through a store
// that is not wrapped by NewInvalidatingStore.
const DefaultCacheTTL = 5 * time.Minute

const summaryKeyPrefix = "summary:"

// Service answers the dashboard questions for a single user.
type Service interface {
	GetSummary(ctx context.Context, userID string, period domain.Period) (domain.SummaryStats, error)
	GetMonthlySeries(ctx context.Context, userID string, period domain.Period, category domain.Category) ([]domain.MonthlyProgress, error)
	GetCategorySeries(ctx context.Context, userID string, period domain.Period) (map[domain.Category][]domain.MonthlyProgress, error)
	GetRanking(ctx context.Context, userID string, direction domain.SortDirection, limit int) ([]domain.RankedGoal, error)
	GetDistributions(ctx context.Context, userID string, period domain.Period) (domain.Distributions, error)
}

type Options struct {
	Store    goals.Store
	Cache    cache.Store
	CacheTTL time.Duration
	Now      func() time.Time
}

type service struct {
	store    goals.Store
	cache    cache.Store
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(opts Options) (Service, error) {
	if opts.Store == nil {
		return nil, errors.New("goal store is required")
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNoopStore()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &service{
		store:    opts.Store,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		now:      opts.Now,
	}, nil
}

func (s *service) GetSummary(ctx context.Context, userID string, period domain.Period) (domain.SummaryStats, error) {
	logger := zerolog.Ctx(ctx)
	now := s.now()
	key := summaryUserPrefix(userID) + fmt.Sprintf("%s:%s", period, now.Format(time.DateOnly))

	var stats domain.SummaryStats
	if s.fromCache(ctx, key, &stats) {
		logger.Debug().Str("user", userID).Str("period", string(period)).Msg("summary served from cache")
		return stats, nil
	}

	snapshots, err := s.load(ctx, userID, store.GoalFilter{WithEntries: true})
	if err != nil {
		return domain.SummaryStats{}, err
	}

	stats = Summarize(snapshots, period, now)
	s.toCache(ctx, key, stats)
	return stats, nil
}

func (s *service) GetMonthlySeries(
	ctx context.Context,
	userID string,
	period domain.Period,
	category domain.Category,
) ([]domain.MonthlyProgress, error) {
	snapshots, err := s.load(ctx, userID, store.GoalFilter{Category: string(category), WithEntries: true})
	if err != nil {
		return nil, err
	}
	return BuildMonthlySeries(FilterCategory(snapshots, category), period, s.now()), nil
}

func (s *service) GetCategorySeries(
	ctx context.Context,
	userID string,
	period domain.Period,
) (map[domain.Category][]domain.MonthlyProgress, error) {
	snapshots, err := s.load(ctx, userID, store.GoalFilter{WithEntries: true})
	if err != nil {
		return nil, err
	}
	return BuildCategorySeries(snapshots, period, s.now()), nil
}

func (s *service) GetRanking(
	ctx context.Context,
	userID string,
	direction domain.SortDirection,
	limit int,
) ([]domain.RankedGoal, error) {
	snapshots, err := s.load(ctx, userID, store.GoalFilter{})
	if err != nil {
		return nil, err
	}
	return Rank(snapshots, direction, limit), nil
}

func (s *service) GetDistributions(ctx context.Context, userID string, period domain.Period) (domain.Distributions, error) {
	snapshots, err := s.load(ctx, userID, store.GoalFilter{})
	if err != nil {
		return domain.Distributions{}, err
	}
	return BuildDistributions(snapshots, period, s.now()), nil
}

func (s *service) load(ctx context.Context, userID string, filter store.GoalFilter) ([]domain.GoalSnapshot, error) {
	rows, err := s.store.ListGoals(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals of user %s: %w", userID, err)
	}
	return adapters.MapStoreGoalsToDomain(rows), nil
}

func (s *service) fromCache(ctx context.Context, key string, target any) bool {
	raw, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return false
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed, recomputing")
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cached payload is corrupt, recomputing")
		return false
	}
	return true
}

func (s *service) toCache(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to encode cache payload")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func summaryUserPrefix(userID string) string {
	return summaryKeyPrefix + userID + ":"
}
