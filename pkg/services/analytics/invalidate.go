package analytics

import (
	"context"

	"github.com/de-tools/goal-master/pkg/models/store"
	"github.com/de-tools/goal-master/pkg/store/cache"
	"github.com/de-tools/goal-master/pkg/store/goals"
	"github.com/rs/zerolog"
)

type invalidatingStore struct {
	goals.Store
	cache cache.Store
}

// NewInvalidatingStore drops cached summaries after every successful write to s.
func NewInvalidatingStore(s goals.Store, c cache.Store) goals.Store {
	return &invalidatingStore{Store: s, cache: c}
}

func (s *invalidatingStore) SaveGoal(ctx context.Context, goal *store.Goal) error {
	if err := s.Store.SaveGoal(ctx, goal); err != nil {
		return err
	}
	s.invalidate(ctx, summaryUserPrefix(goal.UserID))
	return nil
}

// AddProgressEntry only knows the goal, so every user's summaries are dropped.
func (s *invalidatingStore) AddProgressEntry(ctx context.Context, goalID string, entry *store.ProgressEntry) error {
	if err := s.Store.AddProgressEntry(ctx, goalID, entry); err != nil {
		return err
	}
	s.invalidate(ctx, summaryKeyPrefix)
	return nil
}

func (s *invalidatingStore) DeleteUserGoals(ctx context.Context, userID string) (int64, error) {
	deleted, err := s.Store.DeleteUserGoals(ctx, userID)
	if err != nil {
		return deleted, err
	}
	s.invalidate(ctx, summaryUserPrefix(userID))
	return deleted, nil
}

func (s *invalidatingStore) invalidate(ctx context.Context, prefix string) {
	if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("prefix", prefix).Msg("failed to invalidate cached summaries")
	}
}
