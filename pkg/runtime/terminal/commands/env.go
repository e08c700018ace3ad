package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/goal-master/pkg/adapters"
	"github.com/de-tools/goal-master/pkg/models/domain"
	"github.com/de-tools/goal-master/pkg/models/store"
	"github.com/de-tools/goal-master/pkg/runtime/terminal/export"
	"github.com/de-tools/goal-master/pkg/store/goals"
	"github.com/rs/zerolog"
)

// StoreOpener connects to the goal database; the returned func releases it.
type StoreOpener func(ctx context.Context) (goals.Store, func() error, error)

// Env carries the collaborators shared by every command.
type Env struct {
	OpenStore   StoreOpener
	NewUploader func(ctx context.Context) (export.Uploader, error)
	Now         func() time.Time
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// withStore opens the database for the duration of fn.
func (e Env) withStore(ctx context.Context, fn func(goals.Store) error) error {
	if e.OpenStore == nil {
		return errors.New("no database configured, pass --input to read a snapshot file")
	}

	s, closeFn, err := e.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open goal store: %w", err)
	}
	defer func() {
		if err := closeFn(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close goal store")
		}
	}()

	return fn(s)
}

// loadGoals reads a user's goals from the snapshot file when input is set, otherwise from the database.
func (e Env) loadGoals(ctx context.Context, input, userID string) ([]domain.GoalSnapshot, error) {
	if input != "" {
		snapshots, err := LoadSnapshotFile(input)
		if err != nil {
			return nil, err
		}
		return filterUser(snapshots, userID), nil
	}

	if userID == "" {
		return nil, errors.New("--user is required when reading from the database")
	}

	var snapshots []domain.GoalSnapshot
	err := e.withStore(ctx, func(s goals.Store) error {
		rows, err := s.ListGoals(ctx, userID, store.GoalFilter{WithEntries: true})
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		snapshots = adapters.MapStoreGoalsToDomain(rows)
		return nil
	})
	return snapshots, err
}

func filterUser(snapshots []domain.GoalSnapshot, userID string) []domain.GoalSnapshot {
	if userID == "" {
		return snapshots
	}
	filtered := make([]domain.GoalSnapshot, 0, len(snapshots))
	for _, g := range snapshots {
		if g.UserID == userID {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
