package goals

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/goal-master/pkg/models/store"
	"github.com/de-tools/goal-master/pkg/store/sqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sqldb.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := sqldb.NewDB(context.Background(), sqldb.Settings{Driver: sqldb.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func weightGoal(userID string) *store.Goal {
	return &store.Goal{
		UserID:        userID,
		Title:         "Lose weight",
		Category:      sql.NullString{String: "Health", Valid: true},
		Status:        "InProgress",
		InitialValue:  sql.NullFloat64{Float64: 80, Valid: true},
		TargetValue:   sql.NullFloat64{Float64: 70, Valid: true},
		IsLowerBetter: true,
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_SaveAndGetGoal(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	g := weightGoal("u1")
	g.EndDate = sql.NullTime{Time: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), Valid: true}
	g.Entries = []store.ProgressEntry{{Value: 78, EntryDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}}

	require.NoError(t, f.store.SaveGoal(ctx, g))
	require.NotEmpty(t, g.ID)

	got, err := f.store.GetGoal(ctx, "u1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lose weight", got.Title)
	assert.Equal(t, "Health", got.Category.String)
	assert.True(t, got.IsLowerBetter)
	assert.Equal(t, 80.0, got.InitialValue.Float64)
	assert.False(t, got.CurrentValue.Valid)
	assert.True(t, got.EndDate.Valid)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 78.0, got.Entries[0].Value)

	t.Run("other user cannot read it", func(t *testing.T) {
		_, err := f.store.GetGoal(ctx, "u2", g.ID)
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})
}

func TestStore_SaveGoal_Upserts(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	g := weightGoal("u1")
	require.NoError(t, f.store.SaveGoal(ctx, g))

	g.Status = "Completed"
	g.CurrentValue = sql.NullFloat64{Float64: 70, Valid: true}
	require.NoError(t, f.store.SaveGoal(ctx, g))

	goals, err := f.store.ListGoals(ctx, "u1", store.GoalFilter{})
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Completed", goals[0].Status)
	assert.Equal(t, 70.0, goals[0].CurrentValue.Float64)
}

func TestStore_SaveGoal_RejectsIDOwnedByAnotherUser(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	alice := weightGoal("alice")
	alice.ID = "shared-id"
	require.NoError(t, f.store.SaveGoal(ctx, alice))

	bob := weightGoal("bob")
	bob.ID = "shared-id"
	bob.Title = "Run a marathon"
	err := f.store.SaveGoal(ctx, bob)
	assert.ErrorIs(t, err, ErrGoalConflict)

	got, err := f.store.GetGoal(ctx, "alice", "shared-id")
	require.NoError(t, err)
	assert.Equal(t, "Lose weight", got.Title)

	bobGoals, err := f.store.ListGoals(ctx, "bob", store.GoalFilter{})
	require.NoError(t, err)
	assert.Empty(t, bobGoals)
}

func TestStore_SaveGoal_ReplacesEntries(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	entries := []store.ProgressEntry{
		{Value: 78, EntryDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Value: 76, EntryDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	first := weightGoal("u1")
	first.ID = "weight"
	first.Entries = append([]store.ProgressEntry(nil), entries...)
	require.NoError(t, f.store.SaveGoal(ctx, first))

	again := weightGoal("u1")
	again.ID = "weight"
	again.Entries = append([]store.ProgressEntry(nil), entries...)
	require.NoError(t, f.store.SaveGoal(ctx, again))

	got, err := f.store.GetGoal(ctx, "u1", "weight")
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, 78.0, got.Entries[0].Value)
	assert.Equal(t, 76.0, got.Entries[1].Value)

	t.Run("nil entries keep history", func(t *testing.T) {
		bare := weightGoal("u1")
		bare.ID = "weight"
		bare.Status = "Completed"
		require.NoError(t, f.store.SaveGoal(ctx, bare))

		got, err := f.store.GetGoal(ctx, "u1", "weight")
		require.NoError(t, err)
		assert.Equal(t, "Completed", got.Status)
		assert.Len(t, got.Entries, 2)
	})
}

func TestStore_ListGoals(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	health := weightGoal("u1")
	finance := &store.Goal{
		UserID:       "u1",
		Title:        "Emergency fund",
		Category:     sql.NullString{String: "Finance", Valid: true},
		Status:       "Pending",
		InitialValue: sql.NullFloat64{Float64: 0, Valid: true},
		TargetValue:  sql.NullFloat64{Float64: 500, Valid: true},
		Entries: []store.ProgressEntry{
			{Value: 100, EntryDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			{Value: 300, EntryDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	other := weightGoal("u2")

	for _, g := range []*store.Goal{health, finance, other} {
		require.NoError(t, f.store.SaveGoal(ctx, g))
	}

	t.Run("all goals of a user", func(t *testing.T) {
		goals, err := f.store.ListGoals(ctx, "u1", store.GoalFilter{})
		require.NoError(t, err)
		assert.Len(t, goals, 2)
		for _, g := range goals {
			assert.Nil(t, g.Entries)
		}
	})

	t.Run("by category", func(t *testing.T) {
		goals, err := f.store.ListGoals(ctx, "u1", store.GoalFilter{Category: "Finance"})
		require.NoError(t, err)
		require.Len(t, goals, 1)
		assert.Equal(t, "Emergency fund", goals[0].Title)
	})

	t.Run("by status", func(t *testing.T) {
		goals, err := f.store.ListGoals(ctx, "u1", store.GoalFilter{Status: "InProgress"})
		require.NoError(t, err)
		require.Len(t, goals, 1)
		assert.Equal(t, "Lose weight", goals[0].Title)
	})

	t.Run("by search", func(t *testing.T) {
		goals, err := f.store.ListGoals(ctx, "u1", store.GoalFilter{Search: "FUND"})
		require.NoError(t, err)
		require.Len(t, goals, 1)
	})

	t.Run("with entries", func(t *testing.T) {
		goals, err := f.store.ListGoals(ctx, "u1", store.GoalFilter{Category: "Finance", WithEntries: true})
		require.NoError(t, err)
		require.Len(t, goals, 1)
		require.Len(t, goals[0].Entries, 2)
		assert.Equal(t, 100.0, goals[0].Entries[0].Value)
		assert.Equal(t, 300.0, goals[0].Entries[1].Value)
	})

	t.Run("unknown user", func(t *testing.T) {
		goals, err := f.store.ListGoals(ctx, "nobody", store.GoalFilter{WithEntries: true})
		require.NoError(t, err)
		assert.NotNil(t, goals)
		assert.Empty(t, goals)
	})
}

func TestStore_AddProgressEntry(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	g := weightGoal("u1")
	require.NoError(t, f.store.SaveGoal(ctx, g))

	t.Run("latest entry moves current value", func(t *testing.T) {
		err := f.store.AddProgressEntry(ctx, g.ID, &store.ProgressEntry{
			Value:     76,
			EntryDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		got, err := f.store.GetGoal(ctx, "u1", g.ID)
		require.NoError(t, err)
		assert.Equal(t, 76.0, got.CurrentValue.Float64)
		assert.Len(t, got.Entries, 1)
	})

	t.Run("backfilled entry keeps current value", func(t *testing.T) {
		err := f.store.AddProgressEntry(ctx, g.ID, &store.ProgressEntry{
			Value:     79,
			EntryDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		got, err := f.store.GetGoal(ctx, "u1", g.ID)
		require.NoError(t, err)
		assert.Equal(t, 76.0, got.CurrentValue.Float64)
		assert.Len(t, got.Entries, 2)
	})

	t.Run("unknown goal", func(t *testing.T) {
		err := f.store.AddProgressEntry(ctx, "missing", &store.ProgressEntry{Value: 1})
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})
}

func TestStore_AddProgressEntry_MixedZones(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	g := weightGoal("u1")
	require.NoError(t, f.store.SaveGoal(ctx, g))

	require.NoError(t, f.store.AddProgressEntry(ctx, g.ID, &store.ProgressEntry{
		Value:     75,
		EntryDate: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}))

	// 11:00+02:00 is 09:00 UTC, an hour before the entry above
	cest := time.FixedZone("CEST", 2*60*60)
	require.NoError(t, f.store.AddProgressEntry(ctx, g.ID, &store.ProgressEntry{
		Value:     79,
		EntryDate: time.Date(2024, 3, 1, 11, 0, 0, 0, cest),
	}))

	got, err := f.store.GetGoal(ctx, "u1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.CurrentValue.Float64)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, 79.0, got.Entries[0].Value)
	assert.Equal(t, 75.0, got.Entries[1].Value)
	assert.True(t, got.Entries[0].EntryDate.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
}

func TestStore_DeleteUserGoals(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	g := weightGoal("u1")
	g.Entries = []store.ProgressEntry{{Value: 79, EntryDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}}
	require.NoError(t, f.store.SaveGoal(ctx, g))
	require.NoError(t, f.store.SaveGoal(ctx, weightGoal("u2")))

	deleted, err := f.store.DeleteUserGoals(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var entries int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM progress_entries`).Scan(&entries))
	assert.Equal(t, 0, entries)

	remaining, err := f.store.ListGoals(ctx, "u2", store.GoalFilter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestStore_ListGoals_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(sqldb.Wrap(db, sqldb.DriverPostgres))
	require.NoError(t, err)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "title", "category", "status", "initial_value", "current_value",
		"target_value", "is_lower_better", "end_date", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("g1", "u1", "Run 100km", "Health", "InProgress", 0.0, 40.0, 100.0, false, nil, created, created)

	mock.ExpectQuery(`FROM objectives\s+WHERE user_id = \$1 AND category = \$2 AND status = \$3`).
		WithArgs("u1", "Health", "InProgress").
		WillReturnRows(rows)

	goals, err := s.ListGoals(context.Background(), "u1", store.GoalFilter{Category: "Health", Status: "InProgress"})
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Run 100km", goals[0].Title)
	assert.Equal(t, 40.0, goals[0].CurrentValue.Float64)
	assert.False(t, goals[0].EndDate.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListGoals_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(sqldb.Wrap(db, sqldb.DriverPostgres))
	require.NoError(t, err)

	mock.ExpectQuery(`FROM objectives`).WillReturnError(sql.ErrConnDone)

	_, err = s.ListGoals(context.Background(), "u1", store.GoalFilter{})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveGoal_PostgresConflictRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(sqldb.Wrap(db, sqldb.DriverPostgres))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`ON CONFLICT \(id\) DO UPDATE SET[\s\S]+WHERE objectives.user_id = EXCLUDED.user_id`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	g := weightGoal("bob")
	g.ID = "shared-id"
	g.Entries = []store.ProgressEntry{{Value: 1, EntryDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}}

	err = s.SaveGoal(context.Background(), g)
	assert.ErrorIs(t, err, ErrGoalConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
