package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/goal-master/pkg/models/store"
	"github.com/de-tools/goal-master/pkg/store/sqldb"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrGoalConflict = errors.New("goal id belongs to another user")
)

type Store interface {
	ListGoals(ctx context.Context, userID string, filter store.GoalFilter) ([]store.Goal, error)
	GetGoal(ctx context.Context, userID string, goalID string) (*store.Goal, error)
	SaveGoal(ctx context.Context, goal *store.Goal) error
	AddProgressEntry(ctx context.Context, goalID string, entry *store.ProgressEntry) error
	DeleteUserGoals(ctx context.Context, userID string) (int64, error)
}

type sqlStore struct {
	db  *sqldb.DB
	now func() time.Time
}

func NewStore(db *sqldb.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &sqlStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

const goalColumns = `id, user_id, title, category, status, initial_value, current_value, target_value,
		is_lower_better, end_date, created_at, updated_at`

func (s *sqlStore) ListGoals(ctx context.Context, userID string, filter store.GoalFilter) ([]store.Goal, error) {
	logger := zerolog.Ctx(ctx)

	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(search)+"%")
	}

	query := `
		SELECT ` + goalColumns + `
		FROM objectives
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY updated_at DESC, id
	`

	rows, err := s.db.Conn(ctx).QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("objectives query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close objectives query rows")
		}
	}(rows)

	goals := []store.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan objective: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("objectives rows error: %w", err)
	}

	if filter.WithEntries && len(goals) > 0 {
		if err := s.attachEntries(ctx, userID, goals); err != nil {
			return nil, err
		}
	}

	return goals, nil
}

func (s *sqlStore) GetGoal(ctx context.Context, userID string, goalID string) (*store.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM objectives WHERE id = ? AND user_id = ?`

	g, err := scanGoal(s.db.Conn(ctx).QueryRowContext(ctx, s.db.Rebind(query), goalID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load objective %s: %w", goalID, err)
	}

	goals := []store.Goal{g}
	if err := s.attachEntries(ctx, userID, goals); err != nil {
		return nil, err
	}
	return &goals[0], nil
}

// SaveGoal inserts the goal or updates the existing row with the same id. An id owned by
// another user is rejected with ErrGoalConflict. Entries, when non-nil, replace the goal's
// stored progress history.
func (s *sqlStore) SaveGoal(ctx context.Context, goal *store.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	now := s.now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	if goal.UpdatedAt.IsZero() {
		goal.UpdatedAt = now
	}
	if goal.Status == "" {
		goal.Status = "Pending"
	}
	// timestamps are compared as text by sqlite, so every stored time shares one zone
	goal.CreatedAt = goal.CreatedAt.UTC()
	goal.UpdatedAt = goal.UpdatedAt.UTC()
	if goal.EndDate.Valid {
		goal.EndDate.Time = goal.EndDate.Time.UTC()
	}

	query := `
		INSERT INTO objectives (` + goalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			initial_value = EXCLUDED.initial_value,
			current_value = EXCLUDED.current_value,
			target_value = EXCLUDED.target_value,
			is_lower_better = EXCLUDED.is_lower_better,
			end_date = EXCLUDED.end_date,
			updated_at = EXCLUDED.updated_at
		WHERE objectives.user_id = EXCLUDED.user_id
	`

	return s.db.InTx(ctx, func(ctx context.Context) error {
		conn := s.db.Conn(ctx)
		res, err := conn.ExecContext(ctx, s.db.Rebind(query),
			goal.ID, goal.UserID, goal.Title, goal.Category, goal.Status,
			goal.InitialValue, goal.CurrentValue, goal.TargetValue,
			goal.IsLowerBetter, goal.EndDate, goal.CreatedAt, goal.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save objective %s: %w", goal.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to save objective %s: %w", goal.ID, err)
		}
		if affected == 0 {
			return fmt.Errorf("objective %s not saved for user %s: %w", goal.ID, goal.UserID, ErrGoalConflict)
		}

		if goal.Entries == nil {
			return nil
		}
		if _, err := conn.ExecContext(ctx,
			s.db.Rebind(`DELETE FROM progress_entries WHERE objective_id = ?`), goal.ID,
		); err != nil {
			return fmt.Errorf("failed to clear progress entries of %s: %w", goal.ID, err)
		}
		for i := range goal.Entries {
			entry := &goal.Entries[i]
			entry.ObjectiveID = goal.ID
			if err := s.insertEntry(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddProgressEntry appends a measurement and moves the goal's current value to it
// when the entry is the newest one recorded.
func (s *sqlStore) AddProgressEntry(ctx context.Context, goalID string, entry *store.ProgressEntry) error {
	entry.ObjectiveID = goalID
	if entry.EntryDate.IsZero() {
		entry.EntryDate = s.now()
	}
	entry.EntryDate = entry.EntryDate.UTC()

	update := `
		UPDATE objectives
		SET current_value = ?, updated_at = ?
		WHERE id = ?
			AND NOT EXISTS (
				SELECT 1 FROM progress_entries
				WHERE objective_id = ? AND entry_date > ?
			)
	`

	return s.db.InTx(ctx, func(ctx context.Context) error {
		var exists int
		err := s.db.Conn(ctx).QueryRowContext(ctx,
			s.db.Rebind(`SELECT COUNT(*) FROM objectives WHERE id = ?`), goalID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to look up objective %s: %w", goalID, err)
		}
		if exists == 0 {
			return ErrGoalNotFound
		}

		if _, err := s.db.Conn(ctx).ExecContext(ctx, s.db.Rebind(update),
			entry.Value, s.now(), goalID, goalID, entry.EntryDate,
		); err != nil {
			return fmt.Errorf("failed to move current value of %s: %w", goalID, err)
		}

		return s.insertEntry(ctx, entry)
	})
}

func (s *sqlStore) DeleteUserGoals(ctx context.Context, userID string) (int64, error) {
	var deleted int64
	err := s.db.InTx(ctx, func(ctx context.Context) error {
		conn := s.db.Conn(ctx)
		if _, err := conn.ExecContext(ctx, s.db.Rebind(`
			DELETE FROM progress_entries
			WHERE objective_id IN (SELECT id FROM objectives WHERE user_id = ?)
		`), userID); err != nil {
			return fmt.Errorf("delete progress entries failed: %w", err)
		}

		res, err := conn.ExecContext(ctx, s.db.Rebind(`DELETE FROM objectives WHERE user_id = ?`), userID)
		if err != nil {
			return fmt.Errorf("delete objectives failed: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}

func (s *sqlStore) insertEntry(ctx context.Context, entry *store.ProgressEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.EntryDate = entry.EntryDate.UTC()
	_, err := s.db.Conn(ctx).ExecContext(ctx, s.db.Rebind(`
		INSERT INTO progress_entries (id, objective_id, value, entry_date)
		VALUES (?, ?, ?, ?)
	`), entry.ID, entry.ObjectiveID, entry.Value, entry.EntryDate)
	if err != nil {
		return fmt.Errorf("failed to insert progress entry for %s: %w", entry.ObjectiveID, err)
	}
	return nil
}

func (s *sqlStore) attachEntries(ctx context.Context, userID string, goals []store.Goal) error {
	logger := zerolog.Ctx(ctx)

	query := `
		SELECT e.id, e.objective_id, e.value, e.entry_date
		FROM progress_entries e
		JOIN objectives o ON o.id = e.objective_id
		WHERE o.user_id = ?
		ORDER BY e.objective_id, e.entry_date
	`
	rows, err := s.db.Conn(ctx).QueryContext(ctx, s.db.Rebind(query), userID)
	if err != nil {
		return fmt.Errorf("progress entries query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close progress entries rows")
		}
	}(rows)

	index := make(map[string]int, len(goals))
	for i := range goals {
		index[goals[i].ID] = i
		goals[i].Entries = []store.ProgressEntry{}
	}

	for rows.Next() {
		var e store.ProgressEntry
		if err := rows.Scan(&e.ID, &e.ObjectiveID, &e.Value, &e.EntryDate); err != nil {
			return fmt.Errorf("failed to scan progress entry: %w", err)
		}
		if i, ok := index[e.ObjectiveID]; ok {
			goals[i].Entries = append(goals[i].Entries, e)
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(row scanner) (store.Goal, error) {
	var g store.Goal
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Category,
		&g.Status,
		&g.InitialValue,
		&g.CurrentValue,
		&g.TargetValue,
		&g.IsLowerBetter,
		&g.EndDate,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}
