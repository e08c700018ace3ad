package store

import (
	"database/sql"
	"time"
)

// Goal mirrors a row of the objectives table.
type Goal struct {
	ID            string
	UserID        string
	Title         string
	Category      sql.NullString
	Status        string
	InitialValue  sql.NullFloat64
	CurrentValue  sql.NullFloat64
	TargetValue   sql.NullFloat64
	IsLowerBetter bool
	EndDate       sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Entries       []ProgressEntry
}

// ProgressEntry mirrors a row of the progress_entries table.
type ProgressEntry struct {
	ID          string
	ObjectiveID string
	Value       float64
	EntryDate   time.Time
}

type GoalFilter struct {
	Category    string
	Status      string
	Search      string
	WithEntries bool
}
