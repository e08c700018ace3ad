package domain

import (
	"math"
	"time"
)

type Category string

const (
	CategoryHealth              Category = "Health"
	CategoryFinance             Category = "Finance"
	CategoryPersonalDevelopment Category = "PersonalDevelopment"
	CategoryRelationships       Category = "Relationships"
	CategoryCareer              Category = "Career"
	CategoryOther               Category = "Other"
)

var Categories = []Category{
	CategoryHealth,
	CategoryFinance,
	CategoryPersonalDevelopment,
	CategoryRelationships,
	CategoryCareer,
	CategoryOther,
}

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusArchived   Status = "Archived"
	StatusFailed     Status = "Failed"
)

var Statuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusArchived,
	StatusFailed,
}

// IsActive reports whether the goal is still being worked on.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// IsTerminal reports whether the goal can no longer change state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusArchived || s == StatusFailed
}

type ProgressEntry struct {
	Value     float64
	EntryDate time.Time
}

// GoalSnapshot is a read-only view of one goal as handed over by the persistence layer.
type GoalSnapshot struct {
	ID              string
	UserID          string
	Title           string
	Category        Category
	Status          Status
	InitialValue    *float64
	CurrentValue    *float64
	TargetValue     *float64
	IsLowerBetter   bool
	EndDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressEntries []ProgressEntry
}

// IsQuantitative reports whether both a numeric baseline and a numeric target are present.
func (g GoalSnapshot) IsQuantitative() bool {
	return IsNumber(g.InitialValue) && IsNumber(g.TargetValue)
}

// IsNumber reports whether v holds a finite value.
func IsNumber(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Float returns a pointer to v, convenient for optional measurements.
func Float(v float64) *float64 {
	return &v
}
