package domain

import "time"

type Period string

const (
	PeriodOneMonth    Period = "1month"
	PeriodThreeMonths Period = "3months"
	PeriodSixMonths   Period = "6months"
	PeriodOneYear     Period = "1year"
	PeriodAll         Period = "all"
)

// DateRange is a closed [Start, End] reporting window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type Trend struct {
	Direction TrendDirection
	Delta     int
}

type SummaryStats struct {
	TotalObjectives      int
	ActiveObjectives     int
	CompletedObjectives  int
	AverageProgress      int
	StatusCounts         map[Status]int
	CategoryDistribution map[Category]int
	CategoryCount        int
	DueSoonCount         int
	Trend                Trend
}

type CategoryProgress struct {
	Category        Category
	AverageProgress int
	Goals           int
}

type MonthlyProgress struct {
	MonthYear       string
	AverageProgress int
}

type SortDirection string

const (
	SortTop SortDirection = "top"
	SortLow SortDirection = "low"
)

type RankedGoal struct {
	Goal               GoalSnapshot
	ProgressPercentage int
}

// NamedValue is one slice of a distribution chart.
type NamedValue struct {
	Name  string
	Value int
}

type Distributions struct {
	Categories []NamedValue
	Statuses   []NamedValue
	Progress   []CategoryProgress
}
