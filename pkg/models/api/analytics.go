package api

import "time"

type ProgressEntry struct {
	Value     float64   `json:"value"`
	EntryDate time.Time `json:"entryDate"`
}

type Goal struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Title           string          `json:"title"`
	Category        string          `json:"category,omitempty"`
	Status          string          `json:"status"`
	InitialValue    *float64        `json:"initialValue"`
	CurrentValue    *float64        `json:"currentValue"`
	TargetValue     *float64        `json:"targetValue"`
	IsLowerBetter   bool            `json:"isLowerBetter"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	ProgressEntries []ProgressEntry `json:"progressEntries,omitempty"`
}

type Trend struct {
	Direction string `json:"direction"`
	Delta     int    `json:"delta"`
}

type SummaryStats struct {
	TotalObjectives      int            `json:"totalObjectives"`
	ActiveObjectives     int            `json:"activeObjectives"`
	CompletedObjectives  int            `json:"completedObjectives"`
	AverageProgress      int            `json:"averageProgress"`
	StatusCounts         map[string]int `json:"statusCounts"`
	CategoryDistribution map[string]int `json:"categoryDistribution"`
	CategoryCount        int            `json:"categoryCount"`
	DueSoonCount         int            `json:"dueSoonCount"`
	Trend                Trend          `json:"trend"`
}

type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type CategoryProgress struct {
	Category        string `json:"category"`
	AverageProgress int    `json:"averageProgress"`
	Goals           int    `json:"goals"`
}

type MonthlyProgress struct {
	MonthYear       string `json:"monthYear"`
	AverageProgress int    `json:"averageProgress"`
}

// RankedGoal is a goal decorated with its computed progress.
type RankedGoal struct {
	Goal
	ProgressPercentage int `json:"progressPercentage"`
}

type Distributions struct {
	Categories []NamedValue       `json:"categories"`
	Statuses   []NamedValue       `json:"statuses"`
	Progress   []CategoryProgress `json:"progress"`
}

type Error struct {
	Error string `json:"error"`
}
