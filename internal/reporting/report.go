package reporting

import (
	"time"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/period"
)

// Report is an engagement report for one subject.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Title       string // subject display name
	Selector    string

	// Period comparison
	Ready       bool
	Current     period.Window
	Previous    period.Window
	Comparison  []ComparisonRow // in requested metric order
	Unavailable []string

	// Leaderboard for the current window (may be empty)
	LeaderboardMetric string
	Leaderboard       []LeaderboardRow

	// Daily series of the first metric over the current window
	Series []SeriesPoint
}

// ComparisonRow is one metric of a period comparison.
type ComparisonRow struct {
	Metric    string
	Label     string
	Current   *int64
	Previous  *int64
	Diff      *int64
	Direction period.Direction
}

// LeaderboardRow is one ranked entry.
type LeaderboardRow struct {
	Rank   int
	ID     string
	Name   string
	Clicks int64
}

// SeriesPoint is one day of a chart.
type SeriesPoint struct {
	Date  calendar.DateKey
	Value int64
}
