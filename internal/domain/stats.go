package domain

import "engagement-dashboard/internal/calendar"

// DailyStat is one counter for one subject on one calendar day.
// Corresponds to daily_stats table in ClickHouse.
type DailyStat struct {
	SubjectKind SubjectKind
	SubjectID   string
	Date        calendar.DateKey
	Metric      string
	Clicks      int64
}

// Mention is a press mention of a solicitor with a PR impact score.
// Corresponds to mentions table in PostgreSQL.
type Mention struct {
	ID          string
	SolicitorID string
	PublishedAt int64 // Unix timestamp in milliseconds
	ImpactScore int64
	Title       string
	Source      string
	Sentiment   *string // nullable
}
