package domain

// Engagement counter names as stored in daily_stats.metric.
const (
	MetricBioClicks    = "bio_clicks"    // solicitor biography page views
	MetricUpdateClicks = "update_clicks" // legal update views
	MetricNewsClicks   = "news_clicks"   // news article views
	MetricTeamClicks   = "team_clicks"   // team page views
)

// SolicitorMetrics are the counters shown on a solicitor's engagement card.
var SolicitorMetrics = []string{MetricBioClicks, MetricUpdateClicks, MetricNewsClicks}

// TeamMetrics are the counters shown on a team's engagement card.
var TeamMetrics = []string{MetricTeamClicks, MetricBioClicks, MetricUpdateClicks, MetricNewsClicks}

// MetricLabels maps counter names to display labels.
var MetricLabels = map[string]string{
	MetricBioClicks:    "Bio Views",
	MetricUpdateClicks: "Legal Update Views",
	MetricNewsClicks:   "News Views",
	MetricTeamClicks:   "Team Page Views",
}

// IsKnownMetric reports whether name is one of the engagement counters.
func IsKnownMetric(name string) bool {
	_, ok := MetricLabels[name]
	return ok
}
