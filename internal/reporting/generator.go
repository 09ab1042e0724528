package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/engagement"
	"engagement-dashboard/internal/leaderboard"
	"engagement-dashboard/internal/period"
	"engagement-dashboard/internal/storage"
	"engagement-dashboard/internal/timeline"
)

// Request selects what a report covers.
type Request struct {
	Subject  domain.Subject
	Selector period.Selector
	Today    calendar.DateKey
	Metrics  []string // empty selects the subject kind defaults
	TopN     int      // leaderboard size; 0 skips the leaderboard
}

// Generator produces reports from stored data.
type Generator struct {
	compare     *engagement.Service
	leaderboard *leaderboard.Service
	stats       storage.DailyStatStore
	solicitors  storage.SolicitorStore
	teams       storage.TeamStore
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	compare *engagement.Service,
	board *leaderboard.Service,
	stats storage.DailyStatStore,
	solicitors storage.SolicitorStore,
	teams storage.TeamStore,
) *Generator {
	return &Generator{
		compare:     compare,
		leaderboard: board,
		stats:       stats,
		solicitors:  solicitors,
		teams:       teams,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the report described by req.
func (g *Generator) Generate(ctx context.Context, req Request) (*Report, error) {
	title, err := g.title(ctx, req.Subject)
	if err != nil {
		return nil, err
	}

	cmp, err := g.compare.Compare(ctx, req.Subject, req.Selector, req.Today, req.Metrics)
	if err != nil {
		return nil, fmt.Errorf("compare periods: %w", err)
	}

	r := &Report{
		GeneratedAt: g.now(),
		Title:       title,
		Selector:    cmp.Selector,
		Ready:       cmp.Ready,
		Current:     cmp.Current,
		Previous:    cmp.Previous,
		Unavailable: cmp.Unavailable,
	}
	for _, metric := range cmp.Metrics {
		d := cmp.Deltas[metric]
		r.Comparison = append(r.Comparison, ComparisonRow{
			Metric:    metric,
			Label:     label(metric),
			Current:   d.Current,
			Previous:  d.Previous,
			Diff:      d.Diff,
			Direction: d.Direction,
		})
	}

	if !cmp.Ready || len(cmp.Metrics) == 0 {
		return r, nil
	}

	rows, err := g.stats.GetBySubjectRange(ctx, req.Subject, cmp.Metrics[0], cmp.Current.Start, cmp.Current.End)
	if err != nil {
		return nil, fmt.Errorf("get daily stats: %w", err)
	}
	points, err := timeline.DailySeries(rows, cmp.Current.Start, cmp.Current.End)
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		r.Series = append(r.Series, SeriesPoint{Date: p.Date, Value: p.Value})
	}

	if req.TopN > 0 {
		metric := boardMetric(cmp.Metrics)
		entries, err := g.topFor(ctx, req.Subject, metric, cmp.Current, req.TopN)
		if err != nil {
			return nil, err
		}
		r.LeaderboardMetric = metric
		for i, e := range entries {
			r.Leaderboard = append(r.Leaderboard, LeaderboardRow{Rank: i + 1, ID: e.ID, Name: e.Name, Clicks: e.Clicks})
		}
	}

	return r, nil
}

// topFor ranks team members for a team subject and all solicitors otherwise.
func (g *Generator) topFor(ctx context.Context, subject domain.Subject, metric string, w period.Window, n int) ([]leaderboard.Entry, error) {
	if subject.Kind == domain.SubjectTeam {
		entries, err := g.leaderboard.TopTeamMembers(ctx, subject.ID, metric, w, n)
		if err != nil {
			return nil, fmt.Errorf("top team members: %w", err)
		}
		return entries, nil
	}
	entries, err := g.leaderboard.TopSolicitors(ctx, metric, w, n)
	if err != nil {
		return nil, fmt.Errorf("top solicitors: %w", err)
	}
	return entries, nil
}

func (g *Generator) title(ctx context.Context, subject domain.Subject) (string, error) {
	switch subject.Kind {
	case domain.SubjectTeam:
		t, err := g.teams.GetByID(ctx, subject.ID)
		if err != nil {
			return "", fmt.Errorf("get team %s: %w", subject.ID, err)
		}
		return t.Name, nil
	default:
		s, err := g.solicitors.GetByID(ctx, subject.ID)
		if err != nil {
			return "", fmt.Errorf("get solicitor %s: %w", subject.ID, err)
		}
		return s.Name, nil
	}
}

// boardMetric picks the first metric leaderboards can rank (solicitor counters only).
func boardMetric(metrics []string) string {
	for _, m := range metrics {
		if m != domain.MetricTeamClicks {
			return m
		}
	}
	return domain.MetricBioClicks
}

func label(metric string) string {
	if l, ok := domain.MetricLabels[metric]; ok {
		return l
	}
	return metric
}

// LeaderboardRequest selects a standalone leaderboard report.
type LeaderboardRequest struct {
	Metric   string // empty selects bio clicks
	Selector period.Selector
	Today    calendar.DateKey
	TopN     int  // 0 selects leaderboard.DefaultSize
	Teams    bool // rank teams instead of solicitors
}

// GenerateLeaderboard ranks solicitors or teams over the selected window.
func (g *Generator) GenerateLeaderboard(ctx context.Context, req LeaderboardRequest) (*Report, error) {
	metric := req.Metric
	if metric == "" {
		metric = domain.MetricBioClicks
	}
	w, err := period.ResolveWindow(req.Selector, req.Today)
	if err != nil {
		return nil, err
	}

	title := "Top Solicitors"
	rank := g.leaderboard.TopSolicitors
	if req.Teams {
		title = "Top Teams"
		rank = g.leaderboard.TopTeams
	}
	entries, err := rank(ctx, metric, w, req.TopN)
	if err != nil {
		return nil, fmt.Errorf("rank %s: %w", strings.ToLower(title), err)
	}

	r := &Report{
		GeneratedAt:       g.now(),
		Title:             title,
		Selector:          req.Selector.String(),
		Ready:             w.Ready,
		Current:           w,
		LeaderboardMetric: metric,
	}
	for i, e := range entries {
		r.Leaderboard = append(r.Leaderboard, LeaderboardRow{Rank: i + 1, ID: e.ID, Name: e.Name, Clicks: e.Clicks})
	}
	return r, nil
}
