package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/engagement"
	"engagement-dashboard/internal/leaderboard"
	"engagement-dashboard/internal/period"
	"engagement-dashboard/internal/storage"
	"engagement-dashboard/internal/storage/memory"
)

var fixedTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	ctx := context.Background()

	solicitors := memory.NewSolicitorStore()
	teams := memory.NewTeamStore()
	stats := memory.NewDailyStatStore()

	require.NoError(t, solicitors.Insert(ctx, &domain.Solicitor{ID: "s1", Name: "Alice"}))
	require.NoError(t, solicitors.Insert(ctx, &domain.Solicitor{ID: "s2", Name: "Bob"}))
	require.NoError(t, teams.Insert(ctx, &domain.Team{ID: "t1", Name: "Corporate"}))
	require.NoError(t, teams.AddMember(ctx, domain.Membership{SolicitorID: "s1", TeamID: "t1"}))
	require.NoError(t, teams.AddMember(ctx, domain.Membership{SolicitorID: "s2", TeamID: "t1"}))

	row := func(id string, date calendar.DateKey, metric string, clicks int64) *domain.DailyStat {
		return &domain.DailyStat{SubjectKind: domain.SubjectSolicitor, SubjectID: id, Date: date, Metric: metric, Clicks: clicks}
	}
	require.NoError(t, stats.InsertBulk(ctx, []*domain.DailyStat{
		// current window 2024-03-14..15
		row("s1", "2024-03-14", domain.MetricBioClicks, 3),
		row("s1", "2024-03-15", domain.MetricBioClicks, 4),
		row("s2", "2024-03-15", domain.MetricBioClicks, 2),
		// previous window 2024-03-12..13
		row("s1", "2024-03-12", domain.MetricBioClicks, 5),
		row("s1", "2024-03-13", domain.MetricNewsClicks, 2),
	}))

	provider := engagement.NewStoreProvider(stats, solicitors, teams)
	return NewGenerator(
		engagement.NewService(provider, zap.NewNop()),
		leaderboard.NewService(solicitors, teams, stats),
		stats, solicitors, teams,
	).WithClock(func() time.Time { return fixedTime })
}

func TestGenerate_Solicitor(t *testing.T) {
	g := newTestGenerator(t)

	r, err := g.Generate(context.Background(), Request{
		Subject:  domain.SolicitorSubject("s1"),
		Selector: period.Fixed(2),
		Today:    "2024-03-15",
		TopN:     5,
	})
	require.NoError(t, err)

	assert.Equal(t, fixedTime, r.GeneratedAt)
	assert.Equal(t, "Alice", r.Title)
	assert.True(t, r.Ready)
	assert.Equal(t, calendar.DateKey("2024-03-12"), r.Previous.Start)

	require.Len(t, r.Comparison, 3)
	bio := r.Comparison[0]
	assert.Equal(t, domain.MetricBioClicks, bio.Metric)
	assert.Equal(t, "Bio Views", bio.Label)
	assert.Equal(t, int64(7), *bio.Current)
	assert.Equal(t, int64(5), *bio.Previous)
	assert.Equal(t, int64(2), *bio.Diff)
	assert.Equal(t, period.DirectionUp, bio.Direction)

	news := r.Comparison[2]
	assert.Equal(t, period.DirectionDown, news.Direction)

	assert.Equal(t, []SeriesPoint{{Date: "2024-03-14", Value: 3}, {Date: "2024-03-15", Value: 4}}, r.Series)

	assert.Equal(t, domain.MetricBioClicks, r.LeaderboardMetric)
	assert.Equal(t, []LeaderboardRow{
		{Rank: 1, ID: "s1", Name: "Alice", Clicks: 7},
		{Rank: 2, ID: "s2", Name: "Bob", Clicks: 2},
	}, r.Leaderboard)
}

func TestGenerate_Team(t *testing.T) {
	g := newTestGenerator(t)

	r, err := g.Generate(context.Background(), Request{
		Subject:  domain.TeamSubject("t1"),
		Selector: period.Fixed(2),
		Today:    "2024-03-15",
		TopN:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, "Corporate", r.Title)
	require.Len(t, r.Comparison, 4)
	assert.Equal(t, domain.MetricTeamClicks, r.Comparison[0].Metric)
	assert.Equal(t, domain.MetricBioClicks, r.LeaderboardMetric)
	assert.Equal(t, []LeaderboardRow{{Rank: 1, ID: "s1", Name: "Alice", Clicks: 7}}, r.Leaderboard)
}

func TestGenerate_NotReady(t *testing.T) {
	g := newTestGenerator(t)

	from := "2024-03-01"
	r, err := g.Generate(context.Background(), Request{
		Subject:  domain.SolicitorSubject("s1"),
		Selector: period.Custom(&from, nil),
		Today:    "2024-03-15",
		TopN:     5,
	})
	require.NoError(t, err)
	assert.False(t, r.Ready)
	assert.Empty(t, r.Series)
	assert.Empty(t, r.Leaderboard)

	md := RenderMarkdown(r)
	assert.Contains(t, md, "Select a complete date range")
}

func TestGenerate_UnknownSubject(t *testing.T) {
	g := newTestGenerator(t)

	_, err := g.Generate(context.Background(), Request{
		Subject:  domain.SolicitorSubject("nobody"),
		Selector: period.Fixed(30),
		Today:    "2024-03-15",
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRenderMarkdown(t *testing.T) {
	g := newTestGenerator(t)
	r, err := g.Generate(context.Background(), Request{
		Subject:  domain.SolicitorSubject("s1"),
		Selector: period.Fixed(2),
		Today:    "2024-03-15",
		TopN:     5,
	})
	require.NoError(t, err)

	md := RenderMarkdown(r)
	assert.Contains(t, md, "# Engagement Report: Alice")
	assert.Contains(t, md, "Generated: 2024-03-15T12:00:00Z")
	assert.Contains(t, md, "| Bio Views | 7 | 5 | ↑ 2 |")
	assert.Contains(t, md, "| Legal Update Views | 0 | 0 | 0 |")
	assert.Contains(t, md, "| News Views | 0 | 2 | ↓ 2 |")
	assert.Contains(t, md, "| 1 | Alice | 7 |")
	assert.Contains(t, md, "## Daily Bio Views")
}

func TestRenderMarkdown_Unavailable(t *testing.T) {
	r := &Report{
		GeneratedAt: fixedTime,
		Title:       "Alice",
		Selector:    "30",
		Ready:       true,
		Current:     period.Window{Ready: true, Start: "2024-02-15", End: "2024-03-15", LengthDays: 30},
		Previous:    period.Window{Ready: true, Start: "2024-01-16", End: "2024-02-14", LengthDays: 30},
		Comparison:  []ComparisonRow{{Metric: domain.MetricBioClicks, Label: "Bio Views", Current: ptr(3)}},
		Unavailable: []string{"previous"},
	}

	md := RenderMarkdown(r)
	assert.Contains(t, md, "| Bio Views | 3 | – | – |")
	assert.Contains(t, md, "Data unavailable for: previous")
}

func TestRenderCSV(t *testing.T) {
	r := &Report{
		Current:  period.Window{Ready: true, Start: "2024-03-14", End: "2024-03-15", LengthDays: 2},
		Previous: period.Window{Ready: true, Start: "2024-03-12", End: "2024-03-13", LengthDays: 2},
		Comparison: []ComparisonRow{
			{Metric: domain.MetricBioClicks, Current: ptr(7), Previous: ptr(5), Diff: ptr(2), Direction: period.DirectionUp},
			{Metric: domain.MetricNewsClicks, Current: ptr(1)},
		},
	}

	out, err := RenderCSV(r)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "metric,current_start,current_end,current,previous_start,previous_end,previous,diff,direction", lines[0])
	assert.Equal(t, "bio_clicks,2024-03-14,2024-03-15,7,2024-03-12,2024-03-13,5,2,up", lines[1])
	assert.Equal(t, "news_clicks,2024-03-14,2024-03-15,1,2024-03-12,2024-03-13,,,", lines[2])
}

func TestRenderLeaderboardCSV(t *testing.T) {
	r := &Report{
		LeaderboardMetric: domain.MetricBioClicks,
		Leaderboard:       []LeaderboardRow{{Rank: 1, ID: "s1", Name: "Hart, Amelia", Clicks: 7}},
	}

	out, err := RenderLeaderboardCSV(r)
	require.NoError(t, err)
	assert.Equal(t, "rank,id,name,metric,clicks\n1,s1,\"Hart, Amelia\",bio_clicks,7\n", out)
}

func TestRenderChart(t *testing.T) {
	assert.Equal(t, "No data available", RenderChart(nil, 60, 10, ""))

	out := RenderChart([]SeriesPoint{{Date: "2024-03-14", Value: 1}, {Date: "2024-03-15", Value: 9}}, 5, 1, "Bio Views")
	assert.Contains(t, out, "Bio Views")
	assert.GreaterOrEqual(t, len(strings.Split(out, "\n")), 3)
}

func ptr(v int64) *int64 {
	return &v
}

func TestGenerateLeaderboard(t *testing.T) {
	g := newTestGenerator(t)
	ctx := context.Background()

	r, err := g.GenerateLeaderboard(ctx, LeaderboardRequest{Selector: period.Fixed(2), Today: "2024-03-15"})
	require.NoError(t, err)
	assert.Equal(t, "Top Solicitors", r.Title)
	assert.Equal(t, domain.MetricBioClicks, r.LeaderboardMetric)
	assert.Len(t, r.Leaderboard, 2)

	md := RenderLeaderboardMarkdown(r)
	assert.Contains(t, md, "# Top Solicitors by Bio Views")
	assert.Contains(t, md, "Period: 2024-03-14 to 2024-03-15 (2 days)")
	assert.Contains(t, md, "| 2 | Bob | 2 |")

	teams, err := g.GenerateLeaderboard(ctx, LeaderboardRequest{Selector: period.Fixed(2), Today: "2024-03-15", Teams: true})
	require.NoError(t, err)
	assert.Equal(t, []LeaderboardRow{{Rank: 1, ID: "t1", Name: "Corporate", Clicks: 9}}, teams.Leaderboard)

	_, err = g.GenerateLeaderboard(ctx, LeaderboardRequest{Metric: "likes", Selector: period.Fixed(2), Today: "2024-03-15"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	empty, err := g.GenerateLeaderboard(ctx, LeaderboardRequest{Selector: period.Fixed(2), Today: "2023-01-02"})
	require.NoError(t, err)
	assert.Contains(t, RenderLeaderboardMarkdown(empty), "No clicks recorded")
}
