package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"engagement-dashboard/internal/config"
	"engagement-dashboard/internal/engagement"
	"engagement-dashboard/internal/events"
	"engagement-dashboard/internal/fixtures"
	"engagement-dashboard/internal/leaderboard"
	"engagement-dashboard/internal/observability"
	"engagement-dashboard/internal/timeline"
)

// 2024-03-15 in London.
var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

var testAuth = config.BasicAuth{User: "admin", Password: "secret"}

type testServer struct {
	handler http.Handler
	metrics *observability.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())

	stores := fixtures.NewMemoryStores()
	require.NoError(t, fixtures.Load(context.Background(), stores, "2024-03-15"))

	provider := engagement.NewStoreProvider(stores.Stats, stores.Solicitors, stores.Teams)
	srv := New(Deps{
		Solicitors:  stores.Solicitors,
		Teams:       stores.Teams,
		Engagement:  engagement.NewService(provider, logger, engagement.WithMetrics(metrics)),
		Summaries:   provider,
		Leaderboard: leaderboard.NewService(stores.Solicitors, stores.Teams, stores.Stats),
		Timeline:    timeline.NewService(stores.Stats, stores.Mentions),
		Events: events.NewService(stores.Events, stores.Solicitors, stores.Stats, logger,
			events.WithClock(func() time.Time { return fixedNow }),
			events.WithMetrics(metrics),
		),
		Metrics: metrics,
		Logger:  logger,
		Auth:    testAuth,
		Now:     func() time.Time { return fixedNow },
	})
	return &testServer{handler: srv.Routes(), metrics: metrics}
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.SetBasicAuth(testAuth.User, testAuth.Password)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v), rec.Body.String())
}

func TestHealth_NoAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("GET", "/health", "200")))
}

func TestBasicAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/solicitors", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="Secure Area"`, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/api/solicitors", nil)
	req.SetBasicAuth("admin", "wrong")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/solicitors", "").Code)
}

func TestBasicAuth_Disabled(t *testing.T) {
	called := false
	h := basicAuth(config.BasicAuth{}, zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/teams", nil))
	assert.True(t, called)
}

func TestSolicitors(t *testing.T) {
	ts := newTestServer(t)

	var list []map[string]any
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors", ""), &list)
	assert.Len(t, list, len(fixtures.Solicitors))

	var found []map[string]any
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors?q=hart", ""), &found)
	require.Len(t, found, 1)
	assert.Equal(t, "sol_001", found[0]["id"])

	var detail struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Teams []struct {
			ID string `json:"id"`
		} `json:"teams"`
	}
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors/sol_004", ""), &detail)
	assert.Equal(t, "David Reyes", detail.Name)
	assert.Len(t, detail.Teams, 2)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/solicitors/nobody", "").Code)
}

type directoryRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Clicks30d int64  `json:"clicks_30d"`
}

func TestSolicitors_Directory(t *testing.T) {
	ts := newTestServer(t)

	var rows []directoryRow
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors", ""), &rows)
	require.Len(t, rows, len(fixtures.Solicitors))
	assert.Equal(t, "sol_001", rows[0].ID)
	assert.Positive(t, rows[0].Clicks30d)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].Clicks30d, rows[i].Clicks30d, "most viewed first")
	}

	var byName []directoryRow
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors?sort=name", ""), &byName)
	require.Len(t, byName, len(rows))
	for i := 1; i < len(byName); i++ {
		assert.LessOrEqual(t, byName[i-1].Name, byName[i].Name)
	}

	var energy []directoryRow
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors?team=team_energy&sort=name", ""), &energy)
	require.Len(t, energy, 2)
	ids := []string{energy[0].ID, energy[1].ID}
	assert.ElementsMatch(t, []string{"sol_004", "sol_005"}, ids)

	var none []directoryRow
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors?team=team_energy&q=hart", ""), &none)
	assert.Empty(t, none)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/solicitors?team=nope", "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/solicitors?sort=newest", "").Code)
}

func TestSolicitorDetail_TeamStats(t *testing.T) {
	ts := newTestServer(t)

	var rows []directoryRow
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors", ""), &rows)
	views := make(map[string]int64, len(rows))
	for _, r := range rows {
		views[r.ID] = r.Clicks30d
	}

	var detail struct {
		TeamStats []leaderboard.Entry `json:"team_stats"`
	}
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors/sol_004", ""), &detail)
	require.Len(t, detail.TeamStats, 2)

	want := map[string]int64{
		"team_lit":    views["sol_003"] + views["sol_004"],
		"team_energy": views["sol_004"] + views["sol_005"],
	}
	for _, e := range detail.TeamStats {
		assert.Equal(t, want[e.ID], e.Clicks, e.ID)
	}
	assert.GreaterOrEqual(t, detail.TeamStats[0].Clicks, detail.TeamStats[1].Clicks)

	var loner struct {
		TeamStats []leaderboard.Entry `json:"team_stats"`
	}
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors/sol_006", ""), &loner)
	assert.NotNil(t, loner.TeamStats)
	assert.Empty(t, loner.TeamStats)
}

func TestSolicitorMentions(t *testing.T) {
	ts := newTestServer(t)

	var mentions []timeline.MentionImpact
	rec := ts.do(t, http.MethodGet, "/api/solicitors/sol_001/mentions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &mentions)
	require.Len(t, mentions, 3)

	assert.Equal(t, "men_001", mentions[0].ID)
	assert.Equal(t, "2024-03-12", mentions[0].Date.String())
	assert.Equal(t, int64(40), mentions[0].ImpactScore)
	assert.Equal(t, "Legal Week", mentions[0].Source)
	assert.Equal(t, "men_002", mentions[1].ID)
	assert.Equal(t, "men_003", mentions[2].ID)
	assert.Equal(t, "2024-02-14", mentions[2].Date.String())
	for _, m := range mentions {
		assert.InDelta(t, m.PostAvg-m.PriorAvg, m.Uplift, 0.11)
	}

	var empty []timeline.MentionImpact
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors/sol_006/mentions", ""), &empty)
	assert.Empty(t, empty)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/solicitors/nobody/mentions", "").Code)
}

func TestSolicitorEngagement(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/solicitors/sol_001/engagement?range=30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cmp struct {
		Ready   bool `json:"ready"`
		Current struct {
			Start      string `json:"start"`
			End        string `json:"end"`
			LengthDays int    `json:"length_days"`
		} `json:"current"`
		Previous struct {
			End string `json:"end"`
		} `json:"previous"`
		Metrics      []string                  `json:"metrics"`
		Deltas       map[string]map[string]any `json:"deltas"`
		RequestToken string                    `json:"request_token"`
	}
	decode(t, rec, &cmp)
	assert.True(t, cmp.Ready)
	assert.Equal(t, "2024-02-15", cmp.Current.Start)
	assert.Equal(t, "2024-03-15", cmp.Current.End)
	assert.Equal(t, 30, cmp.Current.LengthDays)
	assert.Equal(t, "2024-02-14", cmp.Previous.End)
	assert.Equal(t, []string{"bio_clicks", "update_clicks", "news_clicks"}, cmp.Metrics)
	assert.Contains(t, cmp.Deltas, "bio_clicks")
	assert.NotEmpty(t, cmp.RequestToken)
}

func TestSolicitorEngagement_Selectors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
		ready  bool
	}{
		{"default window", "", http.StatusOK, true},
		{"year to date", "?range=ytd", http.StatusOK, true},
		{"custom missing end", "?range=custom&from=2024-03-01", http.StatusOK, false},
		{"custom impossible date", "?range=custom&from=2024-02-30&to=2024-03-01", http.StatusOK, false},
		{"custom inverted", "?range=custom&from=2024-03-10&to=2024-03-01", http.StatusBadRequest, false},
		{"unknown metric", "?metrics=likes", http.StatusBadRequest, false},
		{"subset of metrics", "?metrics=news_clicks", http.StatusOK, true},
		{"span before year zero", "?range=1000000", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/solicitors/sol_002/engagement"+tt.query, "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			var body struct {
				Ready bool `json:"ready"`
			}
			decode(t, rec, &body)
			assert.Equal(t, tt.ready, body.Ready)
		})
	}
}

func TestSolicitorSummary(t *testing.T) {
	ts := newTestServer(t)

	var sum engagement.Summary
	rec := ts.do(t, http.MethodGet, "/api/solicitors/sol_006/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sum)
	assert.Equal(t, int64(2), sum.Today)
	assert.GreaterOrEqual(t, sum.Last30Days, sum.Last7Days)
	assert.GreaterOrEqual(t, sum.Last7Days, sum.Today)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/solicitors/nobody/summary", "").Code)
}

func TestSolicitorTimeline(t *testing.T) {
	ts := newTestServer(t)

	var points []timeline.Point
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors/sol_001/timeline", ""), &points)
	require.NotEmpty(t, points)
	assert.Equal(t, "2024-01-01", points[0].Date.String())

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/solicitors/sol_001/timeline?metric=likes", "").Code)
}

func TestMentionsImpact(t *testing.T) {
	ts := newTestServer(t)

	var points []timeline.ImpactPoint
	decode(t, ts.do(t, http.MethodGet, "/api/solicitors/sol_001/mentions-impact?months=1", ""), &points)
	require.NotEmpty(t, points)
	assert.Equal(t, "2024-02-15", points[0].Date.String())
	assert.Equal(t, "2024-03-15", points[len(points)-1].Date.String())

	var scored int
	for _, p := range points {
		if p.ImpactScore != nil {
			scored++
			if p.Date == "2024-03-12" {
				assert.Equal(t, int64(55), *p.ImpactScore)
			}
		}
	}
	assert.Equal(t, 1, scored, "only the 2024-03-12 mentions fall inside one month")

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/solicitors/sol_001/mentions-impact?months=-1", "").Code)
}

func TestTeams(t *testing.T) {
	ts := newTestServer(t)

	var sectors []map[string]any
	decode(t, ts.do(t, http.MethodGet, "/api/teams?type=sector", ""), &sectors)
	require.Len(t, sectors, 1)
	assert.Equal(t, "Energy", sectors[0]["name"])

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/teams?type=regional", "").Code)

	var detail struct {
		Name    string           `json:"name"`
		Members []map[string]any `json:"members"`
	}
	decode(t, ts.do(t, http.MethodGet, "/api/teams/team_corp", ""), &detail)
	assert.Equal(t, "Corporate", detail.Name)
	assert.Len(t, detail.Members, 2)

	rec := ts.do(t, http.MethodGet, "/api/teams/team_corp/engagement?range=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cmp struct {
		Metrics []string `json:"metrics"`
	}
	decode(t, rec, &cmp)
	assert.Equal(t, []string{"team_clicks", "bio_clicks", "update_clicks", "news_clicks"}, cmp.Metrics)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/teams/nope/engagement", "").Code)
}

func TestTeamTopMembers(t *testing.T) {
	ts := newTestServer(t)

	var top map[string][]leaderboard.Entry
	rec := ts.do(t, http.MethodGet, "/api/teams/team_lit/top-members", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &top)
	assert.Len(t, top, 3)
	assert.LessOrEqual(t, len(top["bio_clicks"]), leaderboard.DefaultTeamMembers)
	assert.Equal(t, "sol_003", top["bio_clicks"][0].ID)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/teams/nope/top-members", "").Code)
}

func TestLeaderboard(t *testing.T) {
	ts := newTestServer(t)

	var top []leaderboard.Entry
	decode(t, ts.do(t, http.MethodGet, "/api/leaderboard/solicitors?n=2", ""), &top)
	require.Len(t, top, 2)
	assert.Equal(t, "sol_001", top[0].ID)
	assert.GreaterOrEqual(t, top[0].Clicks, top[1].Clicks)

	var teams []leaderboard.Entry
	decode(t, ts.do(t, http.MethodGet, "/api/leaderboard/teams", ""), &teams)
	assert.Len(t, teams, len(fixtures.Teams))

	var tree leaderboard.Node
	decode(t, ts.do(t, http.MethodGet, "/api/leaderboard/tree?metric=news_clicks", ""), &tree)
	assert.Equal(t, "Teams", tree.Name)
	assert.NotEmpty(t, tree.Children)

	for _, q := range []string{"?metric=likes", "?n=0", "?range=custom&from=2024-03-01"} {
		assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/leaderboard/solicitors"+q, "").Code, q)
	}
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t)

	var list struct {
		Upcoming []map[string]any `json:"upcoming"`
		Past     []map[string]any `json:"past"`
	}
	decode(t, ts.do(t, http.MethodGet, "/api/events", ""), &list)
	require.Len(t, list.Upcoming, 1)
	require.Len(t, list.Past, 2)
	assert.Equal(t, "evt_002", list.Past[0]["id"], "past events are most recent first")

	rec := ts.do(t, http.MethodPost, "/api/events", `{"title":"Launch","start_date":"2024-03-01","solicitor_ids":["sol_002"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created events.CreateResult
	decode(t, rec, &created)
	assert.Equal(t, "Event", created.Event.Type)
	assert.Equal(t, 1, created.SolicitorsLinked)
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.EventsCreated))

	var impact events.Impact
	rec = ts.do(t, http.MethodGet, "/api/events/"+created.Event.ID+"/impact", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &impact)
	require.Len(t, impact.Rows, 1)
	assert.Equal(t, "sol_002", impact.Rows[0].SolicitorID)
	assert.Equal(t, "2024-02-23", impact.BeforeStart.String())
}

func TestEvents_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"bad json", `{"title":`, http.StatusBadRequest},
		{"missing title", `{"start_date":"2024-03-01"}`, http.StatusBadRequest},
		{"bad date", `{"title":"x","start_date":"01/03/2024"}`, http.StatusBadRequest},
		{"end before start", `{"title":"x","start_date":"2024-03-05","end_date":"2024-03-01"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, ts.do(t, http.MethodPost, "/api/events", tt.body).Code)
		})
	}

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/events/nope/impact", "").Code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
	assert.Equal(t, http.StatusGatewayTimeout, statusOf(context.DeadlineExceeded))
}
