// Package httpapi exposes the dashboard over JSON HTTP endpoints.
//
// Routes:
//   - GET  /health, GET /metrics (no auth)
//   - GET  /api/solicitors, /api/solicitors/{id}, /api/solicitors/{id}/engagement,
//     /api/solicitors/{id}/summary, /api/solicitors/{id}/timeline,
//     /api/solicitors/{id}/mentions-impact, /api/solicitors/{id}/mentions
//   - GET  /api/teams, /api/teams/{id}, /api/teams/{id}/engagement, /api/teams/{id}/top-members
//   - GET  /api/leaderboard/solicitors, /api/leaderboard/teams, /api/leaderboard/tree
//   - GET  /api/events, POST /api/events, GET /api/events/{id}/impact
//
// Everything except /health and /metrics sits behind basic auth when credentials are configured.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/config"
	"engagement-dashboard/internal/engagement"
	"engagement-dashboard/internal/events"
	"engagement-dashboard/internal/leaderboard"
	"engagement-dashboard/internal/observability"
	"engagement-dashboard/internal/storage"
	"engagement-dashboard/internal/timeline"
)

// Deps are the collaborators of a Server.
type Deps struct {
	Solicitors storage.SolicitorStore
	Teams      storage.TeamStore

	Engagement  *engagement.Service
	Summaries   *engagement.StoreProvider
	Leaderboard *leaderboard.Service
	Timeline    *timeline.Service
	Events      *events.Service

	Metrics *observability.Metrics
	Logger  *zap.Logger

	Auth            config.BasicAuth
	DefaultMetrics  []string // empty: per subject kind
	LeaderboardSize int

	Now      func() time.Time // defaults to time.Now
	Location *time.Location   // decides "today"; defaults to UTC
}

// Server serves the dashboard API.
type Server struct {
	d      Deps
	logger *zap.Logger
}

// New creates a new Server.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = observability.DefaultMetrics
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.LeaderboardSize <= 0 {
		d.LeaderboardSize = leaderboard.DefaultSize
	}
	return &Server{d: d, logger: d.Logger.Named("http")}
}

// today returns the current calendar day in the configured zone.
func (s *Server) today() calendar.DateKey {
	return calendar.Today(s.d.Now(), s.d.Location)
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", observability.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(basicAuth(s.d.Auth, s.logger))

		r.Route("/solicitors", func(r chi.Router) {
			r.Get("/", s.handleListSolicitors)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSolicitor)
				r.Get("/engagement", s.handleSolicitorEngagement)
				r.Get("/summary", s.handleSolicitorSummary)
				r.Get("/timeline", s.handleSolicitorTimeline)
				r.Get("/mentions-impact", s.handleMentionsImpact)
				r.Get("/mentions", s.handleSolicitorMentions)
			})
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", s.handleListTeams)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTeam)
				r.Get("/engagement", s.handleTeamEngagement)
				r.Get("/top-members", s.handleTeamTopMembers)
			})
		})

		r.Route("/leaderboard", func(r chi.Router) {
			r.Get("/solicitors", s.handleTopSolicitors)
			r.Get("/teams", s.handleTopTeams)
			r.Get("/tree", s.handleTeamTree)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleListEvents)
			r.Post("/", s.handleCreateEvent)
			r.Get("/{id}/impact", s.handleEventImpact)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
