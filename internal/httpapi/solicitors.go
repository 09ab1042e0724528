package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/leaderboard"
	"engagement-dashboard/internal/period"
	"engagement-dashboard/internal/storage"
	"engagement-dashboard/internal/timeline"
)

// popularityDays is the window of the directory's view counts and of the
// team stats on a solicitor page.
const popularityDays = 30

// solicitorRow is a directory entry with its bio views over the last 30 days.
type solicitorRow struct {
	*domain.Solicitor
	Clicks30d int64 `json:"clicks_30d"`
}

// solicitorDetail is a solicitor with the teams they belong to and each
// team's clicks over the last 30 days.
type solicitorDetail struct {
	*domain.Solicitor
	Teams     []*domain.Team      `json:"teams"`
	TeamStats []leaderboard.Entry `json:"team_stats"`
}

// handleListSolicitors handles GET /api/solicitors?q=&team=&sort=.
// sort is popularity (default, most viewed first) or name.
func (s *Server) handleListSolicitors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	order := strings.TrimSpace(q.Get("sort"))
	if order != "" && order != "popularity" && order != "name" {
		s.writeError(w, r, fmt.Errorf("sort %q: %w", order, storage.ErrInvalidInput))
		return
	}

	var (
		list []*domain.Solicitor
		err  error
	)
	if search := strings.TrimSpace(q.Get("q")); search != "" {
		list, err = s.d.Solicitors.Search(ctx, search)
	} else {
		list, err = s.d.Solicitors.List(ctx)
	}
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list solicitors: %w", err))
		return
	}

	if teamID := strings.TrimSpace(q.Get("team")); teamID != "" {
		list, err = s.membersOnly(r, teamID, list)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	window, err := period.ResolveWindow(period.Fixed(popularityDays), s.today())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	clicks, err := s.d.Leaderboard.SolicitorClicks(ctx, domain.MetricBioClicks, window)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rows := make([]solicitorRow, 0, len(list))
	for _, sol := range list {
		rows = append(rows, solicitorRow{Solicitor: sol, Clicks30d: clicks[sol.ID]})
	}
	if order != "name" {
		// Stores return name order, which the stable sort keeps for ties.
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Clicks30d > rows[j].Clicks30d })
	}
	writeJSON(w, http.StatusOK, rows)
}

// membersOnly keeps the solicitors of list who belong to teamID.
func (s *Server) membersOnly(r *http.Request, teamID string, list []*domain.Solicitor) ([]*domain.Solicitor, error) {
	if _, err := s.d.Teams.GetByID(r.Context(), teamID); err != nil {
		return nil, fmt.Errorf("get team %s: %w", teamID, err)
	}
	ids, err := s.d.Teams.MemberIDs(r.Context(), teamID)
	if err != nil {
		return nil, fmt.Errorf("get members of %s: %w", teamID, err)
	}
	members := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}

	kept := list[:0:0]
	for _, sol := range list {
		if _, ok := members[sol.ID]; ok {
			kept = append(kept, sol)
		}
	}
	return kept, nil
}

// handleGetSolicitor handles GET /api/solicitors/{id}.
func (s *Server) handleGetSolicitor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	sol, err := s.d.Solicitors.GetByID(ctx, id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("get solicitor %s: %w", id, err))
		return
	}

	teamIDs, err := s.d.Teams.TeamIDsForSolicitor(ctx, id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("get teams of %s: %w", id, err))
		return
	}
	detail := solicitorDetail{Solicitor: sol, Teams: []*domain.Team{}}
	for _, tid := range teamIDs {
		t, err := s.d.Teams.GetByID(ctx, tid)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("get team %s: %w", tid, err))
			return
		}
		detail.Teams = append(detail.Teams, t)
	}

	window, err := period.ResolveWindow(period.Fixed(popularityDays), s.today())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail.TeamStats, err = s.d.Leaderboard.TeamsOf(ctx, id, domain.MetricBioClicks, window)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// handleSolicitorEngagement handles GET /api/solicitors/{id}/engagement?range=&from=&to=&metrics=.
func (s *Server) handleSolicitorEngagement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.d.Solicitors.GetByID(r.Context(), id); err != nil {
		s.writeError(w, r, fmt.Errorf("get solicitor %s: %w", id, err))
		return
	}
	s.compare(w, r, domain.SolicitorSubject(id))
}

// compare writes the period comparison of subject.
func (s *Server) compare(w http.ResponseWriter, r *http.Request, subject domain.Subject) {
	metrics, err := s.metricsOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cmp, err := s.d.Engagement.Compare(r.Context(), subject, selectorOf(r), s.today(), metrics)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// handleSolicitorSummary handles GET /api/solicitors/{id}/summary.
func (s *Server) handleSolicitorSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.d.Summaries.Summarize(r.Context(), chi.URLParam(r, "id"), s.today())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// handleSolicitorTimeline handles GET /api/solicitors/{id}/timeline?metric=.
// The series covers the current calendar year.
func (s *Server) handleSolicitorTimeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.d.Solicitors.GetByID(r.Context(), id); err != nil {
		s.writeError(w, r, fmt.Errorf("get solicitor %s: %w", id, err))
		return
	}
	metric, err := metricOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	points, err := s.d.Timeline.Year(r.Context(), domain.SolicitorSubject(id), metric, s.today())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// handleMentionsImpact handles GET /api/solicitors/{id}/mentions-impact?months=.
func (s *Server) handleMentionsImpact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.d.Solicitors.GetByID(r.Context(), id); err != nil {
		s.writeError(w, r, fmt.Errorf("get solicitor %s: %w", id, err))
		return
	}
	months, err := intOf(r, "months", timeline.DefaultImpactMonths)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	points, err := s.d.Timeline.MentionsImpact(r.Context(), id, s.today(), months)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// handleSolicitorMentions handles GET /api/solicitors/{id}/mentions: press
// mentions of the last 90 days with bio views before and after each one.
func (s *Server) handleSolicitorMentions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.d.Solicitors.GetByID(r.Context(), id); err != nil {
		s.writeError(w, r, fmt.Errorf("get solicitor %s: %w", id, err))
		return
	}

	mentions, err := s.d.Timeline.Mentions(r.Context(), id, s.today())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mentions)
}
