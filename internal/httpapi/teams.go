package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/leaderboard"
	"engagement-dashboard/internal/storage"
)

// teamDetail is a team with its member solicitors.
type teamDetail struct {
	*domain.Team
	Members []*domain.Solicitor `json:"members"`
}

// handleListTeams handles GET /api/teams?type=service|sector.
func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	filter := domain.TeamType(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))))
	if filter != "" && filter != domain.TeamTypeService && filter != domain.TeamTypeSector {
		s.writeError(w, r, fmt.Errorf("unknown team type %q: %w", filter, storage.ErrInvalidInput))
		return
	}

	list, err := s.d.Teams.List(r.Context())
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list teams: %w", err))
		return
	}

	out := []*domain.Team{}
	for _, t := range list {
		if filter == "" || t.Type == filter {
			out = append(out, t)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetTeam handles GET /api/teams/{id}.
func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	t, err := s.d.Teams.GetByID(ctx, id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("get team %s: %w", id, err))
		return
	}
	ids, err := s.d.Teams.MemberIDs(ctx, id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("get members of %s: %w", id, err))
		return
	}

	detail := teamDetail{Team: t, Members: []*domain.Solicitor{}}
	for _, sid := range ids {
		sol, err := s.d.Solicitors.GetByID(ctx, sid)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("get solicitor %s: %w", sid, err))
			return
		}
		detail.Members = append(detail.Members, sol)
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleTeamEngagement handles GET /api/teams/{id}/engagement?range=&from=&to=&metrics=.
func (s *Server) handleTeamEngagement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.d.Teams.GetByID(r.Context(), id); err != nil {
		s.writeError(w, r, fmt.Errorf("get team %s: %w", id, err))
		return
	}
	s.compare(w, r, domain.TeamSubject(id))
}

// handleTeamTopMembers handles GET /api/teams/{id}/top-members?range=&n=.
// The response maps each solicitor metric to its ranked members.
func (s *Server) handleTeamTopMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := intOf(r, "n", leaderboard.DefaultTeamMembers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	win, err := s.windowOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make(map[string][]leaderboard.Entry, len(domain.SolicitorMetrics))
	for _, metric := range domain.SolicitorMetrics {
		entries, err := s.d.Leaderboard.TopTeamMembers(r.Context(), id, metric, win, n)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if entries == nil {
			entries = []leaderboard.Entry{}
		}
		out[metric] = entries
	}
	writeJSON(w, http.StatusOK, out)
}
