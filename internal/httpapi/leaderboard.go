package httpapi

import (
	"context"
	"net/http"

	"engagement-dashboard/internal/leaderboard"
	"engagement-dashboard/internal/period"
)

// handleTopSolicitors handles GET /api/leaderboard/solicitors?metric=&n=&range=.
func (s *Server) handleTopSolicitors(w http.ResponseWriter, r *http.Request) {
	s.ranked(w, r, s.d.Leaderboard.TopSolicitors)
}

// handleTopTeams handles GET /api/leaderboard/teams?metric=&n=&range=.
func (s *Server) handleTopTeams(w http.ResponseWriter, r *http.Request) {
	s.ranked(w, r, s.d.Leaderboard.TopTeams)
}

type rankFunc = func(ctx context.Context, metric string, w period.Window, n int) ([]leaderboard.Entry, error)

func (s *Server) ranked(w http.ResponseWriter, r *http.Request, rank rankFunc) {
	metric, err := metricOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := intOf(r, "n", s.d.LeaderboardSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	win, err := s.windowOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := rank(r.Context(), metric, win, n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleTeamTree handles GET /api/leaderboard/tree?metric=&range=.
func (s *Server) handleTeamTree(w http.ResponseWriter, r *http.Request) {
	metric, err := metricOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	win, err := s.windowOf(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, err := s.d.Leaderboard.TeamTree(r.Context(), metric, win)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}
