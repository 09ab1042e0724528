package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/events"
)

// eventList is the events page: upcoming soonest first, past most recent first.
type eventList struct {
	Upcoming []*domain.Event `json:"upcoming"`
	Past     []*domain.Event `json:"past"`
}

// handleListEvents handles GET /api/events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.d.Events.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	upcoming, past := events.Split(list, s.today())
	writeJSON(w, http.StatusOK, eventList{Upcoming: upcoming, Past: past})
}

// handleCreateEvent handles POST /api/events.
//
// Request body:
//
//	{
//	    "title": "Energy Webinar",
//	    "type": "Webinar",              // optional, defaults to "Event"
//	    "start_date": "2024-03-10",
//	    "end_date": "2024-03-11",       // optional, defaults to start_date
//	    "solicitor_ids": ["sol_001"],
//	    "team_ids": ["team_energy"]
//	}
//
// Response (201 Created): the event and link outcome. Link failures are
// reported in link_errors and do not fail the request.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in events.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	res, err := s.d.Events.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleEventImpact handles GET /api/events/{id}/impact.
func (s *Server) handleEventImpact(w http.ResponseWriter, r *http.Request) {
	impact, err := s.d.Events.Impact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, impact)
}
