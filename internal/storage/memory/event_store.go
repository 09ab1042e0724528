package memory

import (
	"context"
	"sort"
	"sync"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu         sync.RWMutex
	data       map[string]*domain.Event       // keyed by id
	solicitors map[string]map[string]struct{} // event_id -> solicitor ids
	teams      map[string]map[string]struct{} // event_id -> team ids
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		data:       make(map[string]*domain.Event),
		solicitors: make(map[string]map[string]struct{}),
		teams:      make(map[string]map[string]struct{}),
	}
}

// Insert adds a new event. Returns ErrDuplicateKey if id exists.
func (s *EventStore) Insert(_ context.Context, e *domain.Event) error {
	if e == nil || e.ID == "" || e.Title == "" || e.StartDate == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.ID]; exists {
		return storage.ErrDuplicateKey
	}

	eventCopy := *e
	s.data[e.ID] = &eventCopy
	return nil
}

// GetByID retrieves an event by ID. Returns ErrNotFound if not exists.
func (s *EventStore) GetByID(_ context.Context, id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	eventCopy := *e
	return &eventCopy, nil
}

// List retrieves all events ordered by start_date ASC, id ASC.
func (s *EventStore) List(_ context.Context) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Event, 0, len(s.data))
	for _, e := range s.data {
		eventCopy := *e
		result = append(result, &eventCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartDate != result[j].StartDate {
			return result[i].StartDate < result[j].StartDate
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// LinkSolicitors links solicitors to an event atomically.
func (s *EventStore) LinkSolicitors(_ context.Context, eventID string, solicitorIDs []string) error {
	return s.link(s.solicitors, eventID, solicitorIDs)
}

// LinkTeams links teams to an event atomically.
func (s *EventStore) LinkTeams(_ context.Context, eventID string, teamIDs []string) error {
	return s.link(s.teams, eventID, teamIDs)
}

// SolicitorIDs retrieves solicitor IDs linked to an event ordered ASC.
func (s *EventStore) SolicitorIDs(_ context.Context, eventID string) ([]string, error) {
	return s.linked(s.solicitors, eventID), nil
}

// TeamIDs retrieves team IDs linked to an event ordered ASC.
func (s *EventStore) TeamIDs(_ context.Context, eventID string) ([]string, error) {
	return s.linked(s.teams, eventID), nil
}

func (s *EventStore) link(links map[string]map[string]struct{}, eventID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[eventID]; !exists {
		return storage.ErrNotFound
	}

	// Validate the whole batch before writing anything.
	existing := links[eventID]
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[id]; dup {
			return storage.ErrDuplicateKey
		}
		if _, dup := existing[id]; dup {
			return storage.ErrDuplicateKey
		}
		seen[id] = struct{}{}
	}

	if existing == nil {
		existing = make(map[string]struct{}, len(ids))
		links[eventID] = existing
	}
	for id := range seen {
		existing[id] = struct{}{}
	}
	return nil
}

func (s *EventStore) linked(links map[string]map[string]struct{}, eventID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id := range links[eventID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Verify interface compliance at compile time.
var _ storage.EventStore = (*EventStore)(nil)
