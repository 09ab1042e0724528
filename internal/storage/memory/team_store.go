package memory

import (
	"context"
	"sort"
	"sync"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// TeamStore is an in-memory implementation of storage.TeamStore.
type TeamStore struct {
	mu      sync.RWMutex
	data    map[string]*domain.Team // keyed by id
	members map[domain.Membership]struct{}
}

// NewTeamStore creates a new in-memory team store.
func NewTeamStore() *TeamStore {
	return &TeamStore{
		data:    make(map[string]*domain.Team),
		members: make(map[domain.Membership]struct{}),
	}
}

// Insert adds a new team. Returns ErrDuplicateKey if id exists.
func (s *TeamStore) Insert(_ context.Context, t *domain.Team) error {
	if t == nil || t.ID == "" || t.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	teamCopy := *t
	s.data[t.ID] = &teamCopy
	return nil
}

// GetByID retrieves a team by ID. Returns ErrNotFound if not exists.
func (s *TeamStore) GetByID(_ context.Context, id string) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	teamCopy := *t
	return &teamCopy, nil
}

// List retrieves all teams ordered by name ASC.
func (s *TeamStore) List(_ context.Context) ([]*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Team, 0, len(s.data))
	for _, t := range s.data {
		teamCopy := *t
		result = append(result, &teamCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// AddMember links a solicitor to a team. Returns ErrDuplicateKey if already linked.
func (s *TeamStore) AddMember(_ context.Context, m domain.Membership) error {
	if m.SolicitorID == "" || m.TeamID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[m.TeamID]; !exists {
		return storage.ErrNotFound
	}
	if _, exists := s.members[m]; exists {
		return storage.ErrDuplicateKey
	}
	s.members[m] = struct{}{}
	return nil
}

// Memberships retrieves every solicitor-team link ordered by (team_id, solicitor_id).
func (s *TeamStore) Memberships(_ context.Context) ([]domain.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Membership, 0, len(s.members))
	for m := range s.members {
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TeamID != result[j].TeamID {
			return result[i].TeamID < result[j].TeamID
		}
		return result[i].SolicitorID < result[j].SolicitorID
	})
	return result, nil
}

// MemberIDs retrieves solicitor IDs of a team ordered ASC.
func (s *TeamStore) MemberIDs(_ context.Context, teamID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for m := range s.members {
		if m.TeamID == teamID {
			ids = append(ids, m.SolicitorID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// TeamIDsForSolicitor retrieves team IDs a solicitor belongs to ordered ASC.
func (s *TeamStore) TeamIDsForSolicitor(_ context.Context, solicitorID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for m := range s.members {
		if m.SolicitorID == solicitorID {
			ids = append(ids, m.TeamID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Verify interface compliance at compile time.
var _ storage.TeamStore = (*TeamStore)(nil)
