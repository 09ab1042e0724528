package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// SolicitorStore is an in-memory implementation of storage.SolicitorStore.
type SolicitorStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Solicitor // keyed by id
}

// NewSolicitorStore creates a new in-memory solicitor store.
func NewSolicitorStore() *SolicitorStore {
	return &SolicitorStore{
		data: make(map[string]*domain.Solicitor),
	}
}

// Insert adds a new solicitor. Returns ErrDuplicateKey if id exists.
func (s *SolicitorStore) Insert(_ context.Context, sol *domain.Solicitor) error {
	if sol == nil || sol.ID == "" || sol.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sol.ID]; exists {
		return storage.ErrDuplicateKey
	}

	solCopy := *sol
	s.data[sol.ID] = &solCopy
	return nil
}

// GetByID retrieves a solicitor by ID. Returns ErrNotFound if not exists.
func (s *SolicitorStore) GetByID(_ context.Context, id string) (*domain.Solicitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sol, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	solCopy := *sol
	return &solCopy, nil
}

// List retrieves all solicitors ordered by name ASC.
func (s *SolicitorStore) List(_ context.Context) ([]*domain.Solicitor, error) {
	return s.filter(func(*domain.Solicitor) bool { return true }), nil
}

// Search retrieves solicitors whose name contains query (case-insensitive).
func (s *SolicitorStore) Search(_ context.Context, query string) ([]*domain.Solicitor, error) {
	q := strings.ToLower(query)
	return s.filter(func(sol *domain.Solicitor) bool {
		return strings.Contains(strings.ToLower(sol.Name), q)
	}), nil
}

func (s *SolicitorStore) filter(keep func(*domain.Solicitor) bool) []*domain.Solicitor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Solicitor
	for _, sol := range s.data {
		if keep(sol) {
			solCopy := *sol
			result = append(result, &solCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Verify interface compliance at compile time.
var _ storage.SolicitorStore = (*SolicitorStore)(nil)
