package memory

import (
	"context"
	"sort"
	"sync"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// MentionStore is an in-memory implementation of storage.MentionStore.
type MentionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Mention // keyed by id
}

// NewMentionStore creates a new in-memory mention store.
func NewMentionStore() *MentionStore {
	return &MentionStore{
		data: make(map[string]*domain.Mention),
	}
}

// Insert adds a new mention. Returns ErrDuplicateKey if id exists.
func (s *MentionStore) Insert(_ context.Context, m *domain.Mention) error {
	if m == nil || m.ID == "" || m.SolicitorID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[m.ID]; exists {
		return storage.ErrDuplicateKey
	}

	mentionCopy := *m
	if m.Sentiment != nil {
		sentiment := *m.Sentiment
		mentionCopy.Sentiment = &sentiment
	}
	s.data[m.ID] = &mentionCopy
	return nil
}

// GetBySolicitorRange retrieves mentions published within [startMs, endMs] (inclusive).
func (s *MentionStore) GetBySolicitorRange(_ context.Context, solicitorID string, startMs, endMs int64) ([]*domain.Mention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Mention
	for _, m := range s.data {
		if m.SolicitorID == solicitorID && m.PublishedAt >= startMs && m.PublishedAt <= endMs {
			mentionCopy := *m
			result = append(result, &mentionCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].PublishedAt != result[j].PublishedAt {
			return result[i].PublishedAt < result[j].PublishedAt
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.MentionStore = (*MentionStore)(nil)
