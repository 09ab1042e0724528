package memory

import (
	"context"
	"sort"
	"sync"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// dailyStatKey is the composite key for daily_stats.
type dailyStatKey struct {
	kind      domain.SubjectKind
	subjectID string
	date      calendar.DateKey
	metric    string
}

// DailyStatStore is an in-memory implementation of storage.DailyStatStore.
type DailyStatStore struct {
	mu   sync.RWMutex
	data map[dailyStatKey]int64
}

// NewDailyStatStore creates a new in-memory daily stat store.
func NewDailyStatStore() *DailyStatStore {
	return &DailyStatStore{
		data: make(map[dailyStatKey]int64),
	}
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate key.
func (s *DailyStatStore) InsertBulk(_ context.Context, stats []*domain.DailyStat) error {
	if len(stats) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check for duplicates first (atomic semantics)
	seen := make(map[dailyStatKey]struct{}, len(stats))
	for _, st := range stats {
		if st == nil || !st.SubjectKind.IsValid() || st.SubjectID == "" || st.Metric == "" || !st.Date.Valid() || st.Clicks < 0 {
			return storage.ErrInvalidInput
		}
		key := keyOf(st)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	for _, st := range stats {
		s.data[keyOf(st)] = st.Clicks
	}
	return nil
}

// GetBySubjectRange retrieves rows for a subject within [start, end].
func (s *DailyStatStore) GetBySubjectRange(_ context.Context, subject domain.Subject, metric string, start, end calendar.DateKey) ([]*domain.DailyStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyStat
	for k, clicks := range s.data {
		if k.kind != subject.Kind || k.subjectID != subject.ID || !inRange(k.date, start, end) {
			continue
		}
		if metric != "" && k.metric != metric {
			continue
		}
		result = append(result, &domain.DailyStat{
			SubjectKind: k.kind,
			SubjectID:   k.subjectID,
			Date:        k.date,
			Metric:      k.metric,
			Clicks:      clicks,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].Metric < result[j].Metric
	})
	return result, nil
}

// SumBySubjectRange returns per-metric totals for a subject within [start, end].
func (s *DailyStatStore) SumBySubjectRange(_ context.Context, subject domain.Subject, start, end calendar.DateKey) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]int64)
	for k, clicks := range s.data {
		if k.kind == subject.Kind && k.subjectID == subject.ID && inRange(k.date, start, end) {
			totals[k.metric] += clicks
		}
	}
	return totals, nil
}

// SumByKindRange returns per-subject totals of one metric within [start, end].
func (s *DailyStatStore) SumByKindRange(_ context.Context, kind domain.SubjectKind, metric string, start, end calendar.DateKey) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]int64)
	for k, clicks := range s.data {
		if k.kind == kind && k.metric == metric && inRange(k.date, start, end) {
			totals[k.subjectID] += clicks
		}
	}
	return totals, nil
}

func keyOf(st *domain.DailyStat) dailyStatKey {
	return dailyStatKey{kind: st.SubjectKind, subjectID: st.SubjectID, date: st.Date, metric: st.Metric}
}

func inRange(k, start, end calendar.DateKey) bool {
	return !k.Before(start) && !k.After(end)
}

// Verify interface compliance at compile time.
var _ storage.DailyStatStore = (*DailyStatStore)(nil)
