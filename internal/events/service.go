// Package events creates calendar events and measures their effect on bio clicks.
package events

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/observability"
	"engagement-dashboard/internal/storage"
)

// CreateInput is the event form payload.
type CreateInput struct {
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	SolicitorIDs []string `json:"solicitor_ids"`
	TeamIDs      []string `json:"team_ids"`
}

// CreateResult reports the created event and the outcome of each link group.
// Link failures do not undo the event.
type CreateResult struct {
	Event            *domain.Event `json:"event"`
	SolicitorsLinked int           `json:"solicitors_linked"`
	TeamsLinked      int           `json:"teams_linked"`
	LinkErrors       []string      `json:"link_errors,omitempty"`
}

// Service manages events.
type Service struct {
	events     storage.EventStore
	solicitors storage.SolicitorStore
	stats      storage.DailyStatStore
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
	newID      func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator sets the event id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new events Service.
func NewService(events storage.EventStore, solicitors storage.SolicitorStore, stats storage.DailyStatStore, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		events:     events,
		solicitors: solicitors,
		stats:      stats,
		logger:     logger.Named("events"),
		metrics:    observability.DefaultMetrics,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in, stores the event and links the selected solicitors and teams.
//
// Title and start date are required (storage.ErrInvalidInput). Type defaults to
// domain.DefaultEventType and end date to the start date. Malformed dates return
// calendar.ErrInvalidDate, an end before the start calendar.ErrInvalidRange.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.StartDate) == "" {
		return nil, fmt.Errorf("title and start date are required: %w", storage.ErrInvalidInput)
	}

	start, err := calendar.ParseDateKey(strings.TrimSpace(in.StartDate))
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	end := start
	if strings.TrimSpace(in.EndDate) != "" {
		end, err = calendar.ParseDateKey(strings.TrimSpace(in.EndDate))
		if err != nil {
			return nil, fmt.Errorf("end date: %w", err)
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: event ends %s before it starts %s", calendar.ErrInvalidRange, end, start)
	}

	eventType := strings.TrimSpace(in.Type)
	if eventType == "" {
		eventType = domain.DefaultEventType
	}

	e := &domain.Event{
		ID:        s.newID(),
		Title:     title,
		Type:      eventType,
		StartDate: start,
		EndDate:   end,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.events.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	result := &CreateResult{Event: e}
	var failed []string

	if ids := dedupe(in.SolicitorIDs); len(ids) > 0 {
		if err := s.events.LinkSolicitors(ctx, e.ID, ids); err != nil {
			s.logger.Warn("link solicitors failed", zap.String("event_id", e.ID), zap.Error(err))
			result.LinkErrors = append(result.LinkErrors, fmt.Sprintf("link solicitors: %v", err))
			failed = append(failed, "solicitors")
		} else {
			result.SolicitorsLinked = len(ids)
		}
	}

	if ids := dedupe(in.TeamIDs); len(ids) > 0 {
		if err := s.events.LinkTeams(ctx, e.ID, ids); err != nil {
			s.logger.Warn("link teams failed", zap.String("event_id", e.ID), zap.Error(err))
			result.LinkErrors = append(result.LinkErrors, fmt.Sprintf("link teams: %v", err))
			failed = append(failed, "teams")
		} else {
			result.TeamsLinked = len(ids)
		}
	}

	s.metrics.RecordEventCreated(failed...)
	s.logger.Info("event created",
		zap.String("event_id", e.ID),
		zap.String("type", e.Type),
		zap.String("start", e.StartDate.String()),
		zap.Int("solicitors", result.SolicitorsLinked),
		zap.Int("teams", result.TeamsLinked),
	)
	return result, nil
}

// List returns every event ordered by start date.
func (s *Service) List(ctx context.Context) ([]*domain.Event, error) {
	list, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

// Split partitions events into upcoming (start >= today, ascending) and past
// (start < today, most recent first).
func Split(list []*domain.Event, today calendar.DateKey) (upcoming, past []*domain.Event) {
	upcoming = []*domain.Event{}
	past = []*domain.Event{}
	for _, e := range list {
		if e.StartDate.Before(today) {
			past = append(past, e)
		} else {
			upcoming = append(upcoming, e)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].StartDate < upcoming[j].StartDate })
	sort.SliceStable(past, func(i, j int) bool { return past[i].StartDate > past[j].StartDate })
	return upcoming, past
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
