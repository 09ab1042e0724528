package timeline

import (
	"context"
	"fmt"
	"time"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// Service loads stored rows and shapes them into chart series.
type Service struct {
	stats    storage.DailyStatStore
	mentions storage.MentionStore
}

// NewService creates a new timeline Service.
func NewService(stats storage.DailyStatStore, mentions storage.MentionStore) *Service {
	return &Service{stats: stats, mentions: mentions}
}

// Year returns the zero-filled daily series of metric for subject over today's calendar year.
func (s *Service) Year(ctx context.Context, subject domain.Subject, metric string, today calendar.DateKey) ([]Point, error) {
	start, err := calendar.StartOfYear(today)
	if err != nil {
		return nil, err
	}
	end, err := calendar.EndOfYear(today)
	if err != nil {
		return nil, err
	}

	rows, err := s.stats.GetBySubjectRange(ctx, subject, metric, start, end)
	if err != nil {
		return nil, fmt.Errorf("get daily stats: %w", err)
	}

	points, err := DailySeries(rows, start, end)
	if err != nil {
		return nil, err
	}
	return CalendarYear(points, today)
}

// MentionsImpact loads mentions and bio clicks of a solicitor for the last months.
func (s *Service) MentionsImpact(ctx context.Context, solicitorID string, today calendar.DateKey, months int) ([]ImpactPoint, error) {
	if months <= 0 {
		months = DefaultImpactMonths
	}
	start, err := calendar.SubMonths(today, months)
	if err != nil {
		return nil, err
	}

	startTime, err := start.Time()
	if err != nil {
		return nil, err
	}
	endTime, err := today.Time()
	if err != nil {
		return nil, err
	}
	endMs := endTime.Add(24*time.Hour).UnixMilli() - 1

	mentions, err := s.mentions.GetBySolicitorRange(ctx, solicitorID, startTime.UnixMilli(), endMs)
	if err != nil {
		return nil, fmt.Errorf("get mentions: %w", err)
	}
	views, err := s.stats.GetBySubjectRange(ctx, domain.SolicitorSubject(solicitorID), domain.MetricBioClicks, start, today)
	if err != nil {
		return nil, fmt.Errorf("get bio views: %w", err)
	}

	return MentionsImpact(mentions, views, today, months)
}

// Mentions returns the mention panel of a solicitor for today.
func (s *Service) Mentions(ctx context.Context, solicitorID string, today calendar.DateKey) ([]MentionImpact, error) {
	viewStart, viewEnd, err := MentionViewSpan(today)
	if err != nil {
		return nil, err
	}
	from, err := calendar.AddDays(today, -MentionLookbackDays)
	if err != nil {
		return nil, err
	}
	fromTime, err := from.Time()
	if err != nil {
		return nil, err
	}
	endTime, err := today.Time()
	if err != nil {
		return nil, err
	}

	mentions, err := s.mentions.GetBySolicitorRange(ctx, solicitorID, fromTime.UnixMilli(), endTime.Add(24*time.Hour).UnixMilli()-1)
	if err != nil {
		return nil, fmt.Errorf("get mentions: %w", err)
	}
	views, err := s.stats.GetBySubjectRange(ctx, domain.SolicitorSubject(solicitorID), domain.MetricBioClicks, viewStart, viewEnd)
	if err != nil {
		return nil, fmt.Errorf("get bio views: %w", err)
	}
	return MentionImpacts(mentions, views, today)
}
