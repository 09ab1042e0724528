package events

import (
	"context"
	"fmt"
	"math"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
)

const (
	// TrailingDays extends the during window past the event end.
	TrailingDays = 3
	// BaselineDays is the length of the before window.
	BaselineDays = 7
)

// ImpactRow compares one linked solicitor's average daily bio clicks before and during an event.
type ImpactRow struct {
	SolicitorID   string   `json:"solicitor_id"`
	Name          string   `json:"name"`
	AvgBefore     float64  `json:"avg_before"`
	AvgDuring     float64  `json:"avg_during"`
	PercentChange *float64 `json:"percent_change"` // nil when Infinite
	Infinite      bool     `json:"infinite"`
}

// Impact is the event stats page.
type Impact struct {
	Event       *domain.Event    `json:"event"`
	DuringStart calendar.DateKey `json:"during_start"`
	DuringEnd   calendar.DateKey `json:"during_end"`
	BeforeStart calendar.DateKey `json:"before_start"`
	BeforeEnd   calendar.DateKey `json:"before_end"`
	Rows        []ImpactRow      `json:"rows"`
}

// Impact computes, for each solicitor linked to eventID, the average bio clicks
// per recorded day during [start, end+3] and before [start-7, start-1].
// Averages and percent change are rounded to one decimal. A zero before
// average marks the change Infinite.
func (s *Service) Impact(ctx context.Context, eventID string) (*Impact, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}

	duringEnd, err := calendar.AddDays(e.EndDate, TrailingDays)
	if err != nil {
		return nil, err
	}
	beforeStart, err := calendar.AddDays(e.StartDate, -BaselineDays)
	if err != nil {
		return nil, err
	}
	beforeEnd, err := calendar.AddDays(e.StartDate, -1)
	if err != nil {
		return nil, err
	}

	ids, err := s.events.SolicitorIDs(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event solicitors: %w", err)
	}

	out := &Impact{
		Event:       e,
		DuringStart: e.StartDate,
		DuringEnd:   duringEnd,
		BeforeStart: beforeStart,
		BeforeEnd:   beforeEnd,
		Rows:        make([]ImpactRow, 0, len(ids)),
	}

	for _, id := range ids {
		name := id
		if sol, err := s.solicitors.GetByID(ctx, id); err == nil {
			name = sol.Name
		}

		subject := domain.SolicitorSubject(id)
		during, err := s.stats.GetBySubjectRange(ctx, subject, domain.MetricBioClicks, e.StartDate, duringEnd)
		if err != nil {
			return nil, fmt.Errorf("get during stats: %w", err)
		}
		before, err := s.stats.GetBySubjectRange(ctx, subject, domain.MetricBioClicks, beforeStart, beforeEnd)
		if err != nil {
			return nil, fmt.Errorf("get before stats: %w", err)
		}

		out.Rows = append(out.Rows, impactRow(id, name, average(before), average(during)))
	}

	return out, nil
}

func impactRow(id, name string, avgBefore, avgDuring float64) ImpactRow {
	row := ImpactRow{
		SolicitorID: id,
		Name:        name,
		AvgBefore:   round1(avgBefore),
		AvgDuring:   round1(avgDuring),
	}
	if avgBefore == 0 {
		row.Infinite = true
		return row
	}
	change := round1((avgDuring - avgBefore) / avgBefore * 100)
	row.PercentChange = &change
	return row
}

// average is the mean clicks over recorded days. No rows averages to zero.
func average(rows []*domain.DailyStat) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum int64
	for _, r := range rows {
		sum += r.Clicks
	}
	return float64(sum) / float64(len(rows))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
