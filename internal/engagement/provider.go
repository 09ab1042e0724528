// Package engagement fetches click aggregates and compares two periods.
package engagement

import (
	"context"
	"errors"
	"fmt"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/period"
	"engagement-dashboard/internal/storage"
)

// ErrProviderUnavailable marks a failed or timed-out aggregate fetch.
var ErrProviderUnavailable = errors.New("engagement provider unavailable")

// Provider returns per-metric click totals for a subject over an inclusive date range.
type Provider interface {
	FetchAggregate(ctx context.Context, subject domain.Subject, start, end calendar.DateKey) (period.Snapshot, error)
}

// StoreProvider implements Provider on top of the storage interfaces.
type StoreProvider struct {
	stats      storage.DailyStatStore
	solicitors storage.SolicitorStore
	teams      storage.TeamStore
}

// NewStoreProvider creates a new StoreProvider.
func NewStoreProvider(stats storage.DailyStatStore, solicitors storage.SolicitorStore, teams storage.TeamStore) *StoreProvider {
	return &StoreProvider{stats: stats, solicitors: solicitors, teams: teams}
}

// Compile-time interface check.
var _ Provider = (*StoreProvider)(nil)

// FetchAggregate sums daily stats of subject within [start, end].
//
// A team aggregate holds its own counters (team_clicks) plus the bio, update
// and news clicks of every member solicitor. Unknown subjects return
// storage.ErrNotFound.
func (p *StoreProvider) FetchAggregate(ctx context.Context, subject domain.Subject, start, end calendar.DateKey) (period.Snapshot, error) {
	if end.Before(start) {
		return nil, calendar.ErrInvalidRange
	}

	switch subject.Kind {
	case domain.SubjectSolicitor:
		if _, err := p.solicitors.GetByID(ctx, subject.ID); err != nil {
			return nil, fmt.Errorf("get solicitor %s: %w", subject.ID, err)
		}
		totals, err := p.stats.SumBySubjectRange(ctx, subject, start, end)
		if err != nil {
			return nil, fmt.Errorf("sum solicitor stats: %w", err)
		}
		return period.Snapshot(totals), nil

	case domain.SubjectTeam:
		return p.fetchTeam(ctx, subject, start, end)

	default:
		return nil, fmt.Errorf("subject kind %q: %w", subject.Kind, storage.ErrInvalidInput)
	}
}

func (p *StoreProvider) fetchTeam(ctx context.Context, subject domain.Subject, start, end calendar.DateKey) (period.Snapshot, error) {
	if _, err := p.teams.GetByID(ctx, subject.ID); err != nil {
		return nil, fmt.Errorf("get team %s: %w", subject.ID, err)
	}

	own, err := p.stats.SumBySubjectRange(ctx, subject, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum team stats: %w", err)
	}

	snap := period.Snapshot{domain.MetricTeamClicks: own[domain.MetricTeamClicks]}
	for _, metric := range domain.SolicitorMetrics {
		snap[metric] = 0
	}

	members, err := p.teams.MemberIDs(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("get team members: %w", err)
	}
	for _, id := range members {
		totals, err := p.stats.SumBySubjectRange(ctx, domain.SolicitorSubject(id), start, end)
		if err != nil {
			return nil, fmt.Errorf("sum member %s stats: %w", id, err)
		}
		for _, metric := range domain.SolicitorMetrics {
			snap[metric] += totals[metric]
		}
	}

	return snap, nil
}
