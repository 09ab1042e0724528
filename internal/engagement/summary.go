package engagement

import (
	"context"
	"fmt"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
)

// Summary holds the headline bio click counts of a solicitor page.
type Summary struct {
	Today      int64 `json:"clicks_today"`
	Last7Days  int64 `json:"clicks_7d"`
	Last30Days int64 `json:"clicks_30d"`
}

// Summarize returns bio clicks for today and the trailing 7 and 30 days, each ending today.
func (p *StoreProvider) Summarize(ctx context.Context, solicitorID string, today calendar.DateKey) (*Summary, error) {
	subject := domain.SolicitorSubject(solicitorID)
	if _, err := p.solicitors.GetByID(ctx, solicitorID); err != nil {
		return nil, fmt.Errorf("get solicitor %s: %w", solicitorID, err)
	}

	var sum Summary
	for _, span := range []struct {
		days int
		dst  *int64
	}{
		{1, &sum.Today},
		{7, &sum.Last7Days},
		{30, &sum.Last30Days},
	} {
		start, err := calendar.AddDays(today, -(span.days - 1))
		if err != nil {
			return nil, fmt.Errorf("summary window: %w", err)
		}
		totals, err := p.stats.SumBySubjectRange(ctx, subject, start, today)
		if err != nil {
			return nil, fmt.Errorf("sum summary stats: %w", err)
		}
		*span.dst = totals[domain.MetricBioClicks]
	}

	return &sum, nil
}
