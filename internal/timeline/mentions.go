package timeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
)

// Mention panel windows, in days.
const (
	MentionLookbackDays = 90 // mentions published in [today-90, today]
	PriorViewDays       = 90 // views averaged over the days before publication
	PostViewDays        = 3  // views averaged from the publication day on
)

// MentionImpact is one press mention with the bio views around it.
//
// PriorAvg covers the PriorViewDays before the publication day. PostAvg covers
// the publication day and the days after it, clipped to today. Uplift is
// PostAvg minus PriorAvg. Averages are over calendar days, zero filled, and
// rounded to one decimal.
type MentionImpact struct {
	ID          string           `json:"id"`
	Date        calendar.DateKey `json:"date"`
	Title       string           `json:"title"`
	Source      string           `json:"source"`
	Sentiment   *string          `json:"sentiment"`
	ImpactScore int64            `json:"impact_score"`
	PriorAvg    float64          `json:"prior_90day_avg"`
	PostAvg     float64          `json:"post_3day_avg"`
	Uplift      float64          `json:"uplift"`
}

// MentionViewSpan returns the span of bio views the mention panel for today
// can reach.
func MentionViewSpan(today calendar.DateKey) (start, end calendar.DateKey, err error) {
	start, err = calendar.AddDays(today, -(MentionLookbackDays + PriorViewDays))
	if err != nil {
		return "", "", fmt.Errorf("mention view span: %w", err)
	}
	return start, today, nil
}

// MentionImpacts scores every mention published in the lookback window against
// the bio views around it, newest first. Mentions published after today are
// skipped.
func MentionImpacts(mentions []*domain.Mention, views []*domain.DailyStat, today calendar.DateKey) ([]MentionImpact, error) {
	from, err := calendar.AddDays(today, -MentionLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("mention impacts: %w", err)
	}

	viewsByDay := sumByDay(views)
	result := make([]MentionImpact, 0, len(mentions))
	for _, m := range mentions {
		day, err := calendar.ToDateKey(time.UnixMilli(m.PublishedAt).UTC())
		if err != nil || day.Before(from) || day.After(today) {
			continue
		}

		priorStart, err := calendar.AddDays(day, -PriorViewDays)
		if err != nil {
			return nil, fmt.Errorf("mention %s: %w", m.ID, err)
		}
		priorEnd, err := calendar.AddDays(day, -1)
		if err != nil {
			return nil, fmt.Errorf("mention %s: %w", m.ID, err)
		}
		postEnd, err := calendar.AddDays(day, PostViewDays-1)
		if err != nil {
			return nil, fmt.Errorf("mention %s: %w", m.ID, err)
		}
		if postEnd.After(today) {
			postEnd = today
		}

		prior, err := averageOver(viewsByDay, priorStart, priorEnd)
		if err != nil {
			return nil, fmt.Errorf("mention %s: %w", m.ID, err)
		}
		post, err := averageOver(viewsByDay, day, postEnd)
		if err != nil {
			return nil, fmt.Errorf("mention %s: %w", m.ID, err)
		}

		result = append(result, MentionImpact{
			ID:          m.ID,
			Date:        day,
			Title:       m.Title,
			Source:      m.Source,
			Sentiment:   m.Sentiment,
			ImpactScore: m.ImpactScore,
			PriorAvg:    round1(prior),
			PostAvg:     round1(post),
			Uplift:      round1(post - prior),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func averageOver(byDay map[calendar.DateKey]int64, start, end calendar.DateKey) (float64, error) {
	days, err := calendar.Range(start, end)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, d := range days {
		total += byDay[d]
	}
	return float64(total) / float64(len(days)), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
