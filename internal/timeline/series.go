// Package timeline builds day-by-day series for charts.
package timeline

import (
	"fmt"
	"time"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
)

// DefaultImpactMonths is the span of the mentions impact chart.
const DefaultImpactMonths = 6

// Point is one day of a series.
type Point struct {
	Date  calendar.DateKey `json:"day"`
	Value int64            `json:"value"`
}

// ImpactPoint is one day of the mentions impact chart.
// ImpactScore is nil on days without a scored mention.
type ImpactPoint struct {
	Date        calendar.DateKey `json:"date"`
	ImpactScore *int64           `json:"impact_score"`
	Title       string           `json:"title"`
	Source      string           `json:"source"`
	Sentiment   *string          `json:"sentiment"`
	BioViews    int64            `json:"bio_views"`
}

// DailySeries sums stats per day and returns one point for every day in
// [start, end], zero filled. Rows outside the span are ignored.
func DailySeries(stats []*domain.DailyStat, start, end calendar.DateKey) ([]Point, error) {
	days, err := calendar.Range(start, end)
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}

	byDay := sumByDay(stats)
	points := make([]Point, len(days))
	for i, d := range days {
		points[i] = Point{Date: d, Value: byDay[d]}
	}
	return points, nil
}

// CalendarYear keeps the points that fall in today's calendar year.
func CalendarYear(points []Point, today calendar.DateKey) ([]Point, error) {
	from, err := calendar.StartOfYear(today)
	if err != nil {
		return nil, err
	}
	to, err := calendar.EndOfYear(today)
	if err != nil {
		return nil, err
	}

	result := make([]Point, 0, len(points))
	for _, p := range points {
		if !p.Date.Before(from) && !p.Date.After(to) {
			result = append(result, p)
		}
	}
	return result, nil
}

// MentionsImpact merges mentions and bio view stats into one row per day of
// [today-months, today]. Impact scores are summed per UTC publication day and
// the first mention of the day supplies title, source and sentiment.
// Non-positive months use DefaultImpactMonths.
func MentionsImpact(mentions []*domain.Mention, views []*domain.DailyStat, today calendar.DateKey, months int) ([]ImpactPoint, error) {
	if months <= 0 {
		months = DefaultImpactMonths
	}
	start, err := calendar.SubMonths(today, months)
	if err != nil {
		return nil, fmt.Errorf("mentions impact: %w", err)
	}
	days, err := calendar.Range(start, today)
	if err != nil {
		return nil, fmt.Errorf("mentions impact: %w", err)
	}

	type dayImpact struct {
		score     int64
		title     string
		source    string
		sentiment *string
	}
	impacts := make(map[calendar.DateKey]*dayImpact)
	for _, m := range mentions {
		day, err := calendar.ToDateKey(time.UnixMilli(m.PublishedAt).UTC())
		if err != nil {
			continue
		}
		di, ok := impacts[day]
		if !ok {
			di = &dayImpact{title: m.Title, source: m.Source, sentiment: m.Sentiment}
			impacts[day] = di
		}
		di.score += m.ImpactScore
	}

	viewsByDay := sumByDay(views)
	points := make([]ImpactPoint, len(days))
	for i, d := range days {
		p := ImpactPoint{Date: d, BioViews: viewsByDay[d]}
		if di, ok := impacts[d]; ok && di.score > 0 {
			score := di.score
			p.ImpactScore = &score
			p.Title = di.title
			p.Source = di.source
			p.Sentiment = di.sentiment
		}
		points[i] = p
	}
	return points, nil
}

func sumByDay(stats []*domain.DailyStat) map[calendar.DateKey]int64 {
	byDay := make(map[calendar.DateKey]int64, len(stats))
	for _, st := range stats {
		byDay[st.Date] += st.Clicks
	}
	return byDay
}
