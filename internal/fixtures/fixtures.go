package fixtures

import (
	"context"
	"fmt"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
	"engagement-dashboard/internal/storage/memory"
)

// HistoryDays is how many days of daily counters Load generates, ending today.
const HistoryDays = 120

// Stores groups the stores that fixtures populate.
type Stores struct {
	Solicitors storage.SolicitorStore
	Teams      storage.TeamStore
	Events     storage.EventStore
	Mentions   storage.MentionStore
	Stats      storage.DailyStatStore
}

// Solicitors are the demo fee earners.
var Solicitors = []*domain.Solicitor{
	{ID: "sol_001", Name: "Amelia Hart", JobTitle: "Partner", CreatedAt: 1704067200000},
	{ID: "sol_002", Name: "Ben Okafor", JobTitle: "Senior Associate", CreatedAt: 1704067200000},
	{ID: "sol_003", Name: "Chloe Ng", JobTitle: "Associate", CreatedAt: 1704067200000},
	{ID: "sol_004", Name: "David Reyes", JobTitle: "Partner", CreatedAt: 1704067200000},
	{ID: "sol_005", Name: "Eleanor Shaw", JobTitle: "Legal Director", CreatedAt: 1704067200000},
	{ID: "sol_006", Name: "Farid Haddad", JobTitle: "Trainee Solicitor", CreatedAt: 1704067200000},
}

// Teams are the demo practice groups.
var Teams = []*domain.Team{
	{ID: "team_corp", Name: "Corporate", Type: domain.TeamTypeService, CreatedAt: 1704067200000},
	{ID: "team_lit", Name: "Disputes", Type: domain.TeamTypeService, CreatedAt: 1704067200000},
	{ID: "team_energy", Name: "Energy", Type: domain.TeamTypeSector, CreatedAt: 1704067200000},
}

// Memberships link the demo solicitors to teams. sol_006 has no team.
var Memberships = []domain.Membership{
	{SolicitorID: "sol_001", TeamID: "team_corp"},
	{SolicitorID: "sol_002", TeamID: "team_corp"},
	{SolicitorID: "sol_003", TeamID: "team_lit"},
	{SolicitorID: "sol_004", TeamID: "team_lit"},
	{SolicitorID: "sol_004", TeamID: "team_energy"},
	{SolicitorID: "sol_005", TeamID: "team_energy"},
}

// Load populates stores with demo data. Dates are relative to today so the
// default windows always contain data.
func Load(ctx context.Context, s Stores, today calendar.DateKey) error {
	if !today.Valid() {
		return fmt.Errorf("load fixtures: %w", calendar.ErrInvalidDate)
	}

	if err := loadPeople(ctx, s); err != nil {
		return err
	}
	if err := loadStats(ctx, s.Stats, today); err != nil {
		return err
	}
	if err := loadEvents(ctx, s.Events, today); err != nil {
		return err
	}
	if err := loadMentions(ctx, s.Mentions, today); err != nil {
		return err
	}

	return nil
}

func loadPeople(ctx context.Context, s Stores) error {
	for _, sol := range Solicitors {
		c := *sol
		if err := s.Solicitors.Insert(ctx, &c); err != nil {
			return fmt.Errorf("insert solicitor %s: %w", sol.ID, err)
		}
	}
	for _, team := range Teams {
		c := *team
		if err := s.Teams.Insert(ctx, &c); err != nil {
			return fmt.Errorf("insert team %s: %w", team.ID, err)
		}
	}
	for _, m := range Memberships {
		if err := s.Teams.AddMember(ctx, m); err != nil {
			return fmt.Errorf("add member %s to %s: %w", m.SolicitorID, m.TeamID, err)
		}
	}
	return nil
}

// loadStats generates deterministic counters: a per-subject base level with
// a weekly cycle, quieter at weekends.
func loadStats(ctx context.Context, store storage.DailyStatStore, today calendar.DateKey) error {
	start, err := calendar.AddDays(today, -(HistoryDays - 1))
	if err != nil {
		return err
	}
	days, err := calendar.Range(start, today)
	if err != nil {
		return err
	}

	var rows []*domain.DailyStat
	for i, day := range days {
		for n, sol := range Solicitors {
			base := int64(len(Solicitors) - n)
			rows = append(rows,
				stat(domain.SubjectSolicitor, sol.ID, day, domain.MetricBioClicks, base*2+cycle(i+n)),
				stat(domain.SubjectSolicitor, sol.ID, day, domain.MetricUpdateClicks, base/2+cycle(i+2*n)/3),
				stat(domain.SubjectSolicitor, sol.ID, day, domain.MetricNewsClicks, cycle(i+3*n)/2),
			)
		}
		for n, team := range Teams {
			rows = append(rows, stat(domain.SubjectTeam, team.ID, day, domain.MetricTeamClicks, int64(3*(len(Teams)-n))+cycle(i+n)))
		}
	}

	if err := store.InsertBulk(ctx, rows); err != nil {
		return fmt.Errorf("insert daily stats: %w", err)
	}
	return nil
}

func cycle(i int) int64 {
	switch i % 7 {
	case 5, 6:
		return 0
	default:
		return int64(i%5 + 1)
	}
}

func stat(kind domain.SubjectKind, id string, day calendar.DateKey, metric string, clicks int64) *domain.DailyStat {
	return &domain.DailyStat{SubjectKind: kind, SubjectID: id, Date: day, Metric: metric, Clicks: clicks}
}

func loadEvents(ctx context.Context, store storage.EventStore, today calendar.DateKey) error {
	type demo struct {
		id, title, kind string
		offset, length  int
		solicitors      []string
		teams           []string
	}
	list := []demo{
		{"evt_001", "Energy Transition Webinar", "Webinar", -40, 1, []string{"sol_004", "sol_005"}, []string{"team_energy"}},
		{"evt_002", "Annual M&A Review", "Article", -14, 1, []string{"sol_001"}, []string{"team_corp"}},
		{"evt_003", "Disputes Breakfast Briefing", "Event", 10, 2, []string{"sol_003", "sol_004"}, []string{"team_lit"}},
	}

	for _, d := range list {
		startDate, err := calendar.AddDays(today, d.offset)
		if err != nil {
			return err
		}
		endDate, err := calendar.AddDays(startDate, d.length-1)
		if err != nil {
			return err
		}
		e := &domain.Event{ID: d.id, Title: d.title, Type: d.kind, StartDate: startDate, EndDate: endDate, CreatedAt: 1704067200000}
		if err := store.Insert(ctx, e); err != nil {
			return fmt.Errorf("insert event %s: %w", d.id, err)
		}
		if err := store.LinkSolicitors(ctx, d.id, d.solicitors); err != nil {
			return fmt.Errorf("link solicitors to %s: %w", d.id, err)
		}
		if err := store.LinkTeams(ctx, d.id, d.teams); err != nil {
			return fmt.Errorf("link teams to %s: %w", d.id, err)
		}
	}
	return nil
}

func loadMentions(ctx context.Context, store storage.MentionStore, today calendar.DateKey) error {
	positive, neutral := "positive", "neutral"
	type demo struct {
		id, solicitor string
		offset        int
		impact        int64
		title, source string
		sentiment     *string
	}
	list := []demo{
		{"men_001", "sol_001", -3, 40, "Deal of the year shortlist", "Legal Week", &positive},
		{"men_002", "sol_001", -3, 15, "Quoted on takeover code changes", "FT", &neutral},
		{"men_003", "sol_001", -30, 25, "Panel appearance", "The Lawyer", nil},
		{"men_004", "sol_004", -41, 60, "Energy transition commentary", "Reuters", &positive},
	}

	for _, d := range list {
		day, err := calendar.AddDays(today, d.offset)
		if err != nil {
			return err
		}
		t, err := day.Time()
		if err != nil {
			return err
		}
		// Mid-morning UTC on that day.
		publishedAt := t.UnixMilli() + 10*60*60*1000
		m := &domain.Mention{
			ID:          d.id,
			SolicitorID: d.solicitor,
			PublishedAt: publishedAt,
			ImpactScore: d.impact,
			Title:       d.title,
			Source:      d.source,
			Sentiment:   d.sentiment,
		}
		if err := store.Insert(ctx, m); err != nil {
			return fmt.Errorf("insert mention %s: %w", d.id, err)
		}
	}
	return nil
}

// NewMemoryStores returns empty in-memory stores.
func NewMemoryStores() Stores {
	return Stores{
		Solicitors: memory.NewSolicitorStore(),
		Teams:      memory.NewTeamStore(),
		Events:     memory.NewEventStore(),
		Mentions:   memory.NewMentionStore(),
		Stats:      memory.NewDailyStatStore(),
	}
}
