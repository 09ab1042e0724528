package storage

import (
	"context"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
)

// SolicitorStore provides access to solicitors storage.
type SolicitorStore interface {
	// Insert adds a new solicitor. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, s *domain.Solicitor) error

	// GetByID retrieves a solicitor by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Solicitor, error)

	// List retrieves all solicitors ordered by name ASC.
	List(ctx context.Context) ([]*domain.Solicitor, error)

	// Search retrieves solicitors whose name contains query (case-insensitive), ordered by name ASC.
	Search(ctx context.Context, query string) ([]*domain.Solicitor, error)
}

// TeamStore provides access to teams and solicitor_teams storage.
type TeamStore interface {
	// Insert adds a new team. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, t *domain.Team) error

	// GetByID retrieves a team by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Team, error)

	// List retrieves all teams ordered by name ASC.
	List(ctx context.Context) ([]*domain.Team, error)

	// AddMember links a solicitor to a team. Returns ErrDuplicateKey if already linked.
	AddMember(ctx context.Context, m domain.Membership) error

	// Memberships retrieves every solicitor-team link ordered by (team_id, solicitor_id).
	Memberships(ctx context.Context) ([]domain.Membership, error)

	// MemberIDs retrieves solicitor IDs of a team ordered ASC.
	MemberIDs(ctx context.Context, teamID string) ([]string, error)

	// TeamIDsForSolicitor retrieves team IDs a solicitor belongs to ordered ASC.
	TeamIDsForSolicitor(ctx context.Context, solicitorID string) ([]string, error)
}

// EventStore provides access to events, event_solicitors and event_teams storage.
type EventStore interface {
	// Insert adds a new event. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, e *domain.Event) error

	// GetByID retrieves an event by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// List retrieves all events ordered by start_date ASC, id ASC.
	List(ctx context.Context) ([]*domain.Event, error)

	// LinkSolicitors links solicitors to an event atomically.
	// Returns ErrNotFound if the event does not exist, ErrDuplicateKey on an existing link.
	LinkSolicitors(ctx context.Context, eventID string, solicitorIDs []string) error

	// LinkTeams links teams to an event atomically.
	LinkTeams(ctx context.Context, eventID string, teamIDs []string) error

	// SolicitorIDs retrieves solicitor IDs linked to an event ordered ASC.
	SolicitorIDs(ctx context.Context, eventID string) ([]string, error)

	// TeamIDs retrieves team IDs linked to an event ordered ASC.
	TeamIDs(ctx context.Context, eventID string) ([]string, error)
}

// MentionStore provides access to mentions storage.
type MentionStore interface {
	// Insert adds a new mention. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, m *domain.Mention) error

	// GetBySolicitorRange retrieves mentions published within [startMs, endMs] (inclusive),
	// ordered by published_at ASC, id ASC.
	GetBySolicitorRange(ctx context.Context, solicitorID string, startMs, endMs int64) ([]*domain.Mention, error)
}

// DailyStatStore provides access to daily_stats storage.
// Date ranges are inclusive calendar days.
type DailyStatStore interface {
	// InsertBulk adds multiple rows. Fails entire batch on duplicate
	// (subject_kind, subject_id, date, metric).
	InsertBulk(ctx context.Context, stats []*domain.DailyStat) error

	// GetBySubjectRange retrieves rows for a subject within [start, end],
	// ordered by date ASC, metric ASC. Empty metric means all metrics.
	GetBySubjectRange(ctx context.Context, subject domain.Subject, metric string, start, end calendar.DateKey) ([]*domain.DailyStat, error)

	// SumBySubjectRange returns per-metric totals for a subject within [start, end].
	// Metrics with no rows are absent from the result.
	SumBySubjectRange(ctx context.Context, subject domain.Subject, start, end calendar.DateKey) (map[string]int64, error)

	// SumByKindRange returns per-subject totals of one metric for every subject
	// of the given kind within [start, end]. Subjects with no rows are absent.
	SumByKindRange(ctx context.Context, kind domain.SubjectKind, metric string, start, end calendar.DateKey) (map[string]int64, error)
}
