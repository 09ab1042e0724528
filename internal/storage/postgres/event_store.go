package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// EventStore implements storage.EventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// Insert adds a new event. Returns ErrDuplicateKey if id exists.
func (s *EventStore) Insert(ctx context.Context, e *domain.Event) error {
	if e == nil || e.ID == "" || e.Title == "" || e.StartDate == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO events (id, title, type, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4::date, $5::date, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		e.ID, e.Title, e.Type, e.StartDate.String(), e.EndDate.String(), e.CreatedAt,
	)
	return translate(err, "insert event")
}

// GetByID retrieves an event by ID. Returns ErrNotFound if not exists.
func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, type, start_date::text, end_date::text, created_at
		FROM events
		WHERE id = $1
	`

	e, err := scanEvent(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err, "get event by id")
	}
	return e, nil
}

// List retrieves all events ordered by start_date ASC, id ASC.
func (s *EventStore) List(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT id, title, type, start_date::text, end_date::text, created_at
		FROM events
		ORDER BY start_date ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var result []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return result, nil
}

// LinkSolicitors links solicitors to an event atomically.
func (s *EventStore) LinkSolicitors(ctx context.Context, eventID string, solicitorIDs []string) error {
	return s.link(ctx, `INSERT INTO event_solicitors (event_id, solicitor_id) VALUES ($1, $2)`, eventID, solicitorIDs)
}

// LinkTeams links teams to an event atomically.
func (s *EventStore) LinkTeams(ctx context.Context, eventID string, teamIDs []string) error {
	return s.link(ctx, `INSERT INTO event_teams (event_id, team_id) VALUES ($1, $2)`, eventID, teamIDs)
}

// SolicitorIDs retrieves solicitor IDs linked to an event ordered ASC.
func (s *EventStore) SolicitorIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT solicitor_id FROM event_solicitors WHERE event_id = $1 ORDER BY solicitor_id ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event solicitors: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// TeamIDs retrieves team IDs linked to an event ordered ASC.
func (s *EventStore) TeamIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT team_id FROM event_teams WHERE event_id = $1 ORDER BY team_id ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event teams: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// link inserts all link rows in one transaction.
func (s *EventStore) link(ctx context.Context, query, eventID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, id := range ids {
		if id == "" {
			return storage.ErrInvalidInput
		}
		batch.Queue(query, eventID, id)
	}

	results := tx.SendBatch(ctx, batch)
	for range ids {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return translate(err, "insert event link")
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	var start, end string
	if err := row.Scan(&e.ID, &e.Title, &e.Type, &start, &end, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.StartDate = calendar.DateKey(start)
	e.EndDate = calendar.DateKey(end)
	return &e, nil
}
