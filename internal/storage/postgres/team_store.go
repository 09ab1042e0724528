package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// TeamStore implements storage.TeamStore using PostgreSQL.
type TeamStore struct {
	pool *Pool
}

// NewTeamStore creates a new TeamStore.
func NewTeamStore(pool *Pool) *TeamStore {
	return &TeamStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TeamStore = (*TeamStore)(nil)

// Insert adds a new team. Returns ErrDuplicateKey if id exists.
func (s *TeamStore) Insert(ctx context.Context, t *domain.Team) error {
	if t == nil || t.ID == "" || t.Name == "" {
		return storage.ErrInvalidInput
	}
	teamType := t.Type
	if teamType == "" {
		teamType = domain.TeamTypeService
	}

	query := `INSERT INTO teams (id, name, type, created_at) VALUES ($1, $2, $3, $4)`

	_, err := s.pool.Exec(ctx, query, t.ID, t.Name, string(teamType), t.CreatedAt)
	return translate(err, "insert team")
}

// GetByID retrieves a team by ID. Returns ErrNotFound if not exists.
func (s *TeamStore) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	query := `SELECT id, name, type, created_at FROM teams WHERE id = $1`

	var t domain.Team
	var teamType string
	err := s.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &teamType, &t.CreatedAt)
	if err != nil {
		return nil, translate(err, "get team by id")
	}
	t.Type = domain.TeamType(teamType)
	return &t, nil
}

// List retrieves all teams ordered by name ASC.
func (s *TeamStore) List(ctx context.Context) ([]*domain.Team, error) {
	query := `SELECT id, name, type, created_at FROM teams ORDER BY name ASC, id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var result []*domain.Team
	for rows.Next() {
		var t domain.Team
		var teamType string
		if err := rows.Scan(&t.ID, &t.Name, &teamType, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team row: %w", err)
		}
		t.Type = domain.TeamType(teamType)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team rows: %w", err)
	}
	return result, nil
}

// AddMember links a solicitor to a team. Returns ErrDuplicateKey if already linked
// and ErrNotFound if either side does not exist.
func (s *TeamStore) AddMember(ctx context.Context, m domain.Membership) error {
	if m.SolicitorID == "" || m.TeamID == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO solicitor_teams (solicitor_id, team_id) VALUES ($1, $2)`

	_, err := s.pool.Exec(ctx, query, m.SolicitorID, m.TeamID)
	return translate(err, "add team member")
}

// Memberships retrieves every solicitor-team link ordered by (team_id, solicitor_id).
func (s *TeamStore) Memberships(ctx context.Context) ([]domain.Membership, error) {
	query := `SELECT solicitor_id, team_id FROM solicitor_teams ORDER BY team_id ASC, solicitor_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var result []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.SolicitorID, &m.TeamID); err != nil {
			return nil, fmt.Errorf("scan membership row: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate membership rows: %w", err)
	}
	return result, nil
}

// MemberIDs retrieves solicitor IDs of a team ordered ASC.
func (s *TeamStore) MemberIDs(ctx context.Context, teamID string) ([]string, error) {
	query := `SELECT solicitor_id FROM solicitor_teams WHERE team_id = $1 ORDER BY solicitor_id ASC`

	rows, err := s.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team members: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// TeamIDsForSolicitor retrieves team IDs a solicitor belongs to ordered ASC.
func (s *TeamStore) TeamIDsForSolicitor(ctx context.Context, solicitorID string) ([]string, error) {
	query := `SELECT team_id FROM solicitor_teams WHERE solicitor_id = $1 ORDER BY team_id ASC`

	rows, err := s.pool.Query(ctx, query, solicitorID)
	if err != nil {
		return nil, fmt.Errorf("get solicitor teams: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// scanIDs scans single-column text rows.
func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate id rows: %w", err)
	}
	return ids, nil
}
