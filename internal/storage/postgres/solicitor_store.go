package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// SolicitorStore implements storage.SolicitorStore using PostgreSQL.
type SolicitorStore struct {
	pool *Pool
}

// NewSolicitorStore creates a new SolicitorStore.
func NewSolicitorStore(pool *Pool) *SolicitorStore {
	return &SolicitorStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SolicitorStore = (*SolicitorStore)(nil)

const solicitorColumns = `id, name, job_title, created_at`

// Insert adds a new solicitor. Returns ErrDuplicateKey if id exists.
func (s *SolicitorStore) Insert(ctx context.Context, sol *domain.Solicitor) error {
	if sol == nil || sol.ID == "" || sol.Name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO solicitors (id, name, job_title, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, sol.ID, sol.Name, sol.JobTitle, sol.CreatedAt)
	return translate(err, "insert solicitor")
}

// GetByID retrieves a solicitor by ID. Returns ErrNotFound if not exists.
func (s *SolicitorStore) GetByID(ctx context.Context, id string) (*domain.Solicitor, error) {
	query := `SELECT ` + solicitorColumns + ` FROM solicitors WHERE id = $1`

	var sol domain.Solicitor
	err := s.pool.QueryRow(ctx, query, id).Scan(&sol.ID, &sol.Name, &sol.JobTitle, &sol.CreatedAt)
	if err != nil {
		return nil, translate(err, "get solicitor by id")
	}
	return &sol, nil
}

// List retrieves all solicitors ordered by name ASC.
func (s *SolicitorStore) List(ctx context.Context) ([]*domain.Solicitor, error) {
	query := `SELECT ` + solicitorColumns + ` FROM solicitors ORDER BY name ASC, id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list solicitors: %w", err)
	}
	defer rows.Close()

	return scanSolicitors(rows)
}

// Search retrieves solicitors whose name contains query (case-insensitive).
func (s *SolicitorStore) Search(ctx context.Context, q string) ([]*domain.Solicitor, error) {
	query := `
		SELECT ` + solicitorColumns + `
		FROM solicitors
		WHERE name ILIKE $1
		ORDER BY name ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, "%"+escapeLike(q)+"%")
	if err != nil {
		return nil, fmt.Errorf("search solicitors: %w", err)
	}
	defer rows.Close()

	return scanSolicitors(rows)
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanSolicitors(rows pgx.Rows) ([]*domain.Solicitor, error) {
	var result []*domain.Solicitor

	for rows.Next() {
		var sol domain.Solicitor
		if err := rows.Scan(&sol.ID, &sol.Name, &sol.JobTitle, &sol.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan solicitor row: %w", err)
		}
		result = append(result, &sol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solicitor rows: %w", err)
	}

	return result, nil
}
