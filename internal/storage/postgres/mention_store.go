package postgres

import (
	"context"
	"fmt"

	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// MentionStore implements storage.MentionStore using PostgreSQL.
type MentionStore struct {
	pool *Pool
}

// NewMentionStore creates a new MentionStore.
func NewMentionStore(pool *Pool) *MentionStore {
	return &MentionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MentionStore = (*MentionStore)(nil)

// Insert adds a new mention. Returns ErrDuplicateKey if id exists.
func (s *MentionStore) Insert(ctx context.Context, m *domain.Mention) error {
	if m == nil || m.ID == "" || m.SolicitorID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO mentions (id, solicitor_id, published_at, impact_score, title, source, sentiment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		m.ID, m.SolicitorID, m.PublishedAt, m.ImpactScore, m.Title, m.Source, m.Sentiment,
	)
	return translate(err, "insert mention")
}

// GetBySolicitorRange retrieves mentions published within [startMs, endMs] (inclusive).
func (s *MentionStore) GetBySolicitorRange(ctx context.Context, solicitorID string, startMs, endMs int64) ([]*domain.Mention, error) {
	query := `
		SELECT id, solicitor_id, published_at, impact_score, title, source, sentiment
		FROM mentions
		WHERE solicitor_id = $1 AND published_at >= $2 AND published_at <= $3
		ORDER BY published_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, solicitorID, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("get mentions by range: %w", err)
	}
	defer rows.Close()

	var result []*domain.Mention
	for rows.Next() {
		var m domain.Mention
		err := rows.Scan(&m.ID, &m.SolicitorID, &m.PublishedAt, &m.ImpactScore, &m.Title, &m.Source, &m.Sentiment)
		if err != nil {
			return nil, fmt.Errorf("scan mention row: %w", err)
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mention rows: %w", err)
	}
	return result, nil
}
