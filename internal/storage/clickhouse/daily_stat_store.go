package clickhouse

import (
	"context"
	"fmt"
	"time"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/domain"
	"engagement-dashboard/internal/storage"
)

// DailyStatStore implements storage.DailyStatStore using ClickHouse.
type DailyStatStore struct {
	conn *Conn
}

// NewDailyStatStore creates a new DailyStatStore.
func NewDailyStatStore(conn *Conn) *DailyStatStore {
	return &DailyStatStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyStatStore = (*DailyStatStore)(nil)

// InsertBulk adds multiple rows. Fails entire batch on duplicate.
func (s *DailyStatStore) InsertBulk(ctx context.Context, stats []*domain.DailyStat) error {
	if len(stats) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		kind      domain.SubjectKind
		subjectID string
		date      calendar.DateKey
		metric    string
	}
	seen := make(map[key]struct{}, len(stats))
	for _, st := range stats {
		if st == nil || !st.SubjectKind.IsValid() || st.SubjectID == "" || st.Metric == "" || !st.Date.Valid() || st.Clicks < 0 {
			return storage.ErrInvalidInput
		}
		k := key{st.SubjectKind, st.SubjectID, st.Date, st.Metric}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, st := range stats {
		exists, err := s.exists(ctx, st)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_stats (subject_kind, subject_id, date, metric, clicks)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, st := range stats {
		values, err := appendValues(st)
		if err != nil {
			return err
		}
		if err := batch.Append(values...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySubjectRange retrieves rows for a subject within [start, end], ordered by date ASC.
// An empty metric selects every metric.
func (s *DailyStatStore) GetBySubjectRange(ctx context.Context, subject domain.Subject, metric string, start, end calendar.DateKey) ([]*domain.DailyStat, error) {
	query := `
		SELECT subject_kind, subject_id, date, metric, clicks
		FROM daily_stats
		WHERE subject_kind = ? AND subject_id = ?
		  AND date >= toDate(?) AND date <= toDate(?)
		  AND (? = '' OR metric = ?)
		ORDER BY date ASC, metric ASC
	`

	rows, err := s.conn.Query(ctx, query,
		string(subject.Kind), subject.ID, start.String(), end.String(), metric, metric)
	if err != nil {
		return nil, fmt.Errorf("query by subject range: %w", err)
	}
	defer rows.Close()

	return scanDailyStats(rows)
}

// SumBySubjectRange returns per-metric totals for a subject within [start, end].
func (s *DailyStatStore) SumBySubjectRange(ctx context.Context, subject domain.Subject, start, end calendar.DateKey) (map[string]int64, error) {
	query := `
		SELECT metric, sum(clicks)
		FROM daily_stats
		WHERE subject_kind = ? AND subject_id = ?
		  AND date >= toDate(?) AND date <= toDate(?)
		GROUP BY metric
	`

	rows, err := s.conn.Query(ctx, query, string(subject.Kind), subject.ID, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("sum by subject range: %w", err)
	}
	defer rows.Close()

	return scanTotals(rows)
}

// SumByKindRange returns per-subject totals of one metric within [start, end].
func (s *DailyStatStore) SumByKindRange(ctx context.Context, kind domain.SubjectKind, metric string, start, end calendar.DateKey) (map[string]int64, error) {
	query := `
		SELECT subject_id, sum(clicks)
		FROM daily_stats
		WHERE subject_kind = ? AND metric = ?
		  AND date >= toDate(?) AND date <= toDate(?)
		GROUP BY subject_id
	`

	rows, err := s.conn.Query(ctx, query, string(kind), metric, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("sum by kind range: %w", err)
	}
	defer rows.Close()

	return scanTotals(rows)
}

// exists checks if a row with the same key exists.
func (s *DailyStatStore) exists(ctx context.Context, st *domain.DailyStat) (bool, error) {
	query := `
		SELECT count(*) FROM daily_stats
		WHERE subject_kind = ? AND subject_id = ? AND date = toDate(?) AND metric = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, string(st.SubjectKind), st.SubjectID, st.Date.String(), st.Metric).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// appendValues returns the batch column values of st in table order.
func appendValues(st *domain.DailyStat) ([]any, error) {
	day, err := st.Date.Time()
	if err != nil {
		return nil, fmt.Errorf("convert date: %w", err)
	}
	return []any{string(st.SubjectKind), st.SubjectID, day, st.Metric, uint64(st.Clicks)}, nil
}

func scanDailyStats(rows rowScanner) ([]*domain.DailyStat, error) {
	var result []*domain.DailyStat

	for rows.Next() {
		var st domain.DailyStat
		var kind string
		var date time.Time
		var clicks uint64

		if err := rows.Scan(&kind, &st.SubjectID, &date, &st.Metric, &clicks); err != nil {
			return nil, fmt.Errorf("scan daily stat row: %w", err)
		}

		key, err := calendar.ToDateKey(date)
		if err != nil {
			return nil, fmt.Errorf("convert daily stat date: %w", err)
		}
		st.SubjectKind = domain.SubjectKind(kind)
		st.Date = key
		st.Clicks = int64(clicks)
		result = append(result, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stat rows: %w", err)
	}

	return result, nil
}

func scanTotals(rows rowScanner) (map[string]int64, error) {
	totals := make(map[string]int64)

	for rows.Next() {
		var name string
		var sum uint64
		if err := rows.Scan(&name, &sum); err != nil {
			return nil, fmt.Errorf("scan total row: %w", err)
		}
		totals[name] = int64(sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate total rows: %w", err)
	}

	return totals, nil
}
