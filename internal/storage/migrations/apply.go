package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresExecer is satisfied by *pgxpool.Pool, pgx.Tx and *postgres.Pool.
type PostgresExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ClickhouseExecer is satisfied by driver.Conn and *clickhouse.Conn.
type ClickhouseExecer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// ApplyPostgres runs every relational migration. Files use IF NOT EXISTS, so
// re-running against a migrated database is a no-op. Postgres accepts a whole
// file per Exec.
func ApplyPostgres(ctx context.Context, db PostgresExecer) error {
	files, err := Postgres()
	if err != nil {
		return err
	}
	for _, m := range files {
		if strings.TrimSpace(m.SQL) == "" {
			continue
		}
		if _, err := db.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}
	return nil
}

// ApplyClickhouse runs every ClickHouse migration one statement at a time,
// since the native protocol rejects multi-statement queries.
func ApplyClickhouse(ctx context.Context, db ClickhouseExecer) error {
	files, err := Clickhouse()
	if err != nil {
		return err
	}
	for _, m := range files {
		stmts, err := Statements(m.SQL)
		if err != nil {
			return fmt.Errorf("split migration %s: %w", m.Name, err)
		}
		for _, stmt := range stmts {
			if err := db.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", m.Name, err)
			}
		}
	}
	return nil
}

// Statements drops "--" comment lines and splits sql on semicolons.
// A semicolon inside a single-quoted literal is an error rather than a
// silently broken statement.
func Statements(sql string) ([]string, error) {
	var kept []string
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	body := strings.Join(kept, "\n")

	var (
		stmts   []string
		current strings.Builder
		quoted  bool
	)
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\'':
			quoted = !quoted
		case ch == ';' && quoted:
			return nil, fmt.Errorf("semicolon inside string literal at offset %d", i)
		case ch == ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				stmts = append(stmts, stmt)
			}
			current.Reset()
			continue
		}
		current.WriteByte(ch)
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
