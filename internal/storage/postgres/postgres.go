// Package postgres stores the relational side of the dashboard: solicitors,
// teams and their memberships, events with their links, and media mentions.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"engagement-dashboard/internal/storage"
)

// Pool is the shared connection pool handed to every store in this package.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects to dsn and pings the server before returning.
// maxConns of zero keeps the pgxpool default.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	return NewPoolWithMaxConns(ctx, dsn, 0)
}

// NewPoolWithMaxConns is NewPool with an explicit connection cap.
func NewPoolWithMaxConns(ctx context.Context, dsn string, maxConns int32) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

// SQLSTATE codes the stores translate into storage sentinels.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// translate maps driver errors onto storage sentinels and wraps anything else
// with op. A nil err stays nil.
//
//	unique violation      -> storage.ErrDuplicateKey
//	foreign key violation -> storage.ErrNotFound (a referenced row is missing)
//	pgx.ErrNoRows         -> storage.ErrNotFound
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return storage.ErrDuplicateKey
		case codeForeignKeyViolation:
			return storage.ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
