// Package main runs the engagement dashboard API server.
//
// Storage is either PostgreSQL (people, events, mentions) plus ClickHouse
// (daily counters), migrated on start, or in-memory stores seeded with demo data.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"engagement-dashboard/internal/calendar"
	"engagement-dashboard/internal/config"
	"engagement-dashboard/internal/engagement"
	"engagement-dashboard/internal/events"
	"engagement-dashboard/internal/fixtures"
	"engagement-dashboard/internal/httpapi"
	"engagement-dashboard/internal/leaderboard"
	"engagement-dashboard/internal/observability"
	chstore "engagement-dashboard/internal/storage/clickhouse"
	"engagement-dashboard/internal/storage/migrations"
	pgstore "engagement-dashboard/internal/storage/postgres"
	"engagement-dashboard/internal/timeline"
)

const shutdownTimeout = 15 * time.Second

func main() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	overrides := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(overrides.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	overrides.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.DevLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := time.Now
	metrics := observability.DefaultMetrics
	metrics.MarkStarted(now())

	stores, cleanup, err := createStores(ctx, cfg, calendar.Today(now(), loc), logger)
	if err != nil {
		return fmt.Errorf("create stores: %w", err)
	}
	defer cleanup()

	provider := engagement.NewStoreProvider(stores.Stats, stores.Solicitors, stores.Teams)
	api := httpapi.New(httpapi.Deps{
		Solicitors: stores.Solicitors,
		Teams:      stores.Teams,
		Engagement: engagement.NewService(provider, logger,
			engagement.WithTimeout(cfg.ProviderTimeout),
			engagement.WithMetrics(metrics),
		),
		Summaries:   provider,
		Leaderboard: leaderboard.NewService(stores.Solicitors, stores.Teams, stores.Stats),
		Timeline:    timeline.NewService(stores.Stats, stores.Mentions),
		Events: events.NewService(stores.Events, stores.Solicitors, stores.Stats, logger,
			events.WithMetrics(metrics),
		),
		Metrics:         metrics,
		Logger:          logger,
		Auth:            cfg.BasicAuth,
		DefaultMetrics:  cfg.DefaultMetrics,
		LeaderboardSize: cfg.LeaderboardSize,
		Now:             now,
		Location:        loc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("addr", cfg.Addr),
			zap.Bool("memory", cfg.UseMemory),
			zap.String("timezone", loc.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// createStores opens the configured backends. In memory mode the stores are
// seeded with demo data ending today.
func createStores(ctx context.Context, cfg *config.Config, today calendar.DateKey, logger *zap.Logger) (fixtures.Stores, func(), error) {
	if cfg.UseMemory {
		stores := fixtures.NewMemoryStores()
		if err := fixtures.Load(ctx, stores, today); err != nil {
			return fixtures.Stores{}, nil, err
		}
		logger.Info("using in-memory storage with demo data", zap.String("today", today.String()))
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return fixtures.Stores{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.ApplyPostgres(ctx, pool); err != nil {
		pool.Close()
		return fixtures.Stores{}, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	// ClickHouse
	if err := chstore.EnsureDatabase(ctx, cfg.ClickhouseDSN); err != nil {
		pool.Close()
		return fixtures.Stores{}, nil, err
	}
	chConn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return fixtures.Stores{}, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := migrations.ApplyClickhouse(ctx, chConn); err != nil {
		chConn.Close()
		pool.Close()
		return fixtures.Stores{}, nil, fmt.Errorf("migrate clickhouse: %w", err)
	}

	stores := fixtures.Stores{
		// PostgreSQL stores (people, events, mentions)
		Solicitors: pgstore.NewSolicitorStore(pool),
		Teams:      pgstore.NewTeamStore(pool),
		Events:     pgstore.NewEventStore(pool),
		Mentions:   pgstore.NewMentionStore(pool),

		// ClickHouse stores (daily counters)
		Stats: chstore.NewDailyStatStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}
