package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/golf-handicap/internal/config"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/golf-handicap/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/golf-handicap/internal/infrastructure/repository/resilient"
	"github.com/riskibarqy/golf-handicap/internal/infrastructure/repository/spreadsheet"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// NewRoundStore opens the configured round store behind the resilient decorator.
// The returned close func releases the backing connection, if any.
func NewRoundStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (round.Repository, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		store   round.Repository
		closeFn = func() error { return nil }
	)

	switch cfg.RoundStore {
	case config.StoreMemory:
		var seed []round.Round
		if cfg.SeedDemoRounds {
			rounds, err := memory.SeedRounds(time.Now().UTC())
			if err != nil {
				return nil, nil, fmt.Errorf("build demo rounds: %w", err)
			}
			seed = rounds
		}
		store = memory.NewRoundRepository(seed)
	case config.StorePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if cfg.SeedDemoRounds {
			rounds, err := memory.SeedRounds(time.Now().UTC())
			if err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("build demo rounds: %w", err)
			}
			if err := postgres.BootstrapSeed(ctx, db, rounds); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		store = postgres.NewRoundRepository(db)
		closeFn = db.Close
	case config.StoreSpreadsheet:
		store = spreadsheet.NewRoundRepository(cfg.SpreadsheetPath, cfg.SpreadsheetSheet, logger)
	default:
		return nil, nil, fmt.Errorf("unsupported round store %q", cfg.RoundStore)
	}

	logger.Info("round store ready", "store", cfg.RoundStore, "seed_demo", cfg.SeedDemoRounds)

	return resilient.NewRoundRepository(store, resilient.Config{
		Timeout:        cfg.StoreTimeout,
		Retry:          cfg.StoreRetry,
		CircuitBreaker: cfg.StoreCircuit,
	}, logger), closeFn, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := postgresDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(traceQuery),
	}
	if name := databaseName(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
