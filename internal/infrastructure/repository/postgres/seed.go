package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

// BootstrapSeed inserts the given rounds only when the rounds table is empty.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, rounds []round.Round) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM rounds`); err != nil {
		return fmt.Errorf("count rounds for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range rounds {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO rounds (id, played_on, course, tees, course_type, holes, score, par, rating, slope, adj_score, differential, include_in_handicap, created_at, updated_at)
VALUES (:id, :played_on, :course, :tees, :course_type, :holes, :score, :par, :rating, :slope, :adj_score, :differential, :include_in_handicap, :created_at, :updated_at)
ON CONFLICT (id) DO NOTHING`, roundToRow(item))
		if err != nil {
			return fmt.Errorf("bind seed round %s query: %w", item.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed round %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
