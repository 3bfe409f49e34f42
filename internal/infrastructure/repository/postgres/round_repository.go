package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	qb "github.com/riskibarqy/golf-handicap/internal/platform/querybuilder"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	query, args, err := qb.Select(roundColumns...).From(roundsTable).
		OrderBy("played_on", "created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rounds: %w", err)
	}

	return roundsFromRows(rows)
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	query, args, err := qb.InsertModel(roundsTable, roundToRow(item), "")
	if err != nil {
		return fmt.Errorf("build insert round query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: id=%s", round.ErrRoundExists, item.ID)
		}
		return fmt.Errorf("insert round: %w", err)
	}

	return nil
}

func (r *RoundRepository) SetIncludeInHandicap(ctx context.Context, roundID string, include bool) error {
	query, args, err := qb.Update(roundsTable).
		Set("include_in_handicap", include).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", roundID)).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update round query: %w", err)
	}

	var updatedID string
	if err := r.db.GetContext(ctx, &updatedID, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: id=%s", round.ErrRoundNotFound, roundID)
		}
		return fmt.Errorf("update round include flag: %w", err)
	}

	return nil
}

func (r *RoundRepository) Delete(ctx context.Context, roundID string) error {
	query, args, err := qb.DeleteFrom(roundsTable).
		Where(qb.Eq("id", roundID)).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete round query: %w", err)
	}

	var deletedID string
	if err := r.db.GetContext(ctx, &deletedID, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: id=%s", round.ErrRoundNotFound, roundID)
		}
		return fmt.Errorf("delete round: %w", err)
	}

	return nil
}
