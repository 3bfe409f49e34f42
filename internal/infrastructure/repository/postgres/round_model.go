package postgres

import (
	"fmt"
	"time"

	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	qb "github.com/riskibarqy/golf-handicap/internal/platform/querybuilder"
)

const roundsTable = "rounds"

type roundTableModel struct {
	ID                string    `db:"id"`
	PlayedOn          time.Time `db:"played_on"`
	Course            string    `db:"course"`
	Tees              string    `db:"tees"`
	CourseType        string    `db:"course_type"`
	Holes             int       `db:"holes"`
	Score             int       `db:"score"`
	Par               int       `db:"par"`
	Rating            float64   `db:"rating"`
	Slope             int       `db:"slope"`
	AdjScore          int       `db:"adj_score"`
	Differential      float64   `db:"differential"`
	IncludeInHandicap bool      `db:"include_in_handicap"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

var roundColumns = qb.MustModelColumns(roundTableModel{})

func roundToRow(item round.Round) roundTableModel {
	createdAt := item.CreatedAt.UTC()
	return roundTableModel{
		ID:                item.ID,
		PlayedOn:          item.Date.Time(),
		Course:            item.Course,
		Tees:              item.Tees,
		CourseType:        string(item.CourseType),
		Holes:             int(item.Holes),
		Score:             item.Score,
		Par:               item.Par,
		Rating:            item.Rating,
		Slope:             item.Slope,
		AdjScore:          item.AdjScore,
		Differential:      item.Differential,
		IncludeInHandicap: item.IncludeInHandicap,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
}

func roundFromRow(row roundTableModel) (round.Round, error) {
	courseType, err := round.ParseCourseType(row.CourseType)
	if err != nil {
		return round.Round{}, err
	}

	// DATE columns come back as midnight UTC.
	return round.Round{
		ID:                row.ID,
		Date:              round.DateOf(row.PlayedOn.UTC()),
		Course:            row.Course,
		Tees:              row.Tees,
		CourseType:        courseType,
		Holes:             round.Holes(row.Holes),
		Score:             row.Score,
		Par:               row.Par,
		Rating:            row.Rating,
		Slope:             row.Slope,
		AdjScore:          row.AdjScore,
		Differential:      row.Differential,
		IncludeInHandicap: row.IncludeInHandicap,
		CreatedAt:         row.CreatedAt,
	}, nil
}

func roundsFromRows(rows []roundTableModel) ([]round.Round, error) {
	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		item, err := roundFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: decode round %s: %w", round.ErrMalformedRound, row.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}
