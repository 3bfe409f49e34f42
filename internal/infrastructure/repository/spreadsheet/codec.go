package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/golf-handicap/internal/domain/handicap"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

// ErrMalformedRow marks a sheet row that cannot be decoded into a round.
var ErrMalformedRow = crerr.New("malformed round row")

const (
	colID = iota
	colDate
	colCourse
	colTees
	colCourseType
	colHoles
	colScore
	colPar
	colRating
	colSlope
	colAdjScore
	colDifferential
	colInclude
	colCreatedAt
)

// Header is the first row of a rounds sheet. Every cell below it is stored as text.
var Header = []string{
	"ID",
	"Date",
	"Course",
	"Tees",
	"CourseType",
	"Holes",
	"Score",
	"Par",
	"Rating",
	"Slope",
	"AdjScore",
	"Differential",
	"IncludeInHandicap",
	"CreatedAt",
}

const (
	includeFalse = "FALSE"
	includeTrue  = "TRUE"
)

func EncodeRow(item round.Round) []string {
	createdAt := ""
	if !item.CreatedAt.IsZero() {
		createdAt = item.CreatedAt.UTC().Format(time.RFC3339)
	}

	return []string{
		colID:           item.ID,
		colDate:         item.Date.String(),
		colCourse:       item.Course,
		colTees:         item.Tees,
		colCourseType:   string(item.CourseType),
		colHoles:        strconv.Itoa(int(item.Holes)),
		colScore:        strconv.Itoa(item.Score),
		colPar:          strconv.Itoa(item.Par),
		colRating:       strconv.FormatFloat(item.Rating, 'f', -1, 64),
		colSlope:        strconv.Itoa(item.Slope),
		colAdjScore:     strconv.Itoa(item.AdjScore),
		colDifferential: strconv.FormatFloat(item.Differential, 'f', 2, 64),
		colInclude:      EncodeInclude(item.IncludeInHandicap),
		colCreatedAt:    createdAt,
	}
}

func EncodeInclude(include bool) string {
	if include {
		return includeTrue
	}
	return includeFalse
}

// DecodeInclude is true unless the cell holds exactly FALSE.
func DecodeInclude(v string) bool {
	return strings.TrimSpace(v) != includeFalse
}

// DecodeRow turns stored text cells into a round.
// A blank course type decodes as regulation. Blank AdjScore or Differential
// cells are derived from the score columns; stored values are kept as written.
func DecodeRow(cells []string) (round.Round, error) {
	cell := func(i int) string {
		if i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	id := cell(colID)
	if id == "" {
		return round.Round{}, malformed("missing id")
	}

	date, err := round.ParseDate(cell(colDate))
	if err != nil {
		return round.Round{}, malformedField(err, "Date", cell(colDate))
	}
	courseType, err := round.ParseCourseType(cell(colCourseType))
	if err != nil {
		return round.Round{}, malformedField(err, "CourseType", cell(colCourseType))
	}

	ints := map[int]int{}
	for _, col := range []int{colHoles, colScore, colPar, colSlope} {
		v, err := strconv.Atoi(cell(col))
		if err != nil {
			return round.Round{}, malformedField(err, Header[col], cell(col))
		}
		ints[col] = v
	}

	rating, err := strconv.ParseFloat(cell(colRating), 64)
	if err != nil {
		return round.Round{}, malformedField(err, "Rating", cell(colRating))
	}

	item := round.Round{
		ID:                id,
		Date:              date,
		Course:            cell(colCourse),
		Tees:              cell(colTees),
		CourseType:        courseType,
		Holes:             round.Holes(ints[colHoles]),
		Score:             ints[colScore],
		Par:               ints[colPar],
		Rating:            rating,
		Slope:             ints[colSlope],
		IncludeInHandicap: DecodeInclude(cell(colInclude)),
	}

	if cell(colAdjScore) == "" || cell(colDifferential) == "" {
		diff, err := handicap.ComputeDifferential(item.Score, item.Par, item.Rating, item.Slope, item.Holes)
		if err != nil {
			return round.Round{}, crerr.Mark(crerr.Wrapf(err, "derive differential for %s", id), ErrMalformedRow)
		}
		item.AdjScore = diff.AdjScore
		item.Differential = diff.Value
	} else {
		if item.AdjScore, err = strconv.Atoi(cell(colAdjScore)); err != nil {
			return round.Round{}, malformedField(err, "AdjScore", cell(colAdjScore))
		}
		if item.Differential, err = strconv.ParseFloat(cell(colDifferential), 64); err != nil {
			return round.Round{}, malformedField(err, "Differential", cell(colDifferential))
		}
	}

	if raw := cell(colCreatedAt); raw != "" {
		if item.CreatedAt, err = time.Parse(time.RFC3339, raw); err != nil {
			return round.Round{}, malformedField(err, "CreatedAt", raw)
		}
	}

	if err := item.Validate(); err != nil {
		return round.Round{}, crerr.Mark(crerr.Wrapf(err, "round %s", id), ErrMalformedRow)
	}

	return item, nil
}

func malformed(msg string) error {
	return crerr.Mark(crerr.New(msg), ErrMalformedRow)
}

func malformedField(err error, column, raw string) error {
	return crerr.Mark(crerr.Wrapf(err, "column %s value %q", column, raw), ErrMalformedRow)
}
