package spreadsheet

import (
	"io"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/xuri/excelize/v2"
)

// InputRow is one data row of an import workbook. Row is the 1-based sheet row.
type InputRow struct {
	Row   int
	Input round.Input
	Err   error
}

type DateParser func(string) (round.Date, error)

var requiredInputColumns = []string{"date", "course", "holes", "score", "par", "rating", "slope"}

// ReadInputs reads round entries from a workbook whose first row names the
// columns. Column order is free and matching ignores case and spaces.
// A blank sheet name selects the first sheet.
func ReadInputs(r io.Reader, sheet string, parseDate DateParser) ([]InputRow, error) {
	if parseDate == nil {
		parseDate = round.ParseDate
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, crerr.Wrap(err, "open import workbook")
	}
	defer func() {
		_ = f.Close()
	}()

	if strings.TrimSpace(sheet) == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, crerr.Wrapf(err, "read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, crerr.Newf("sheet %q is empty", sheet)
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[normalizeHeader(name)] = i
	}
	for _, name := range requiredInputColumns {
		if _, ok := index[name]; !ok {
			return nil, crerr.Newf("sheet %q is missing column %q", sheet, name)
		}
	}

	out := make([]InputRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if isBlankRow(cells) {
			continue
		}
		rowNum := i + 2
		in, err := decodeInput(cells, index, parseDate)
		out = append(out, InputRow{Row: rowNum, Input: in, Err: err})
	}

	return out, nil
}

func decodeInput(cells []string, index map[string]int, parseDate DateParser) (round.Input, error) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}
	atoi := func(name string) (int, error) {
		v, err := strconv.Atoi(cell(name))
		if err != nil {
			return 0, malformedField(err, name, cell(name))
		}
		return v, nil
	}

	date, err := parseDate(cell("date"))
	if err != nil {
		return round.Input{}, malformedField(err, "date", cell("date"))
	}
	courseType, err := round.ParseCourseType(cell("coursetype"))
	if err != nil {
		return round.Input{}, malformedField(err, "coursetype", cell("coursetype"))
	}
	holes, err := atoi("holes")
	if err != nil {
		return round.Input{}, err
	}
	score, err := atoi("score")
	if err != nil {
		return round.Input{}, err
	}
	par, err := atoi("par")
	if err != nil {
		return round.Input{}, err
	}
	slope, err := atoi("slope")
	if err != nil {
		return round.Input{}, err
	}
	rating, err := strconv.ParseFloat(cell("rating"), 64)
	if err != nil {
		return round.Input{}, malformedField(err, "rating", cell("rating"))
	}

	return round.Input{
		Date:              date,
		Course:            cell("course"),
		Tees:              cell("tees"),
		Holes:             round.Holes(holes),
		Score:             score,
		Par:               par,
		Rating:            rating,
		Slope:             slope,
		CourseType:        courseType,
		IncludeInHandicap: DecodeInclude(cell("includeinhandicap")),
	}, nil
}

func normalizeHeader(v string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), " ", ""))
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
