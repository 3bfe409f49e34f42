package spreadsheet

import (
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

func storedRound() round.Round {
	return round.Round{
		ID:                "r1",
		Date:              round.Date{Year: 2026, Month: time.June, Day: 14},
		Course:            "Harbour Town",
		Tees:              "Gold",
		CourseType:        round.CourseTypeRegulation,
		Holes:             round.NineHoles,
		Score:             48,
		Par:               36,
		Rating:            35.5,
		Slope:             115,
		AdjScore:          96,
		Differential:      59.45,
		IncludeInHandicap: true,
		CreatedAt:         time.Date(2026, 6, 14, 17, 5, 0, 0, time.UTC),
	}
}

func TestEncodeDecodeRow(t *testing.T) {
	item := storedRound()
	cells := EncodeRow(item)
	if len(cells) != len(Header) {
		t.Fatalf("expected %d cells, got %d", len(Header), len(cells))
	}
	if cells[colRating] != "35.5" || cells[colDifferential] != "59.45" || cells[colInclude] != "TRUE" {
		t.Fatalf("unexpected encoded cells: %v", cells)
	}

	got, err := DecodeRow(cells)
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if diff := cmp.Diff(item, got); diff != "" {
		t.Fatalf("round mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRow_Defaults(t *testing.T) {
	cells := EncodeRow(storedRound())
	cells[colCourseType] = ""
	cells[colInclude] = "false"

	got, err := DecodeRow(cells)
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if got.CourseType != round.CourseTypeRegulation {
		t.Fatalf("expected regulation default, got %q", got.CourseType)
	}
	// Only the exact text FALSE excludes a round.
	if !got.IncludeInHandicap {
		t.Fatalf("expected lower-case false to keep the round included")
	}

	cells[colInclude] = "FALSE"
	got, _ = DecodeRow(cells)
	if got.IncludeInHandicap {
		t.Fatalf("expected FALSE to exclude the round")
	}
}

func TestDecodeRow_DerivesMissingDifferential(t *testing.T) {
	cells := EncodeRow(storedRound())
	cells[colAdjScore] = ""
	cells[colDifferential] = ""
	cells = cells[:colInclude]

	got, err := DecodeRow(cells)
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if got.AdjScore != 96 || got.Differential != 59.45 {
		t.Fatalf("expected derived 96 / 59.45, got %d / %v", got.AdjScore, got.Differential)
	}
	if !got.IncludeInHandicap || !got.CreatedAt.IsZero() {
		t.Fatalf("expected defaults for trailing cells, got %+v", got)
	}
}

func TestDecodeRow_Malformed(t *testing.T) {
	cases := map[string]func([]string){
		"missing id":     func(c []string) { c[colID] = " " },
		"bad date":       func(c []string) { c[colDate] = "14/06/2026" },
		"bad holes":      func(c []string) { c[colHoles] = "twelve" },
		"ten holes":      func(c []string) { c[colHoles] = "10" },
		"bad rating":     func(c []string) { c[colRating] = "n/a" },
		"bad course":     func(c []string) { c[colCourseType] = "mini" },
		"bad created at": func(c []string) { c[colCreatedAt] = "yesterday" },
		"blank course":   func(c []string) { c[colCourse] = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cells := EncodeRow(storedRound())
			mutate(cells)
			if _, err := DecodeRow(cells); !crerr.Is(err, ErrMalformedRow) {
				t.Fatalf("expected ErrMalformedRow, got %v", err)
			}
		})
	}
}
