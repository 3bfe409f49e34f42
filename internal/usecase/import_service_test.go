package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/golf-handicap/internal/platform/id"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/riskibarqy/golf-handicap/internal/platform/resilience"
)

type stubCreator struct {
	failCourse string
}

func (s stubCreator) Create(_ context.Context, in round.Input) (round.Round, error) {
	if in.Course == s.failCourse {
		return round.Round{}, fmt.Errorf("%w: create round: %w", ErrDependencyUnavailable, resilience.ErrCircuitOpen)
	}
	if err := in.Validate(); err != nil {
		return round.Round{}, inputError(err)
	}
	return round.Round{ID: "id-" + in.Course}, nil
}

func TestImportService_ReportsEachRow(t *testing.T) {
	t.Parallel()

	good := validInput()
	good.Course = "good"
	unavailable := validInput()
	unavailable.Course = "down"
	badSlope := validInput()
	badSlope.Course = "steep"
	badSlope.Slope = 400

	rows := []ImportRow{
		{Row: 5, Input: badSlope},
		{Row: 2, Input: good},
		{Row: 4, Err: errors.New("column date value \"soon\"")},
		{Row: 3, Input: unavailable},
	}

	result, err := NewImportService(stubCreator{failCourse: "down"}, 2, logging.NewNop()).Import(context.Background(), rows)
	if err != nil {
		t.Fatalf("import rows: %v", err)
	}

	wantStatus := []string{ImportStatusCreated, ImportStatusFailed, ImportStatusInvalid, ImportStatusInvalid}
	for i, row := range result.Rows {
		if row.Row != i+2 {
			t.Fatalf("expected rows ordered by sheet row, got %+v", result.Rows)
		}
		if row.Status != wantStatus[i] {
			t.Fatalf("row %d: expected %s, got %s (%s)", row.Row, wantStatus[i], row.Status, row.Message)
		}
	}
	if result.Rows[0].RoundID != "id-good" {
		t.Fatalf("unexpected round id %q", result.Rows[0].RoundID)
	}
	if result.CreatedCount != 1 || result.InvalidCount != 2 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}

func TestImportService_CreatesThroughRoundService(t *testing.T) {
	t.Parallel()

	repo := memory.NewRoundRepository(nil)
	rounds := NewRoundService(repo, id.NewUUIDGenerator(), logging.NewNop())

	rows := make([]ImportRow, 0, 12)
	for i := 0; i < 12; i++ {
		in := validInput()
		in.Course = fmt.Sprintf("course-%02d", i)
		rows = append(rows, ImportRow{Row: i + 2, Input: in})
	}

	result, err := NewImportService(rounds, 4, logging.NewNop()).Import(context.Background(), rows)
	if err != nil {
		t.Fatalf("import rows: %v", err)
	}
	if result.CreatedCount != len(rows) {
		t.Fatalf("expected %d created rounds, got %+v", len(rows), result)
	}

	stored, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list stored rounds: %v", err)
	}
	local, _ := rounds.Rounds(context.Background())
	if len(stored) != len(rows) || len(local) != len(rows) {
		t.Fatalf("expected %d rounds in store and snapshot, got %d and %d", len(rows), len(stored), len(local))
	}
}

func TestImportService_EmptyInput(t *testing.T) {
	t.Parallel()

	result, err := NewImportService(stubCreator{}, 0, nil).Import(context.Background(), nil)
	if err != nil || len(result.Rows) != 0 {
		t.Fatalf("expected empty result, got %+v err=%v", result, err)
	}
}

type panickingCreator struct{}

func (panickingCreator) Create(_ context.Context, in round.Input) (round.Round, error) {
	if in.Course == "boom" {
		panic("sheet exploded")
	}
	return round.Round{ID: "id-" + in.Course}, nil
}

func TestImportService_PanicFailsOnlyThatRow(t *testing.T) {
	t.Parallel()

	good := validInput()
	good.Course = "good"
	boom := validInput()
	boom.Course = "boom"

	result, err := NewImportService(panickingCreator{}, 2, logging.NewNop()).Import(context.Background(), []ImportRow{
		{Row: 2, Input: good},
		{Row: 3, Input: boom},
	})
	if err != nil {
		t.Fatalf("import rows: %v", err)
	}
	if result.CreatedCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Rows[1].Status != ImportStatusFailed || !strings.Contains(result.Rows[1].Message, "sheet exploded") {
		t.Fatalf("expected panicking row to fail, got %+v", result.Rows[1])
	}
}

type recordingCreator struct {
	courses []string
}

func (r *recordingCreator) Create(_ context.Context, in round.Input) (round.Round, error) {
	r.courses = append(r.courses, in.Course)
	return round.Round{ID: "id-" + in.Course}, nil
}

func TestImportService_CreatesInSheetRowOrder(t *testing.T) {
	t.Parallel()

	rows := make([]ImportRow, 0, 9)
	for _, n := range []int{7, 2, 9, 4, 3, 10, 6, 5, 8} {
		in := validInput()
		in.Course = fmt.Sprintf("row-%02d", n)
		rows = append(rows, ImportRow{Row: n, Input: in})
	}
	rows[4].Input.Slope = 0

	creator := &recordingCreator{}
	result, err := NewImportService(creator, 4, logging.NewNop()).Import(context.Background(), rows)
	if err != nil {
		t.Fatalf("import rows: %v", err)
	}

	want := []string{"row-02", "row-04", "row-05", "row-06", "row-07", "row-08", "row-09", "row-10"}
	if strings.Join(creator.courses, ",") != strings.Join(want, ",") {
		t.Fatalf("expected creates in row order, got %v", creator.courses)
	}
	if result.CreatedCount != 8 || result.InvalidCount != 1 || result.Rows[1].Row != 3 || result.Rows[1].Status != ImportStatusInvalid {
		t.Fatalf("unexpected result: %+v", result)
	}
}
