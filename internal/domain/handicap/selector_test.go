package handicap

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

func regulationRound(id string, differential float64) round.Round {
	return round.Round{
		ID:                id,
		Date:              round.Date{Year: 2026, Month: time.March, Day: 1},
		Course:            "Municipal",
		CourseType:        round.CourseTypeRegulation,
		Holes:             round.EighteenHoles,
		Score:             90,
		Par:               72,
		Rating:            70,
		Slope:             113,
		AdjScore:          90,
		Differential:      differential,
		IncludeInHandicap: true,
	}
}

func roundsWithDifferentials(diffs ...float64) []round.Round {
	out := make([]round.Round, 0, len(diffs))
	for i, d := range diffs {
		out = append(out, regulationRound(fmt.Sprintf("r%02d", i+1), d))
	}
	return out
}

func fakeRounds(f *gofakeit.Faker, n int) []round.Round {
	courseTypes := []string{
		string(round.CourseTypeRegulation),
		string(round.CourseTypeExecutive),
		string(round.CourseTypePar3),
		string(round.CourseTypePractice),
	}

	out := make([]round.Round, 0, n)
	for i := 0; i < n; i++ {
		holes := round.EighteenHoles
		if f.Bool() {
			holes = round.NineHoles
		}
		score := f.Number(70, 110)
		if holes == round.NineHoles {
			score = f.Number(35, 55)
		}
		rating := float64(f.Number(660, 760)) / 10
		slope := f.Number(round.MinSlope, round.MaxSlope)
		diff, err := ComputeDifferential(score, 72, rating, slope, holes)
		if err != nil {
			panic(err)
		}

		played := f.DateRange(
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		)
		out = append(out, round.Round{
			ID:                f.UUID(),
			Date:              round.DateOf(played),
			Course:            f.Company(),
			CourseType:        round.CourseType(f.RandomString(courseTypes)),
			Holes:             holes,
			Score:             score,
			Par:               72,
			Rating:            rating,
			Slope:             slope,
			AdjScore:          diff.AdjScore,
			Differential:      diff.Value,
			IncludeInHandicap: f.Number(0, 9) > 1,
		})
	}
	return out
}

func TestDifferentialsToUse(t *testing.T) {
	cases := map[int]int{
		0:  0,
		1:  1,
		3:  1,
		4:  1,
		5:  1,
		7:  2,
		9:  2,
		10: 4,
		12: 4,
		15: 6,
		19: 7,
		20: 8,
		40: 8,
	}

	for n, want := range cases {
		if got := DifferentialsToUse(n); got != want {
			t.Fatalf("n=%d: expected %d, got %d", n, want, got)
		}
	}
}

func TestComputeHandicap_NoEligibleRounds(t *testing.T) {
	if _, ok := ComputeHandicap(nil, false); ok {
		t.Fatalf("expected no handicap for empty history")
	}

	excluded := regulationRound("r1", 12.3)
	excluded.IncludeInHandicap = false
	if _, ok := ComputeHandicap([]round.Round{excluded}, false); ok {
		t.Fatalf("expected no handicap when every round is excluded")
	}

	executive := regulationRound("r2", 8.1)
	executive.CourseType = round.CourseTypeExecutive
	if _, ok := ComputeHandicap([]round.Round{executive}, true); ok {
		t.Fatalf("expected no regulation handicap from executive rounds")
	}
	if _, ok := ComputeHandicap([]round.Round{executive}, false); !ok {
		t.Fatalf("expected overall handicap from executive round")
	}
}

func TestComputeHandicap_SingleRoundScenario(t *testing.T) {
	diff, err := ComputeDifferential(90, 72, 71.2, 125, round.EighteenHoles)
	if err != nil {
		t.Fatalf("compute differential: %v", err)
	}
	item := regulationRound("r1", diff.Value)

	got, ok := ComputeHandicap([]round.Round{item}, false)
	if !ok {
		t.Fatalf("expected handicap")
	}
	if !almostEqual(got.Value, 16.32) {
		t.Fatalf("expected handicap 16.32, got %v", got.Value)
	}
	if got.RoundsUsed != 1 || got.TotalHandicapRounds != 1 {
		t.Fatalf("unexpected counts: used=%d total=%d", got.RoundsUsed, got.TotalHandicapRounds)
	}
	if !slices.Equal(got.UsedRoundIDs, []string{"r1"}) {
		t.Fatalf("unexpected used round ids: %v", got.UsedRoundIDs)
	}
}

func TestComputeHandicap_AveragesLowestDifferentials(t *testing.T) {
	// 12 eligible rounds use floor(12*0.4) = 4 differentials.
	rounds := roundsWithDifferentials(20, 14, 3, 18, 9, 11, 25, 6, 30, 12, 16, 22)

	got, ok := ComputeHandicap(rounds, false)
	if !ok {
		t.Fatalf("expected handicap")
	}

	want := (3.0 + 6.0 + 9.0 + 11.0) / 4 * 0.96
	if !almostEqual(got.Value, want) {
		t.Fatalf("expected handicap %v, got %v", want, got.Value)
	}
	if got.RoundsUsed != 4 || got.TotalHandicapRounds != 12 {
		t.Fatalf("unexpected counts: used=%d total=%d", got.RoundsUsed, got.TotalHandicapRounds)
	}
	if !slices.Equal(got.UsedRoundIDs, []string{"r03", "r08", "r05", "r06"}) {
		t.Fatalf("unexpected used round ids: %v", got.UsedRoundIDs)
	}
}

func TestComputeHandicap_RoundsUsedTable(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{n: 3, want: 1},
		{n: 7, want: 2},
		{n: 12, want: 4},
		{n: 20, want: 8},
		{n: 27, want: 8},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("n=%d", tc.n), func(t *testing.T) {
			diffs := make([]float64, tc.n)
			for i := range diffs {
				diffs[i] = float64(tc.n - i)
			}

			got, ok := ComputeHandicap(roundsWithDifferentials(diffs...), false)
			if !ok {
				t.Fatalf("expected handicap")
			}
			if got.RoundsUsed != tc.want {
				t.Fatalf("expected %d rounds used, got %d", tc.want, got.RoundsUsed)
			}
			if got.TotalHandicapRounds != tc.n {
				t.Fatalf("expected %d total rounds, got %d", tc.n, got.TotalHandicapRounds)
			}
		})
	}
}

func TestComputeHandicap_RegulationOnlyFiltersCourseType(t *testing.T) {
	rounds := roundsWithDifferentials(10, 20)
	par3 := regulationRound("par3", 1)
	par3.CourseType = round.CourseTypePar3
	rounds = append(rounds, par3)

	overall, ok := ComputeHandicap(rounds, false)
	if !ok {
		t.Fatalf("expected overall handicap")
	}
	if !almostEqual(overall.Value, 0.96) {
		t.Fatalf("expected overall handicap 0.96, got %v", overall.Value)
	}

	regulation, ok := ComputeHandicap(rounds, true)
	if !ok {
		t.Fatalf("expected regulation handicap")
	}
	if !almostEqual(regulation.Value, 9.6) || regulation.TotalHandicapRounds != 2 {
		t.Fatalf("unexpected regulation handicap: %+v", regulation)
	}
}

func TestComputeHandicap_OrderIndependent(t *testing.T) {
	f := gofakeit.New(42)
	for _, n := range []int{4, 9, 16, 31} {
		rounds := fakeRounds(f, n)
		before := slices.Clone(rounds)

		want, wantOK := ComputeHandicap(rounds, false)
		if !slices.EqualFunc(rounds, before, func(a, b round.Round) bool { return a.ID == b.ID }) {
			t.Fatalf("n=%d: input order was modified", n)
		}

		for attempt := 0; attempt < 5; attempt++ {
			shuffled := slices.Clone(rounds)
			f.ShuffleAnySlice(shuffled)

			got, gotOK := ComputeHandicap(shuffled, false)
			if gotOK != wantOK {
				t.Fatalf("n=%d: availability changed after shuffle", n)
			}
			if !almostEqual(got.Value, want.Value) || got.RoundsUsed != want.RoundsUsed || got.TotalHandicapRounds != want.TotalHandicapRounds {
				t.Fatalf("n=%d: shuffled result %+v differs from %+v", n, got, want)
			}
		}
	}
}

func TestComputeHandicap_ToggleTwiceRestoresResult(t *testing.T) {
	rounds := roundsWithDifferentials(20, 14, 3, 18, 9, 11, 25)
	want, _ := ComputeHandicap(rounds, false)

	rounds[2].IncludeInHandicap = !rounds[2].IncludeInHandicap
	toggled, _ := ComputeHandicap(rounds, false)
	if almostEqual(toggled.Value, want.Value) {
		t.Fatalf("expected excluding the best round to change the handicap")
	}

	rounds[2].IncludeInHandicap = !rounds[2].IncludeInHandicap
	got, _ := ComputeHandicap(rounds, false)
	if got.Value != want.Value || got.RoundsUsed != want.RoundsUsed || got.TotalHandicapRounds != want.TotalHandicapRounds {
		t.Fatalf("expected %+v after toggling twice, got %+v", want, got)
	}
}

func TestComputeHandicap_DeleteRemovesOnlyThatRound(t *testing.T) {
	rounds := roundsWithDifferentials(20, 14, 3, 18, 9, 11)
	remaining := slices.DeleteFunc(slices.Clone(rounds), func(r round.Round) bool { return r.ID == "r03" })

	got, ok := ComputeHandicap(remaining, false)
	if !ok {
		t.Fatalf("expected handicap")
	}
	if slices.Contains(got.UsedRoundIDs, "r03") {
		t.Fatalf("deleted round must not be used: %v", got.UsedRoundIDs)
	}
	if got.TotalHandicapRounds != 5 {
		t.Fatalf("expected 5 eligible rounds, got %d", got.TotalHandicapRounds)
	}
	for i, item := range remaining {
		original := rounds[slices.IndexFunc(rounds, func(r round.Round) bool { return r.ID == item.ID })]
		if item.Differential != original.Differential {
			t.Fatalf("round %d differential changed after delete", i)
		}
	}
}
