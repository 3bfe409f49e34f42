package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/golf-handicap/internal/domain/handicap"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

// SeedRounds returns a small demo history for local runs of the in-memory store.
func SeedRounds(createdAt time.Time) ([]round.Round, error) {
	inputs := []round.Input{
		{Date: round.Date{Year: 2026, Month: time.January, Day: 10}, Course: "Riverside Municipal", Tees: "White", Holes: round.EighteenHoles, Score: 94, Par: 72, Rating: 70.1, Slope: 121, CourseType: round.CourseTypeRegulation, IncludeInHandicap: true},
		{Date: round.Date{Year: 2026, Month: time.January, Day: 24}, Course: "Riverside Municipal", Tees: "White", Holes: round.EighteenHoles, Score: 90, Par: 72, Rating: 70.1, Slope: 121, CourseType: round.CourseTypeRegulation, IncludeInHandicap: true},
		{Date: round.Date{Year: 2026, Month: time.February, Day: 7}, Course: "Oak Hollow", Tees: "Blue", Holes: round.NineHoles, Score: 46, Par: 36, Rating: 35.4, Slope: 118, CourseType: round.CourseTypeRegulation, IncludeInHandicap: true},
		{Date: round.Date{Year: 2026, Month: time.February, Day: 21}, Course: "Lakeside Executive", Holes: round.EighteenHoles, Score: 66, Par: 58, Rating: 56.2, Slope: 92, CourseType: round.CourseTypeExecutive, IncludeInHandicap: true},
		{Date: round.Date{Year: 2026, Month: time.March, Day: 7}, Course: "Pitch Park", Holes: round.NineHoles, Score: 31, Par: 27, Rating: 26.5, Slope: 80, CourseType: round.CourseTypePar3, IncludeInHandicap: false},
	}

	out := make([]round.Round, 0, len(inputs))
	for i, in := range inputs {
		item, err := handicap.NewRound(fmt.Sprintf("seed-%02d", i+1), in, createdAt)
		if err != nil {
			return nil, fmt.Errorf("seed round %d: %w", i+1, err)
		}
		out = append(out, item)
	}
	return out, nil
}
