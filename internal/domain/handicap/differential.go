package handicap

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

// ErrComputation marks numeric input the calculator cannot turn into a finite differential.
var ErrComputation = errors.New("handicap computation failed")

// standardSlope is the slope rating of a course of average difficulty.
const standardSlope = 113

// Differential is the normalized result for one round.
type Differential struct {
	AdjScore int
	AdjPar   int
	Value    float64
}

// ComputeDifferential normalizes a raw score to an 18-hole differential.
//
// Nine-hole rounds double score and par only. Rating and slope are already
// 18-hole course metrics and are used as given for both lengths.
func ComputeDifferential(score, par int, rating float64, slope int, holes round.Holes) (Differential, error) {
	if !holes.Valid() {
		return Differential{}, fmt.Errorf("%w: %w", ErrComputation, round.ErrInvalidHoles)
	}
	if slope <= 0 {
		return Differential{}, fmt.Errorf("%w: slope must be greater than zero, got %d", ErrComputation, slope)
	}
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return Differential{}, fmt.Errorf("%w: rating must be finite", ErrComputation)
	}

	adjScore, adjPar := score, par
	if holes == round.NineHoles {
		adjScore, adjPar = score*2, par*2
	}

	value := (float64(adjScore) - rating) * standardSlope / float64(slope)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Differential{}, fmt.Errorf("%w: differential is not finite", ErrComputation)
	}

	return Differential{
		AdjScore: adjScore,
		AdjPar:   adjPar,
		Value:    roundTo(value, 2),
	}, nil
}

// NewRound builds a stored round from validated input.
func NewRound(id string, in round.Input, createdAt time.Time) (round.Round, error) {
	if err := in.Validate(); err != nil {
		return round.Round{}, fmt.Errorf("validate round input: %w", err)
	}

	diff, err := ComputeDifferential(in.Score, in.Par, in.Rating, in.Slope, in.Holes)
	if err != nil {
		return round.Round{}, err
	}

	item := round.Round{
		ID:                id,
		Date:              in.Date,
		Course:            strings.TrimSpace(in.Course),
		Tees:              strings.TrimSpace(in.Tees),
		CourseType:        in.CourseType,
		Holes:             in.Holes,
		Score:             in.Score,
		Par:               in.Par,
		Rating:            in.Rating,
		Slope:             in.Slope,
		AdjScore:          diff.AdjScore,
		Differential:      diff.Value,
		IncludeInHandicap: in.IncludeInHandicap,
		CreatedAt:         createdAt,
	}
	if err := item.Validate(); err != nil {
		return round.Round{}, fmt.Errorf("validate round: %w", err)
	}

	return item, nil
}

// RoundToTenth is the display rounding used for differentials and indexes.
func RoundToTenth(v float64) float64 {
	return roundTo(v, 1)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
