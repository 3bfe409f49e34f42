package round

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidHoles      = errors.New("holes must be 9 or 18")
	ErrInvalidCourseType = errors.New("invalid course type")
	ErrSlopeOutOfRange   = errors.New("slope out of range")
)

const (
	MinSlope = 55
	MaxSlope = 155
)

// CourseType classifies the course a round was played on.
type CourseType string

const (
	CourseTypeRegulation CourseType = "regulation"
	CourseTypeExecutive  CourseType = "executive"
	CourseTypePar3       CourseType = "par3"
	CourseTypePractice   CourseType = "practice"
)

var AllCourseTypes = map[CourseType]struct{}{
	CourseTypeRegulation: {},
	CourseTypeExecutive:  {},
	CourseTypePar3:       {},
	CourseTypePractice:   {},
}

// ParseCourseType maps stored or submitted text to a CourseType.
// Blank input falls back to regulation.
func ParseCourseType(v string) (CourseType, error) {
	value := CourseType(strings.ToLower(strings.TrimSpace(v)))
	if value == "" {
		return CourseTypeRegulation, nil
	}
	if _, ok := AllCourseTypes[value]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCourseType, v)
	}
	return value, nil
}

// Holes is the number of holes played in a round.
type Holes int

const (
	NineHoles     Holes = 9
	EighteenHoles Holes = 18
)

func (h Holes) Valid() bool {
	return h == NineHoles || h == EighteenHoles
}

// Round is one played round with its differential fixed at creation time.
// Only IncludeInHandicap changes after the round is stored.
type Round struct {
	ID                string
	Date              Date
	Course            string
	Tees              string
	CourseType        CourseType
	Holes             Holes
	Score             int
	Par               int
	Rating            float64
	Slope             int
	AdjScore          int
	Differential      float64
	IncludeInHandicap bool
	CreatedAt         time.Time
}

func (r Round) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("round id is required")
	}
	if r.Date.IsZero() {
		return fmt.Errorf("round date is required")
	}
	if strings.TrimSpace(r.Course) == "" {
		return fmt.Errorf("round course is required")
	}
	if _, ok := AllCourseTypes[r.CourseType]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCourseType, r.CourseType)
	}
	if !r.Holes.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidHoles, r.Holes)
	}
	if math.IsNaN(r.Differential) || math.IsInf(r.Differential, 0) {
		return fmt.Errorf("round differential must be finite")
	}

	return nil
}

// Input is the validated form payload a round is created from.
type Input struct {
	Date              Date
	Course            string
	Tees              string
	Holes             Holes
	Score             int
	Par               int
	Rating            float64
	Slope             int
	CourseType        CourseType
	IncludeInHandicap bool
}

func (in Input) Validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if strings.TrimSpace(in.Course) == "" {
		return fmt.Errorf("course is required")
	}
	if !in.Holes.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidHoles, in.Holes)
	}
	if in.Score <= 0 {
		return fmt.Errorf("score must be greater than zero")
	}
	if in.Par <= 0 {
		return fmt.Errorf("par must be greater than zero")
	}
	if math.IsNaN(in.Rating) || math.IsInf(in.Rating, 0) || in.Rating <= 0 {
		return fmt.Errorf("rating must be a positive number")
	}
	if in.Slope < MinSlope || in.Slope > MaxSlope {
		return fmt.Errorf("%w: slope=%d valid=[%d,%d]", ErrSlopeOutOfRange, in.Slope, MinSlope, MaxSlope)
	}
	if _, ok := AllCourseTypes[in.CourseType]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCourseType, in.CourseType)
	}

	return nil
}
