package httpapi

import (
	"fmt"
	"time"

	"github.com/riskibarqy/golf-handicap/internal/domain/handicap"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/usecase"
)

type createRoundRequest struct {
	Date              string  `json:"date" validate:"required"`
	Course            string  `json:"course" validate:"required,max=120"`
	Tees              string  `json:"tees" validate:"omitempty,max=60"`
	Holes             int     `json:"holes" validate:"required,oneof=9 18"`
	Score             int     `json:"score" validate:"required,gt=0"`
	Par               int     `json:"par" validate:"required,gt=0"`
	Rating            float64 `json:"rating" validate:"required,gt=0"`
	Slope             int     `json:"slope" validate:"required,min=55,max=155"`
	CourseType        string  `json:"courseType" validate:"omitempty,oneof=regulation executive par3 practice"`
	IncludeInHandicap *bool   `json:"includeInHandicap"`
}

func (req createRoundRequest) toInput(dates DateParser) (round.Input, error) {
	date, err := dates.Parse(req.Date)
	if err != nil {
		return round.Input{}, fmt.Errorf("%w: date: %w", usecase.ErrInvalidInput, err)
	}
	courseType, err := round.ParseCourseType(req.CourseType)
	if err != nil {
		return round.Input{}, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err)
	}

	include := true
	if req.IncludeInHandicap != nil {
		include = *req.IncludeInHandicap
	}

	return round.Input{
		Date:              date,
		Course:            req.Course,
		Tees:              req.Tees,
		Holes:             round.Holes(req.Holes),
		Score:             req.Score,
		Par:               req.Par,
		Rating:            req.Rating,
		Slope:             req.Slope,
		CourseType:        courseType,
		IncludeInHandicap: include,
	}, nil
}

type updateRoundRequest struct {
	IncludeInHandicap *bool `json:"includeInHandicap" validate:"required"`
}

type roundDTO struct {
	ID                string  `json:"id"`
	Date              string  `json:"date"`
	Course            string  `json:"course"`
	Tees              string  `json:"tees,omitempty"`
	CourseType        string  `json:"courseType"`
	Holes             int     `json:"holes"`
	Score             int     `json:"score"`
	Par               int     `json:"par"`
	Rating            float64 `json:"rating"`
	Slope             int     `json:"slope"`
	AdjScore          int     `json:"adjScore"`
	Differential      float64 `json:"differential"`
	IncludeInHandicap bool    `json:"includeInHandicap"`
	CreatedAt         string  `json:"createdAt,omitempty"`
}

type handicapDTO struct {
	Handicap            *float64 `json:"handicap"`
	RoundsUsed          int      `json:"roundsUsed"`
	TotalHandicapRounds int      `json:"totalHandicapRounds"`
	UsedRoundIDs        []string `json:"usedRoundIds"`
}

type statsDTO struct {
	Total int      `json:"total"`
	Avg   *float64 `json:"avg"`
	Best  *float64 `json:"best"`
	Trend *float64 `json:"trend"`
}

type summaryDTO struct {
	Overall           handicapDTO `json:"overall"`
	Regulation        handicapDTO `json:"regulation"`
	AllCourses        statsDTO    `json:"allCourses"`
	RegulationCourses statsDTO    `json:"regulationCourses"`
	Degraded          bool        `json:"degraded"`
}

func roundToDTO(v round.Round) roundDTO {
	createdAt := ""
	if !v.CreatedAt.IsZero() {
		createdAt = v.CreatedAt.UTC().Format(time.RFC3339)
	}

	return roundDTO{
		ID:                v.ID,
		Date:              v.Date.String(),
		Course:            v.Course,
		Tees:              v.Tees,
		CourseType:        string(v.CourseType),
		Holes:             int(v.Holes),
		Score:             v.Score,
		Par:               v.Par,
		Rating:            v.Rating,
		Slope:             v.Slope,
		AdjScore:          v.AdjScore,
		Differential:      v.Differential,
		IncludeInHandicap: v.IncludeInHandicap,
		CreatedAt:         createdAt,
	}
}

func roundsToDTO(items []round.Round) []roundDTO {
	out := make([]roundDTO, 0, len(items))
	for _, item := range items {
		out = append(out, roundToDTO(item))
	}
	return out
}

func indexToDTO(v usecase.IndexResult) handicapDTO {
	out := handicapDTO{UsedRoundIDs: []string{}}
	if !v.Available {
		return out
	}

	value := v.Index.Value
	out.Handicap = &value
	out.RoundsUsed = v.Index.RoundsUsed
	out.TotalHandicapRounds = v.Index.TotalHandicapRounds
	out.UsedRoundIDs = append(out.UsedRoundIDs, v.Index.UsedRoundIDs...)
	return out
}

func statsToDTO(v handicap.Stats) statsDTO {
	return statsDTO{
		Total: v.Total,
		Avg:   measurePtr(v.Average),
		Best:  measurePtr(v.Best),
		Trend: measurePtr(v.Trend),
	}
}

// measurePtr renders an unavailable measure as JSON null.
func measurePtr(m handicap.Measure) *float64 {
	if !m.Valid {
		return nil
	}
	value := m.Value
	return &value
}

func summaryToDTO(v usecase.Summary) summaryDTO {
	return summaryDTO{
		Overall:           indexToDTO(v.Overall),
		Regulation:        indexToDTO(v.Regulation),
		AllCourses:        statsToDTO(v.AllCourses),
		RegulationCourses: statsToDTO(v.RegulationStats),
		Degraded:          v.Degraded,
	}
}
