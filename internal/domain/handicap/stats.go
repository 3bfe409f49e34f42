package handicap

import (
	"sort"

	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

// trendWindow is the number of rounds in each of the two compared trend windows.
const trendWindow = 5

// Filter selects the rounds a statistic is computed over.
type Filter func(round.Round) bool

func CountsTowardHandicap(r round.Round) bool {
	return r.IncludeInHandicap
}

func RegulationHandicapRounds(r round.Round) bool {
	return r.IncludeInHandicap && r.CourseType == round.CourseTypeRegulation
}

// Measure is a statistic that may be unavailable for lack of data.
// Zero is a valid value, so availability is tracked separately.
type Measure struct {
	Value float64
	Valid bool
}

func available(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Stats summarizes adjusted scores of a filtered round set.
// A positive Trend means recent scores are getting worse.
type Stats struct {
	Total   int
	Average Measure
	Best    Measure
	Trend   Measure
}

// ComputeStats derives summary statistics for the rounds kept by keep.
// A nil filter keeps every round.
func ComputeStats(rounds []round.Round, keep Filter) Stats {
	filtered := make([]round.Round, 0, len(rounds))
	for _, item := range rounds {
		if keep == nil || keep(item) {
			filtered = append(filtered, item)
		}
	}

	stats := Stats{Total: len(filtered)}
	if stats.Total == 0 {
		return stats
	}

	best := filtered[0].AdjScore
	var sum int
	for _, item := range filtered {
		sum += item.AdjScore
		if item.AdjScore < best {
			best = item.AdjScore
		}
	}
	stats.Average = available(float64(sum) / float64(stats.Total))
	stats.Best = available(float64(best))

	if stats.Total < 2*trendWindow {
		return stats
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})
	recent := meanAdjScore(filtered[:trendWindow])
	previous := meanAdjScore(filtered[trendWindow : 2*trendWindow])
	stats.Trend = available(recent - previous)

	return stats
}

func meanAdjScore(items []round.Round) float64 {
	var sum int
	for _, item := range items {
		sum += item.AdjScore
	}
	return float64(sum) / float64(len(items))
}
