package handicap

import (
	"sort"

	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

// adjustmentFactor is the USGA bonus-for-excellence multiplier.
const adjustmentFactor = 0.96

// Index is a computed Handicap Index. Value is left unrounded.
type Index struct {
	Value               float64
	RoundsUsed          int
	TotalHandicapRounds int
	UsedRoundIDs        []string
}

// ComputeHandicap averages the best differentials of the eligible rounds.
// It reports false when no round is eligible. The input slice is not modified.
func ComputeHandicap(rounds []round.Round, regulationOnly bool) (Index, bool) {
	keep := CountsTowardHandicap
	if regulationOnly {
		keep = RegulationHandicapRounds
	}

	eligible := make([]round.Round, 0, len(rounds))
	for _, item := range rounds {
		if keep(item) {
			eligible = append(eligible, item)
		}
	}
	if len(eligible) == 0 {
		return Index{}, false
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Differential < eligible[j].Differential
	})

	n := len(eligible)
	k := DifferentialsToUse(n)

	var sum float64
	usedIDs := make([]string, 0, k)
	for _, item := range eligible[:k] {
		sum += item.Differential
		usedIDs = append(usedIDs, item.ID)
	}

	return Index{
		Value:               sum / float64(k) * adjustmentFactor,
		RoundsUsed:          k,
		TotalHandicapRounds: n,
		UsedRoundIDs:        usedIDs,
	}, true
}

// DifferentialsToUse returns how many of the lowest differentials count for n eligible rounds.
func DifferentialsToUse(n int) int {
	switch {
	case n >= 20:
		return 8
	case n >= 10:
		return n * 4 / 10
	case n >= 5:
		return n * 3 / 10
	case n > 0:
		return 1
	default:
		return 0
	}
}
