package usecase

import (
	"context"

	"github.com/riskibarqy/golf-handicap/internal/domain/handicap"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type roundSnapshotter interface {
	Rounds(ctx context.Context) ([]round.Round, error)
}

// IndexResult is one handicap variant. Available is false when no round qualifies.
type IndexResult struct {
	Index     handicap.Index
	Available bool
}

type Summary struct {
	Overall         IndexResult
	Regulation      IndexResult
	AllCourses      handicap.Stats
	RegulationStats handicap.Stats
	// Degraded is set when the rounds could not be read and the summary
	// was computed over an empty history.
	Degraded bool
}

type HandicapService struct {
	rounds roundSnapshotter
	logger *logging.Logger
}

func NewHandicapService(rounds roundSnapshotter, logger *logging.Logger) *HandicapService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HandicapService{rounds: rounds, logger: logger}
}

func (s *HandicapService) Summary(ctx context.Context) Summary {
	ctx, span := startUsecaseSpan(ctx, "usecase.HandicapService.Summary")
	defer span.End()

	var summary Summary
	items, err := s.rounds.Rounds(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "handicap summary degraded", "error", err)
		summary.Degraded = true
		items = nil
	}

	summary.Overall = computeIndex(items, false)
	summary.Regulation = computeIndex(items, true)
	summary.AllCourses = handicap.ComputeStats(items, handicap.CountsTowardHandicap)
	summary.RegulationStats = handicap.ComputeStats(items, handicap.RegulationHandicapRounds)

	span.SetAttributes(
		attribute.Int("rounds.count", len(items)),
		attribute.Bool("summary.degraded", summary.Degraded),
	)
	return summary
}

func computeIndex(items []round.Round, regulationOnly bool) IndexResult {
	index, ok := handicap.ComputeHandicap(items, regulationOnly)
	return IndexResult{Index: index, Available: ok}
}
