package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("resource conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// storeError classifies a round store failure for callers while keeping the cause.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, round.ErrRoundNotFound):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, op, err)
	case errors.Is(err, round.ErrRoundExists):
		return fmt.Errorf("%w: %s: %w", ErrConflict, op, err)
	case errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, resilience.ErrRetriesExhausted),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// inputError covers both validation failures and handicap.ErrComputation.
func inputError(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
