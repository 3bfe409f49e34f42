package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	ImportStatusCreated = "created"
	ImportStatusInvalid = "invalid"
	ImportStatusFailed  = "failed"
)

const defaultImportWorkers = 4

// ImportRow is one decoded workbook row. Err holds a decode failure for that row.
type ImportRow struct {
	Row   int
	Input round.Input
	Err   error
}

type ImportRowResult struct {
	Row        int
	RoundID    string
	Status     string
	Message    string
	DurationMs int64
}

type ImportResult struct {
	Rows         []ImportRowResult
	CreatedCount int
	InvalidCount int
	FailedCount  int
}

type roundCreator interface {
	Create(ctx context.Context, in round.Input) (round.Round, error)
}

// ImportService checks workbook rows on a bounded worker pool, then creates
// the valid ones one at a time in sheet row order. Each row succeeds or fails
// on its own.
type ImportService struct {
	rounds  roundCreator
	workers int
	logger  *logging.Logger
}

func NewImportService(rounds roundCreator, workers int, logger *logging.Logger) *ImportService {
	if workers <= 0 {
		workers = defaultImportWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ImportService{rounds: rounds, workers: workers, logger: logger}
}

func (s *ImportService) Import(ctx context.Context, rows []ImportRow) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.Import", attribute.Int("import.rows", len(rows)))
	defer span.End()

	var result ImportResult
	if len(rows) == 0 {
		return result, nil
	}

	ordered := slices.Clone(rows)
	slices.SortStableFunc(ordered, func(a, b ImportRow) int { return cmp.Compare(a.Row, b.Row) })

	rowErrs, err := s.check(ordered)
	if err != nil {
		return ImportResult{}, err
	}

	result.Rows = make([]ImportRowResult, 0, len(ordered))
	for i, row := range ordered {
		start := time.Now()
		out := ImportRowResult{Row: row.Row}

		err := rowErrs[i]
		if err == nil {
			var item round.Round
			item, err = s.create(ctx, row)
			out.RoundID = item.ID
		}

		switch {
		case err == nil:
			out.Status = ImportStatusCreated
			result.CreatedCount++
		case row.Err != nil, errors.Is(err, ErrInvalidInput):
			out.Status = ImportStatusInvalid
			out.Message = err.Error()
			result.InvalidCount++
		default:
			out.Status = ImportStatusFailed
			out.Message = err.Error()
			result.FailedCount++
		}
		out.DurationMs = time.Since(start).Milliseconds()

		result.Rows = append(result.Rows, out)
	}

	s.logger.InfoContext(ctx, "round import finished",
		"rows", len(rows),
		"created", result.CreatedCount,
		"invalid", result.InvalidCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

// check validates rows on the worker pool. The returned errors line up with rows.
func (s *ImportService) check(rows []ImportRow) ([]error, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rowErrs := make([]error, len(rows))
	var workers sync.WaitGroup
	for i, row := range rows {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			switch {
			case row.Err != nil:
				rowErrs[i] = row.Err
			default:
				if err := row.Input.Validate(); err != nil {
					rowErrs[i] = inputError(err)
				}
			}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit row to worker pool: %w", err)
		}
	}
	workers.Wait()

	return rowErrs, nil
}

// create turns a panic in the round service into that row's error.
func (s *ImportService) create(ctx context.Context, row ImportRow) (item round.Round, err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		item, err = s.rounds.Create(ctx, row.Input)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		s.logger.ErrorContext(ctx, "import row panicked", "row", row.Row, "panic", recovered.Value)
		return round.Round{}, recovered.AsError()
	}
	return item, err
}
