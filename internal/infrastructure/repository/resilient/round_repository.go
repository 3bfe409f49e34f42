package resilient

import (
	"context"
	"errors"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/riskibarqy/golf-handicap/internal/platform/resilience"
)

type Config struct {
	Timeout        time.Duration
	Retry          resilience.RetryConfig
	CircuitBreaker resilience.CircuitBreakerConfig
}

// RoundRepository guards another round store with a per call timeout and a
// circuit breaker. Reads and include toggles are retried; create and delete
// run once.
type RoundRepository struct {
	next    round.Repository
	timeout time.Duration
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewRoundRepository(next round.Repository, cfg Config, logger *logging.Logger) *RoundRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundRepository{
		next:    next,
		timeout: cfg.Timeout,
		retry:   resilience.NormalizeRetryConfig(cfg.Retry),
		breaker: resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		logger:  logger,
	}
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	var items []round.Round
	err := r.call(ctx, "list", true, func(ctx context.Context) error {
		out, err := r.next.List(ctx)
		if err != nil {
			return err
		}
		items = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	return r.call(ctx, "create", false, func(ctx context.Context) error {
		return r.next.Create(ctx, item)
	})
}

func (r *RoundRepository) SetIncludeInHandicap(ctx context.Context, roundID string, include bool) error {
	return r.call(ctx, "set_include", true, func(ctx context.Context) error {
		return r.next.SetIncludeInHandicap(ctx, roundID, include)
	})
}

func (r *RoundRepository) Delete(ctx context.Context, roundID string) error {
	return r.call(ctx, "delete", false, func(ctx context.Context) error {
		return r.next.Delete(ctx, roundID)
	})
}

func (r *RoundRepository) call(ctx context.Context, op string, retry bool, fn func(context.Context) error) error {
	attempt := func(ctx context.Context) error {
		return r.breaker.Do(func() error {
			callCtx, cancel := r.withTimeout(ctx)
			defer cancel()
			return fn(callCtx)
		}, IsTransient)
	}

	var err error
	if retry {
		err = resilience.Retry(ctx, r.retry, retryable, attempt)
	} else {
		err = attempt(ctx)
	}
	if err != nil && IsTransient(err) {
		r.logger.WarnContext(ctx, "round store call failed",
			"op", op,
			"breaker_state", r.breaker.State(),
			"error", err,
		)
	}
	return err
}

func (r *RoundRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// IsTransient reports whether err says something about the store's health
// rather than about the request.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case crerr.Is(err, round.ErrRoundNotFound),
		crerr.Is(err, round.ErrRoundExists),
		crerr.Is(err, round.ErrMalformedRound),
		crerr.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}

func retryable(err error) bool {
	return IsTransient(err) && !errors.Is(err, resilience.ErrCircuitOpen)
}
