package resilient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/riskibarqy/golf-handicap/internal/platform/resilience"
)

var errBackend = errors.New("backend down")

type flakyRepository struct {
	listErrs  []error
	listCalls int
	deleteErr error
	deletes   int
	block     bool
}

func (f *flakyRepository) List(ctx context.Context) ([]round.Round, error) {
	f.listCalls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return []round.Round{{ID: "r1"}}, nil
}

func (f *flakyRepository) Create(context.Context, round.Round) error { return nil }

func (f *flakyRepository) SetIncludeInHandicap(context.Context, string, bool) error {
	return round.ErrRoundNotFound
}

func (f *flakyRepository) Delete(context.Context, string) error {
	f.deletes++
	return f.deleteErr
}

func testConfig() Config {
	return Config{
		Timeout: time.Second,
		Retry:   resilience.RetryConfig{MaxRetries: 2, Delay: time.Millisecond},
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 3,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}
}

func TestRoundRepository_ListRetriesTransientErrors(t *testing.T) {
	next := &flakyRepository{listErrs: []error{errBackend, errBackend}}
	repo := NewRoundRepository(next, testConfig(), logging.NewNop())

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(items) != 1 || next.listCalls != 3 {
		t.Fatalf("expected 1 round after 3 calls, got %d rounds after %d calls", len(items), next.listCalls)
	}
}

func TestRoundRepository_DomainErrorsDoNotTripBreaker(t *testing.T) {
	next := &flakyRepository{}
	repo := NewRoundRepository(next, testConfig(), logging.NewNop())

	for i := 0; i < 5; i++ {
		if err := repo.SetIncludeInHandicap(context.Background(), "missing", true); !errors.Is(err, round.ErrRoundNotFound) {
			t.Fatalf("expected ErrRoundNotFound, got %v", err)
		}
	}
	if _, err := repo.List(context.Background()); err != nil {
		t.Fatalf("expected breaker to stay closed: %v", err)
	}
}

func TestRoundRepository_BreakerOpensAfterFailures(t *testing.T) {
	next := &flakyRepository{deleteErr: errBackend}
	repo := NewRoundRepository(next, testConfig(), logging.NewNop())

	for i := 0; i < 3; i++ {
		if err := repo.Delete(context.Background(), "r1"); !errors.Is(err, errBackend) {
			t.Fatalf("delete %d: expected backend error, got %v", i, err)
		}
	}
	if next.deletes != 3 {
		t.Fatalf("expected delete to run once per call, got %d", next.deletes)
	}

	if err := repo.Delete(context.Background(), "r1"); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if _, err := repo.List(context.Background()); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open breaker to reject list, got %v", err)
	}
	if next.deletes != 3 || next.listCalls != 0 {
		t.Fatalf("open breaker must not reach the store: deletes=%d lists=%d", next.deletes, next.listCalls)
	}
}

func TestRoundRepository_TimeoutBoundsEachCall(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 10 * time.Millisecond
	cfg.Retry.MaxRetries = 0
	next := &flakyRepository{block: true}
	repo := NewRoundRepository(next, cfg, logging.NewNop())

	_, err := repo.List(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !IsTransient(err) {
		t.Fatalf("expected timeout to count as transient")
	}
}

func TestRoundRepository_MalformedRoundIsNotRetried(t *testing.T) {
	malformed := fmt.Errorf("%w: decode round r9: bad holes", round.ErrMalformedRound)
	next := &flakyRepository{listErrs: []error{malformed, malformed, malformed, malformed}}
	repo := NewRoundRepository(next, testConfig(), logging.NewNop())

	for i := 0; i < 4; i++ {
		if _, err := repo.List(context.Background()); !errors.Is(err, round.ErrMalformedRound) {
			t.Fatalf("list %d: expected ErrMalformedRound, got %v", i, err)
		}
	}
	if next.listCalls != 4 {
		t.Fatalf("expected one store call per list without retries, got %d", next.listCalls)
	}
	if _, err := repo.List(context.Background()); err != nil {
		t.Fatalf("expected breaker to stay closed after malformed data: %v", err)
	}
}

func TestIsTransient(t *testing.T) {
	if IsTransient(nil) || IsTransient(round.ErrRoundExists) || IsTransient(context.Canceled) {
		t.Fatalf("request errors must not be transient")
	}
	if IsTransient(fmt.Errorf("%w: decode round r1: %w", round.ErrMalformedRound, errBackend)) {
		t.Fatalf("wrapped malformed round must not be transient")
	}
	if IsTransient(crerr.Mark(crerr.New("read sheet"), round.ErrMalformedRound)) {
		t.Fatalf("marked malformed round must not be transient")
	}
	if !IsTransient(errBackend) {
		t.Fatalf("expected backend error to be transient")
	}
}
