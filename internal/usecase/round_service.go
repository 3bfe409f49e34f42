package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/golf-handicap/internal/domain/handicap"
	"github.com/riskibarqy/golf-handicap/internal/domain/round"
	"github.com/riskibarqy/golf-handicap/internal/platform/id"
	"github.com/riskibarqy/golf-handicap/internal/platform/logging"
	"github.com/riskibarqy/golf-handicap/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

const (
	loadKey = "rounds"

	// maxSnapshotAttempts bounds how often a refresh re-reads the store while
	// local mutations keep landing.
	maxSnapshotAttempts = 3
)

// RoundService owns the in-memory round list shown to users.
// Mutations are applied locally first, then committed to the store. A failed
// commit is reverted only when no later mutation touched the same round.
// A store snapshot replaces the local list only if no mutation was pending or
// started while it was read.
type RoundService struct {
	repo   round.Repository
	ids    id.Generator
	now    func() time.Time
	logger *logging.Logger

	mu       sync.RWMutex
	rounds   []round.Round
	loaded   bool
	seq      uint64
	inflight int
	touched  map[string]uint64

	loads resilience.SingleFlight[[]round.Round]
}

func NewRoundService(repo round.Repository, ids id.Generator, logger *logging.Logger) *RoundService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundService{
		repo:    repo,
		ids:     ids,
		now:     time.Now,
		logger:  logger,
		touched: make(map[string]uint64),
	}
}

// Load reads the store once. Later calls reuse the local list.
func (s *RoundService) Load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	_, _, err := s.reload(ctx, false)
	return err
}

// Refresh replaces the local list with the store's. Concurrent refreshes share one read.
func (s *RoundService) Refresh(ctx context.Context) ([]round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Refresh")
	defer span.End()

	items, shared, err := s.reload(ctx, true)
	span.SetAttributes(attribute.Bool("rounds.load_shared", shared))
	if err != nil {
		return nil, err
	}
	return newestFirst(items), nil
}

// reload reads the store unless force is false and the list is already loaded.
// The loaded check must stay inside the flight.
func (s *RoundService) reload(ctx context.Context, force bool) ([]round.Round, bool, error) {
	items, err, shared := s.loads.Do(loadKey, func() ([]round.Round, error) {
		s.mu.RLock()
		if s.loaded && !force {
			items := slices.Clone(s.rounds)
			s.mu.RUnlock()
			return items, nil
		}
		s.mu.RUnlock()

		for attempt := 1; ; attempt++ {
			s.mu.RLock()
			startSeq, startInflight := s.seq, s.inflight
			s.mu.RUnlock()

			items, err := s.repo.List(ctx)
			if err != nil {
				return nil, err
			}

			s.mu.Lock()
			if !s.loaded || (startInflight == 0 && s.seq == startSeq) {
				s.rounds = slices.Clone(items)
				s.loaded = true
				s.mu.Unlock()

				s.logger.DebugContext(ctx, "round snapshot loaded", "count", len(items), "attempt", attempt)
				return items, nil
			}
			if attempt >= maxSnapshotAttempts {
				local := slices.Clone(s.rounds)
				s.mu.Unlock()

				s.logger.DebugContext(ctx, "round snapshot kept local list", "count", len(local), "attempts", attempt)
				return local, nil
			}
			s.mu.Unlock()
		}
	})
	if err != nil {
		return nil, shared, storeError("list rounds", err)
	}
	return items, shared, nil
}

// Rounds returns a copy of the local list in store order.
func (s *RoundService) Rounds(ctx context.Context) ([]round.Round, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rounds), nil
}

// List returns the local list newest first.
func (s *RoundService) List(ctx context.Context) ([]round.Round, error) {
	items, err := s.Rounds(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(items), nil
}

func (s *RoundService) Create(ctx context.Context, in round.Input) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Create")
	defer span.End()

	if err := in.Validate(); err != nil {
		return round.Round{}, inputError(err)
	}
	if err := s.Load(ctx); err != nil {
		return round.Round{}, err
	}

	roundID, err := s.ids.NewID()
	if err != nil {
		return round.Round{}, fmt.Errorf("generate round id: %w", err)
	}
	item, err := handicap.NewRound(roundID, in, s.now().UTC())
	if err != nil {
		return round.Round{}, inputError(err)
	}

	s.mu.Lock()
	s.rounds = append(s.rounds, item)
	token := s.beginMutation(item.ID)
	s.mu.Unlock()
	defer s.finishMutation(item.ID, token)

	if err := s.repo.Create(ctx, item); err != nil {
		s.mu.Lock()
		if i := s.indexOf(item.ID); i >= 0 {
			s.rounds = slices.Delete(s.rounds, i, i+1)
		}
		s.mu.Unlock()

		s.logger.WarnContext(ctx, "create round reverted", "round_id", item.ID, "error", err)
		return round.Round{}, storeError("create round", err)
	}

	return item, nil
}

func (s *RoundService) SetIncludeInHandicap(ctx context.Context, roundID string, include bool) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.SetIncludeInHandicap",
		roundIDAttr(roundID), attribute.Bool("round.include_in_handicap", include))
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return round.Round{}, fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}
	if err := s.Load(ctx); err != nil {
		return round.Round{}, err
	}

	s.mu.Lock()
	i := s.indexOf(roundID)
	if i < 0 {
		s.mu.Unlock()
		return round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	previous := s.rounds[i].IncludeInHandicap
	s.rounds[i].IncludeInHandicap = include
	updated := s.rounds[i]
	token := s.beginMutation(roundID)
	s.mu.Unlock()
	defer s.finishMutation(roundID, token)

	if err := s.repo.SetIncludeInHandicap(ctx, roundID, include); err != nil {
		s.mu.Lock()
		if i := s.indexOf(roundID); i >= 0 && s.latest(roundID, token) {
			s.rounds[i].IncludeInHandicap = previous
		}
		s.mu.Unlock()

		s.logger.WarnContext(ctx, "include toggle reverted", "round_id", roundID, "include", include, "error", err)
		return round.Round{}, storeError("set include in handicap", err)
	}

	return updated, nil
}

func (s *RoundService) Delete(ctx context.Context, roundID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Delete", roundIDAttr(roundID))
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}
	if err := s.Load(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	i := s.indexOf(roundID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	removed := s.rounds[i]
	s.rounds = slices.Delete(s.rounds, i, i+1)
	token := s.beginMutation(roundID)
	s.mu.Unlock()
	defer s.finishMutation(roundID, token)

	if err := s.repo.Delete(ctx, roundID); err != nil {
		// The store no longer has it either, so the local removal stands.
		if errors.Is(err, round.ErrRoundNotFound) {
			return storeError("delete round", err)
		}

		s.mu.Lock()
		if s.indexOf(roundID) < 0 && s.latest(roundID, token) {
			s.rounds = slices.Insert(s.rounds, min(i, len(s.rounds)), removed)
		}
		s.mu.Unlock()

		s.logger.WarnContext(ctx, "delete round reverted", "round_id", roundID, "error", err)
		return storeError("delete round", err)
	}

	return nil
}

// beginMutation records a local change to roundID and returns its token.
// Must be called with mu held.
func (s *RoundService) beginMutation(roundID string) uint64 {
	s.seq++
	s.inflight++
	s.touched[roundID] = s.seq
	return s.seq
}

func (s *RoundService) finishMutation(roundID string, token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if s.touched[roundID] == token {
		delete(s.touched, roundID)
	}
}

// latest reports whether token is the newest mutation of roundID. Must be
// called with mu held.
func (s *RoundService) latest(roundID string, token uint64) bool {
	return s.touched[roundID] == token
}

// indexOf must be called with mu held.
func (s *RoundService) indexOf(roundID string) int {
	return slices.IndexFunc(s.rounds, func(r round.Round) bool { return r.ID == roundID })
}

// newestFirst orders by date descending. Same-day rounds keep the most
// recently stored one first.
func newestFirst(items []round.Round) []round.Round {
	out := slices.Clone(items)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b round.Round) int {
		switch {
		case a.Date.After(b.Date):
			return -1
		case a.Date.Before(b.Date):
			return 1
		default:
			return 0
		}
	})
	return out
}
