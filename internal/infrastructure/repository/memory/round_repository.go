package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/golf-handicap/internal/domain/round"
)

// RoundRepository keeps rounds in insertion order.
type RoundRepository struct {
	mu     sync.RWMutex
	items  map[string]round.Round
	orders []string
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	items := make(map[string]round.Round, len(rounds))
	orders := make([]string, 0, len(rounds))

	for _, r := range rounds {
		if _, dup := items[r.ID]; dup {
			continue
		}
		items[r.ID] = r
		orders = append(orders, r.ID)
	}

	return &RoundRepository{
		items:  items,
		orders: orders,
	}
}

func (r *RoundRepository) List(_ context.Context) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]round.Round, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *RoundRepository) Create(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("%w: id=%s", round.ErrRoundExists, item.ID)
	}
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *RoundRepository) SetIncludeInHandicap(_ context.Context, roundID string, include bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[roundID]
	if !ok {
		return fmt.Errorf("%w: id=%s", round.ErrRoundNotFound, roundID)
	}
	item.IncludeInHandicap = include
	r.items[roundID] = item
	return nil
}

func (r *RoundRepository) Delete(_ context.Context, roundID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[roundID]; !ok {
		return fmt.Errorf("%w: id=%s", round.ErrRoundNotFound, roundID)
	}
	delete(r.items, roundID)
	r.orders = slices.DeleteFunc(r.orders, func(id string) bool { return id == roundID })
	return nil
}
