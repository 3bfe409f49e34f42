package round

import (
	"context"
	"errors"
)

var (
	ErrRoundNotFound = errors.New("round not found")
	ErrRoundExists   = errors.New("round already exists")

	// ErrMalformedRound marks stored data that cannot be decoded into a round.
	// Reading it again gives the same result.
	ErrMalformedRound = errors.New("malformed stored round")
)

// Repository describes round persistence needs from use cases.
// Update is limited to the include flag; every other field is fixed at creation.
type Repository interface {
	List(ctx context.Context) ([]Round, error)
	Create(ctx context.Context, item Round) error
	SetIncludeInHandicap(ctx context.Context, roundID string, include bool) error
	Delete(ctx context.Context, roundID string) error
}
