package resilience

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// ErrRetriesExhausted marks an error returned after every attempt failed.
var ErrRetriesExhausted = crerr.New("retries exhausted")

// Retry runs fn up to MaxRetries+1 times with a fixed delay between attempts.
// Errors rejected by retryable are returned immediately and unwrapped.
// A nil retryable retries every error.
func Retry(ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func(context.Context) error) error {
	cfg = NormalizeRetryConfig(cfg)

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(cfg.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w: %w", ErrRetriesExhausted, crerr.Wrapf(lastErr, "after %d attempts", cfg.MaxRetries+1))
}
