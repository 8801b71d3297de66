package pipeline

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig bounds the extraction call retry loop.
type RetryConfig struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// BaseDelay is multiplied by the attempt number, giving the
	// 1s, 2s, 3s schedule with the defaults.
	BaseDelay time.Duration
}

// DefaultRetryConfig matches the extraction API retry contract: three
// attempts with 1s, 2s, 3s waits between them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: time.Second}
}

// withRetry runs fn until it succeeds or attempts are exhausted. Sleeps are
// context-aware: cancellation during a backoff wait returns immediately with
// the context error.
func withRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.BaseDelay * time.Duration(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, fmt.Errorf("withRetry: all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}
