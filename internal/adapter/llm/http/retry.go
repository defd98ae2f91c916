package http

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int
	// BaseDelay is the backoff unit. The wait after attempt n is
	// BaseDelay * 2^n, with no jitter and no cap.
	BaseDelay time.Duration
}

// DefaultRetryConfig returns the default retry configuration: one initial
// attempt plus three retries, backing off 1s, 2s, 4s between them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   time.Second,
	}
}

// Backoff calculates the wait time after the given attempt (0-based).
func Backoff(attempt int, config RetryConfig) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return config.BaseDelay << uint(attempt)
}

// ShouldRetry determines if an error is retryable.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var upstreamErr *Error
	if errors.As(err, &upstreamErr) {
		return upstreamErr.IsRetryable()
	}

	// Errors outside the closed upstream taxonomy are not retried.
	return false
}

// Operation is a function that can be retried.
type Operation func(ctx context.Context) error

// OnRetry is invoked before each backoff sleep, with the 0-based attempt
// index that just failed, the error, and the upcoming delay. Observability
// only; it cannot influence the retry decision.
type OnRetry func(attempt int, err error, delay time.Duration)

// RetryWithBackoff executes an operation with exponential backoff.
// Attempts are strictly sequential; a caller-cancelled context aborts the
// in-flight backoff without starting a further attempt.
func RetryWithBackoff(ctx context.Context, operation Operation, config RetryConfig, onRetry OnRetry) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if !ShouldRetry(err) {
			return err
		}

		if attempt == config.MaxAttempts-1 {
			return err
		}

		delay := Backoff(attempt, config)
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
