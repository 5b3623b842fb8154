// Package retry provides exponential-backoff retries driven by an error
// classification predicate. The twilio client never retries internally; this
// package is the caller-side companion, typically configured with
// twilio.IsRetryable.
package retry

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"
)

// Config holds configuration for retry operations with exponential backoff.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including the initial attempt)
	MaxAttempts int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries (caps exponential growth)
	MaxDelay time.Duration

	// BackoffFactor is the multiplier for exponential backoff (e.g., 2.0 doubles delay)
	BackoffFactor float64

	// JitterFactor adds randomness to delays (0.0-1.0, where 0.1 = 10% jitter)
	JitterFactor float64

	// RetryableErrors determines which errors should trigger a retry.
	// If nil, all errors are considered retryable.
	RetryableErrors func(error) bool
}

// DefaultConfig returns a sensible default retry configuration: three
// attempts, one second initial delay doubling up to thirty seconds, with 10%
// jitter. All errors are retryable unless a predicate is set.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}
}

// Do executes fn with exponential backoff until it succeeds, a non-retryable
// error occurs, the attempt limit is reached, or ctx is cancelled.
func Do(ctx context.Context, config Config, fn func() error) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err

			if config.RetryableErrors != nil && !config.RetryableErrors(err) {
				return err
			}

			if attempt == config.MaxAttempts {
				break
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
			delay = nextDelay(delay, config)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// nextDelay grows the delay by the backoff factor and applies jitter. MaxDelay
// caps the final value, jitter included.
func nextDelay(delay time.Duration, config Config) time.Duration {
	delay = time.Duration(float64(delay) * config.BackoffFactor)

	if config.JitterFactor > 0 {
		jitter := time.Duration(float64(delay) * config.JitterFactor)
		delay = delay + time.Duration(randomInt64n(int64(jitter)))
	}

	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	return delay
}

// randomInt64n returns a random int64 in the range [0, n), falling back to
// time-based randomness if crypto/rand fails.
func randomInt64n(n int64) int64 {
	if n <= 0 {
		return 0
	}

	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return time.Now().UnixNano() % n
	}

	val := int64(bytes[0])<<56 | int64(bytes[1])<<48 | int64(bytes[2])<<40 | int64(bytes[3])<<32 |
		int64(bytes[4])<<24 | int64(bytes[5])<<16 | int64(bytes[6])<<8 | int64(bytes[7])

	if val < 0 {
		val = -val
	}

	return val % n
}
