package retry

import (
	"context"
	"time"
)

// Policy describes how an operation may be retried: how many attempts
// in total, how long to wait between them, and which errors qualify.
// A nil Retryable predicate retries every error.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
	Retryable   func(error) bool
}

// Do runs op until it succeeds, a non-retryable error occurs, or the
// policy's attempts are exhausted. The last error is returned on
// exhaustion; the backoff wait is cut short when ctx is done.
func Do(ctx context.Context, p Policy, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if p.Backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Backoff):
			}
		}
	}

	return lastErr
}
