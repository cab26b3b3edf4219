package fs

import (
	"context"
	"fmt"
	"time"
)

// retry runs fn until it succeeds, fails with a permanent error or the
// policy is exhausted. Backoff doubles from p.Base and stops early when
// ctx is cancelled.
func retry(ctx context.Context, p RetryPolicy, opName string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return fmt.Errorf("%s failed: %w", opName, err)
		}
		if attempt == attempts {
			break
		}

		t := time.NewTimer(p.Base * (1 << (attempt - 1)))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", opName, attempts, lastErr)
}
