package store

import (
	"context"
	"time"

	pserrors "github.com/systmms/paramstore/internal/errors"
)

// retryPolicy retries throttling-class failures with exponential
// backoff. All other errors surface immediately and unchanged.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		maxAttempts: 3,
		baseDelay:   100 * time.Millisecond,
	}
}

// WithRetry overrides the throttling retry policy. maxAttempts of 1
// disables retries entirely.
func WithRetry(maxAttempts int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		if maxAttempts < 1 {
			maxAttempts = 1
		}
		c.retry = retryPolicy{maxAttempts: maxAttempts, baseDelay: baseDelay}
	}
}

func (r retryPolicy) do(ctx context.Context, op func() error) error {
	delay := r.baseDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || attempt >= r.maxAttempts || !pserrors.IsThrottling(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
