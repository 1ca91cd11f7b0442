package utils

import (
	"context"
	"time"
)

// RetryPolicy makes retry scope and classification explicit instead of
// nesting attempt loops inside handlers.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration

	// IsRetryable decides whether an attempt error is worth another try.
	// Nil means every error is retryable.
	IsRetryable func(error) bool

	// Sleep is injectable for deterministic tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	out := p
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = 1
	}
	if out.Sleep == nil {
		out.Sleep = time.Sleep
	}
	return out
}

// Retry runs fn up to MaxAttempts times, sleeping Backoff between attempts.
// It returns nil on the first success, the last error on exhaustion, and
// stops early when the error is not retryable or the context is done.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error) error {
	p = p.withDefaults()

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if p.IsRetryable != nil && !p.IsRetryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			return err
		}
		if p.Backoff > 0 {
			p.Sleep(p.Backoff)
		}
	}
	return err
}
