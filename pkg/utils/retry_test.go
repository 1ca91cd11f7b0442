package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	var slept []time.Duration
	p := RetryPolicy{
		MaxAttempts: 3,
		Backoff:     time.Second,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := Retry(context.Background(), p, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(slept) != 2 || slept[0] != time.Second {
		t.Fatalf("expected two 1s sleeps, got %v", slept)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, Sleep: func(time.Duration) {}}
	boom := errors.New("boom")

	calls := 0
	err := Retry(context.Background(), p, func(ctx context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	p := RetryPolicy{
		MaxAttempts: 5,
		IsRetryable: func(err error) bool { return !errors.Is(err, fatal) },
		Sleep:       func(time.Duration) {},
	}

	calls := 0
	err := Retry(context.Background(), p, func(ctx context.Context) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxAttempts: 5, Sleep: func(time.Duration) {}}

	calls := 0
	err := Retry(ctx, p, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt after cancel, got %d", calls)
	}
}
