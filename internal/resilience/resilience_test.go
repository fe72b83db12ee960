package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		BreakerEnabled:      false,
	}
}

func TestRun_RetriesUntilSuccess(t *testing.T) {
	e := NewExecutor(fastConfig())

	calls := 0
	err := e.Run(context.Background(), "list", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, func(error) Outcome { return Outcome{Retryable: true, RecordFailure: true} })

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRun_NonRetryableStopsImmediately(t *testing.T) {
	e := NewExecutor(fastConfig())

	calls := 0
	wantErr := errors.New("permission")
	err := e.Run(context.Background(), "delete", func(context.Context) error {
		calls++
		return wantErr
	}, func(error) Outcome { return Outcome{Retryable: false, RecordFailure: false} })

	if !errors.Is(err, wantErr) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestRun_ExhaustsAttempts(t *testing.T) {
	e := NewExecutor(fastConfig())

	calls := 0
	err := e.Run(context.Background(), "list", func(context.Context) error {
		calls++
		return errors.New("still down")
	}, func(error) Outcome { return Outcome{Retryable: true, RecordFailure: true} })

	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRun_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.BreakerEnabled = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.5
	cfg.BreakerOpenTimeout = time.Minute
	e := NewExecutor(cfg)

	fail := func(context.Context) error { return errors.New("down") }
	classify := func(error) Outcome { return Outcome{Retryable: false, RecordFailure: true} }

	for i := 0; i < 3; i++ {
		_ = e.Run(context.Background(), "list", fail, classify)
	}

	err := e.Run(context.Background(), "list", fail, classify)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}

func TestRun_ContextCancelStopsRetry(t *testing.T) {
	e := NewExecutor(fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Run(ctx, "list", func(context.Context) error { return nil }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
