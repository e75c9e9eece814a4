package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func withoutBackoff(t *testing.T) {
	t.Helper()
	prev := RetryBackoff
	RetryBackoff = 0
	t.Cleanup(func() { RetryBackoff = prev })
}

func TestRetryWithContext_SuccessImmediate(t *testing.T) {
	ctx := context.Background()
	result, err := RetryWithContext(ctx, 3, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected ok, got %s", result)
	}
}

func TestRetryWithContext_SuccessAfterRetries(t *testing.T) {
	withoutBackoff(t)

	calls := 0
	result, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) ([]byte, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection reset")
		}
		return []byte("body"), nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if string(result) != "body" {
		t.Fatalf("expected body, got %q", result)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithContext_PersistentFailure(t *testing.T) {
	withoutBackoff(t)

	calls := 0
	_, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("persistent")
	})
	if err == nil || err.Error() != "persistent" {
		t.Fatalf("expected persistent error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithContext_MaxTriesZeroOrNegative(t *testing.T) {
	for _, tries := range []int{0, -2} {
		calls := 0
		_, err := RetryWithContext(context.Background(), tries, func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("fail")
		})
		if calls != 1 {
			t.Fatalf("expected 1 call for maxTries=%d, got %d", tries, calls)
		}
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	}
}

func TestRetryWithContext_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithContext(ctx, 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected 0 calls due to immediate cancellation, got %d", calls)
	}
}

func TestRetryWithContext_CancelledDuringBackoff(t *testing.T) {
	prev := RetryBackoff
	RetryBackoff = time.Second
	t.Cleanup(func() { RetryBackoff = prev })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	_, err := RetryWithContext(ctx, 5, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call before deadline, got %d", calls)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("backoff did not observe the context deadline")
	}
}

func TestRetryWithContext_FunctionReturnsContextError(t *testing.T) {
	withoutBackoff(t)

	calls := 0
	_, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 0, context.Canceled
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
