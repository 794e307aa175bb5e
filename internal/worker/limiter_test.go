package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://google.serper.dev/search"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host gets its own bucket
	if err := limiter.Wait(ctx, "https://api.futureagi.com/sdk/api/v1/new-eval/"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if len(limiter.limiters) != 2 {
		t.Errorf("expected 2 host limiters, got %d", len(limiter.limiters))
	}
}

func TestLimiter_NilNeverWaits(t *testing.T) {
	var limiter *Limiter
	if err := limiter.Wait(context.Background(), "::not a url"); err != nil {
		t.Errorf("nil limiter should not fail, got %v", err)
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(10, 1)
	if err := limiter.Wait(context.Background(), "/relative/only"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 50; i++ {
		if err := limiter.Wait(ctx, "http://example.com"); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Errorf("unlimited limiter should not block, took %v", time.Since(start))
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	if err := limiter.WaitWithDelay(ctx, "http://example.com", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}

	if d := time.Since(start); d < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", d)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "http://example.com"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Second request must wait ~1s; a short deadline makes it fail
	ctx2, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx2, url); err == nil {
		t.Error("expected second wait to hit context deadline")
	}
}
