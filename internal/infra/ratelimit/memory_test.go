package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := limiter.Allow(ctx, "key", 2, time.Minute)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}

	decision, err := limiter.Allow(ctx, "key", 2, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if decision.Allowed {
		t.Fatalf("expected third request limited")
	}
	if decision.Remaining != 0 {
		t.Fatalf("expected no remaining, got %d", decision.Remaining)
	}

	// Window rollover resets the counter.
	now = base.Add(2 * time.Minute)
	decision, err = limiter.Allow(ctx, "key", 2, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected allow after window rollover")
	}
}

func TestMemoryLimiterIndependentKeys(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	ctx := context.Background()

	if decision, _ := limiter.Allow(ctx, "a", 1, time.Minute); !decision.Allowed {
		t.Fatalf("expected first key allowed")
	}
	if decision, _ := limiter.Allow(ctx, "a", 1, time.Minute); decision.Allowed {
		t.Fatalf("expected first key exhausted")
	}
	if decision, _ := limiter.Allow(ctx, "b", 1, time.Minute); !decision.Allowed {
		t.Fatalf("expected second key unaffected")
	}
}

func TestMemoryLimiterZeroLimitDisabled(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	decision, err := limiter.Allow(context.Background(), "key", 0, time.Minute)
	if err != nil || !decision.Allowed {
		t.Fatalf("expected unconditional allow, got %+v %v", decision, err)
	}
}
