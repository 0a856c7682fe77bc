package limitx_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/vishesh711/Auth-SDK/pkg/limitx"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRateLimiter_AcceptsUpToLimit(t *testing.T) {
	_, rdb := newTestRedis(t)
	rl := limitx.NewRateLimiter(rdb, 3, time.Minute)
	ctx := context.Background()

	var results []bool
	for i := 0; i < 5; i++ {
		allowed, _, err := rl.Check(ctx, "client-a")
		if err != nil {
			t.Fatalf("Check %d failed: %v", i, err)
		}
		results = append(results, allowed)
	}

	want := []bool{true, true, true, false, false}
	for i := range want {
		if results[i] != want[i] {
			t.Fatalf("call %d: allowed=%v, want %v", i, results[i], want[i])
		}
	}
}

func TestRateLimiter_ReportsRemaining(t *testing.T) {
	_, rdb := newTestRedis(t)
	rl := limitx.NewRateLimiter(rdb, 3, time.Minute)
	ctx := context.Background()

	_, remaining, err := rl.Check(ctx, "client-b")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("first call: remaining=%d, want 2", remaining)
	}

	rl.Check(ctx, "client-b")
	rl.Check(ctx, "client-b")

	allowed, remaining, err := rl.Check(ctx, "client-b")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if allowed || remaining != 0 {
		t.Fatalf("over-limit call: allowed=%v remaining=%d, want false 0", allowed, remaining)
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	mr, rdb := newTestRedis(t)
	rl := limitx.NewRateLimiter(rdb, 2, time.Minute)
	ctx := context.Background()

	rl.Check(ctx, "client-c")
	rl.Check(ctx, "client-c")

	if allowed, _, _ := rl.Check(ctx, "client-c"); allowed {
		t.Fatal("third call inside the window must be rejected")
	}

	// Fast-forwarding past the window expires the whole key, which is
	// how an idle identifier's state disappears in production too.
	mr.FastForward(2 * time.Minute)

	if allowed, _, _ := rl.Check(ctx, "client-c"); !allowed {
		t.Fatal("call after the window elapsed must be accepted")
	}
}

func TestRateLimiter_IsolatesIdentifiers(t *testing.T) {
	_, rdb := newTestRedis(t)
	rl := limitx.NewRateLimiter(rdb, 1, time.Minute)
	ctx := context.Background()

	rl.Check(ctx, "client-d")
	if allowed, _, _ := rl.Check(ctx, "client-d"); allowed {
		t.Fatal("client-d should be over its limit")
	}
	if allowed, _, _ := rl.Check(ctx, "client-e"); !allowed {
		t.Fatal("client-e must not be affected by client-d's traffic")
	}
}

func TestRateLimiter_RejectedAttemptsStillCount(t *testing.T) {
	_, rdb := newTestRedis(t)
	rl := limitx.NewRateLimiter(rdb, 1, time.Minute)
	ctx := context.Background()

	rl.Check(ctx, "client-f")
	rl.Check(ctx, "client-f") // rejected, still recorded

	remaining, err := rl.Remaining(ctx, "client-f")
	if err != nil {
		t.Fatalf("Remaining failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("remaining=%d, want 0 (rejected attempt recorded)", remaining)
	}
}
