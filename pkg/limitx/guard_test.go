package limitx_test

import (
	"context"
	"testing"
	"time"

	"github.com/vishesh711/Auth-SDK/pkg/limitx"
)

func TestBruteForceGuard_LocksAtThreshold(t *testing.T) {
	_, rdb := newTestRedis(t)
	g := limitx.NewBruteForceGuard(rdb, 5, 15*time.Minute)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		locked, remaining, err := g.RecordFailedAttempt(ctx, "user@x.com", "1.2.3.4")
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if locked {
			t.Fatalf("attempt %d locked too early", i)
		}
		if remaining != 5-i {
			t.Fatalf("attempt %d: remaining=%d, want %d", i, remaining, 5-i)
		}
	}

	locked, remaining, err := g.RecordFailedAttempt(ctx, "user@x.com", "1.2.3.4")
	if err != nil {
		t.Fatalf("attempt 5: %v", err)
	}
	if !locked || remaining != 0 {
		t.Fatalf("attempt 5: locked=%v remaining=%d, want true 0", locked, remaining)
	}

	isLocked, err := g.CheckLockout(ctx, "user@x.com", "1.2.3.4")
	if err != nil {
		t.Fatalf("CheckLockout failed: %v", err)
	}
	if !isLocked {
		t.Fatal("pair must be locked after 5 failures")
	}
}

func TestBruteForceGuard_CheckDoesNotIncrement(t *testing.T) {
	_, rdb := newTestRedis(t)
	g := limitx.NewBruteForceGuard(rdb, 5, 15*time.Minute)
	ctx := context.Background()

	g.RecordFailedAttempt(ctx, "user@x.com", "1.2.3.4")

	for i := 0; i < 10; i++ {
		if _, err := g.CheckLockout(ctx, "user@x.com", "1.2.3.4"); err != nil {
			t.Fatalf("CheckLockout failed: %v", err)
		}
	}

	remaining, err := g.RemainingAttempts(ctx, "user@x.com", "1.2.3.4")
	if err != nil {
		t.Fatalf("RemainingAttempts failed: %v", err)
	}
	if remaining != 4 {
		t.Fatalf("remaining=%d after repeated checks, want 4", remaining)
	}
}

func TestBruteForceGuard_ClearRemovesLockImmediately(t *testing.T) {
	_, rdb := newTestRedis(t)
	g := limitx.NewBruteForceGuard(rdb, 2, 15*time.Minute)
	ctx := context.Background()

	g.RecordFailedAttempt(ctx, "user@x.com", "1.2.3.4")
	g.RecordFailedAttempt(ctx, "user@x.com", "1.2.3.4")

	if locked, _ := g.CheckLockout(ctx, "user@x.com", "1.2.3.4"); !locked {
		t.Fatal("pair should be locked")
	}

	if err := g.ClearAttempts(ctx, "user@x.com", "1.2.3.4"); err != nil {
		t.Fatalf("ClearAttempts failed: %v", err)
	}

	if locked, _ := g.CheckLockout(ctx, "user@x.com", "1.2.3.4"); locked {
		t.Fatal("lock must be gone immediately after clear")
	}
	if remaining, _ := g.RemainingAttempts(ctx, "user@x.com", "1.2.3.4"); remaining != 2 {
		t.Fatalf("remaining=%d after clear, want full budget", remaining)
	}
}

func TestBruteForceGuard_LockoutExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	g := limitx.NewBruteForceGuard(rdb, 1, 15*time.Minute)
	ctx := context.Background()

	g.RecordFailedAttempt(ctx, "user@x.com", "1.2.3.4")
	if locked, _ := g.CheckLockout(ctx, "user@x.com", "1.2.3.4"); !locked {
		t.Fatal("pair should be locked")
	}

	mr.FastForward(16 * time.Minute)

	if locked, _ := g.CheckLockout(ctx, "user@x.com", "1.2.3.4"); locked {
		t.Fatal("lock must expire with its TTL")
	}
}

func TestBruteForceGuard_PairScoping(t *testing.T) {
	_, rdb := newTestRedis(t)
	g := limitx.NewBruteForceGuard(rdb, 1, 15*time.Minute)
	ctx := context.Background()

	g.RecordFailedAttempt(ctx, "user@x.com", "9.9.9.9")

	// The same email from a different origin is unaffected.
	if locked, _ := g.CheckLockout(ctx, "user@x.com", "1.2.3.4"); locked {
		t.Fatal("lock must be scoped to the (email, ip) pair")
	}
	// A different email from the attacking origin is unaffected too.
	if locked, _ := g.CheckLockout(ctx, "other@x.com", "9.9.9.9"); locked {
		t.Fatal("lock must not spill across emails")
	}
}
