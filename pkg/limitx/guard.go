package limitx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultMaxAttempts is the failed-login threshold before lockout.
	DefaultMaxAttempts = 5
	// DefaultLockoutDuration is how long a locked pair stays locked and
	// how long the failure counter lives.
	DefaultLockoutDuration = 15 * time.Minute
)

// BruteForceGuard tracks failed login attempts per (email, ip) pair and
// locks the pair out after a threshold. Scoping by the pair rather than
// the account means an attacker spread over many IPs cannot lock a
// legitimate user out of their usual IP, and a single IP hitting many
// emails is throttled per email.
type BruteForceGuard struct {
	rdb         *redis.Client
	maxAttempts int
	lockout     time.Duration
}

// NewBruteForceGuard creates a guard over an explicitly injected Redis
// client. Zero values fall back to the defaults.
func NewBruteForceGuard(rdb *redis.Client, maxAttempts int, lockout time.Duration) *BruteForceGuard {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = DefaultLockoutDuration
	}
	return &BruteForceGuard{rdb: rdb, maxAttempts: maxAttempts, lockout: lockout}
}

func attemptsKey(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", email, ip)
}

func lockoutKey(email, ip string) string {
	return fmt.Sprintf("login_blocked:%s:%s", email, ip)
}

// RecordFailedAttempt increments the pair's failure counter, refreshes
// its TTL, and sets the lockout flag once the threshold is reached.
// INCR is atomic, so concurrent failures from many processes count
// correctly. Returns whether the pair is now locked and the attempts
// remaining before lockout.
func (g *BruteForceGuard) RecordFailedAttempt(ctx context.Context, email, ip string) (bool, int, error) {
	attempts, err := g.rdb.Incr(ctx, attemptsKey(email, ip)).Result()
	if err != nil {
		return false, 0, ErrStoreFailure(err)
	}
	if err := g.rdb.Expire(ctx, attemptsKey(email, ip), g.lockout).Err(); err != nil {
		return false, 0, ErrStoreFailure(err)
	}

	if int(attempts) >= g.maxAttempts {
		if err := g.rdb.SetEx(ctx, lockoutKey(email, ip), "1", g.lockout).Err(); err != nil {
			return false, 0, ErrStoreFailure(err)
		}
		return true, 0, nil
	}

	return false, g.maxAttempts - int(attempts), nil
}

// CheckLockout reports whether the pair is currently locked. Callers
// must check this before any password verification so locked pairs
// short-circuit without touching the credential hasher.
func (g *BruteForceGuard) CheckLockout(ctx context.Context, email, ip string) (bool, error) {
	_, err := g.rdb.Get(ctx, lockoutKey(email, ip)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, ErrStoreFailure(err)
	}
	return true, nil
}

// ClearAttempts removes both the counter and the lockout flag. Called
// only after a fully successful login.
func (g *BruteForceGuard) ClearAttempts(ctx context.Context, email, ip string) error {
	if err := g.rdb.Del(ctx, attemptsKey(email, ip), lockoutKey(email, ip)).Err(); err != nil {
		return ErrStoreFailure(err)
	}
	return nil
}

// RemainingAttempts reports how many failures are left before lockout.
func (g *BruteForceGuard) RemainingAttempts(ctx context.Context, email, ip string) (int, error) {
	attempts, err := g.rdb.Get(ctx, attemptsKey(email, ip)).Int()
	if err == redis.Nil {
		return g.maxAttempts, nil
	}
	if err != nil {
		return 0, ErrStoreFailure(err)
	}

	remaining := g.maxAttempts - attempts
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
