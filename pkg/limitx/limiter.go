package limitx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultRequestsPerWindow is the default request budget per window.
	DefaultRequestsPerWindow = 60
	// DefaultWindow is the sliding-window length.
	DefaultWindow = time.Minute
)

// RateLimiter is a sliding-window request throttle keyed by caller
// identity (hashed API key or client IP). All state lives in Redis
// sorted sets so the count is correct across processes; keys expire on
// their own once a window passes with no traffic.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter over an explicitly injected Redis
// client. Zero values fall back to the defaults.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRequestsPerWindow
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateLimiter{rdb: rdb, limit: limit, window: window}
}

func rateLimitKey(identifier string) string {
	return fmt.Sprintf("rate_limit:%s", identifier)
}

// Check records the current request and reports whether it is allowed
// plus the remaining budget. A rejected request is still recorded, so a
// hostile client cannot reset its window by retrying. Trim, count,
// insert and expire run in one pipeline so concurrent callers never
// interleave a read-then-write.
func (r *RateLimiter) Check(ctx context.Context, identifier string) (bool, int, error) {
	key := rateLimitKey(identifier)
	now := time.Now()
	windowStart := now.Add(-r.window)

	pipe := r.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%f", float64(windowStart.UnixNano())/1e9))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()) / 1e9,
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, key, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, ErrStoreFailure(err)
	}

	// countCmd holds the in-window count before this request was added.
	count := int(countCmd.Val())
	if count >= r.limit {
		return false, 0, nil
	}

	return true, r.limit - count - 1, nil
}

// Remaining reports the current unused budget without recording a request.
func (r *RateLimiter) Remaining(ctx context.Context, identifier string) (int, error) {
	count, err := r.rdb.ZCard(ctx, rateLimitKey(identifier)).Result()
	if err != nil {
		return 0, ErrStoreFailure(err)
	}

	remaining := r.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Limit returns the configured request budget, for response headers.
func (r *RateLimiter) Limit() int {
	return r.limit
}
