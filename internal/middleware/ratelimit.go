package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoStore = errors.New("rate limit store not configured")

// Limiter counts hits per caller in fixed Redis windows keyed "rl:<name>:<caller>".
type Limiter struct {
	rdb    *redis.Client
	name   string
	limit  int
	window time.Duration
	policy FailPolicy
}

// NewLimiter allows limit hits per window for each caller of the named resource.
func NewLimiter(rdb *redis.Client, name string, limit int, window time.Duration, policy FailPolicy) *Limiter {
	return &Limiter{rdb: rdb, name: name, limit: limit, window: window, policy: policy}
}

// Allow records one hit for caller. When the caller is over the limit it
// also reports how long until the window resets.
func (l *Limiter) Allow(ctx context.Context, caller string) (bool, time.Duration, error) {
	if l.rdb == nil {
		return false, 0, errNoStore
	}
	key := "rl:" + l.name + ":" + caller

	var hits *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := l.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		hits = p.Incr(ctx, key)
		ttl = p.PTTL(ctx, key)
		return nil
	}); err != nil {
		return false, 0, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// First hit in this window.
		if err := l.rdb.PExpire(ctx, key, l.window).Err(); err != nil {
			return false, 0, err
		}
		remaining = l.window
	}

	if hits.Val() <= int64(l.limit) {
		return true, 0, nil
	}
	return false, remaining, nil
}

// Handler keys callers by client IP and answers 429 with Retry-After once
// they exceed the limit.
func (l *Limiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		allowed, retryAfter, err := l.Allow(ctx, "ip:"+c.IP())
		if err != nil {
			if l.policy == FailClosed {
				Logger.WarnContext(ctx, "rate limit store unavailable, failing closed",
					slog.String("resource", l.name), slog.String("error", err.Error()))
				return c.Status(fiber.StatusServiceUnavailable).SendString("Rate limit unavailable")
			}
			Logger.WarnContext(ctx, "rate limit store unavailable, failing open",
				slog.String("resource", l.name), slog.String("error", err.Error()))
			return c.Next()
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests, please try again later.")
		}
		return c.Next()
	}
}
