package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/MollahHamza/TRASHCANPRO/internal/config"
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
)

// takeToken refills the bucket in KEYS[1] for the whole intervals elapsed
// since the last refill, then spends one token if there is one.  It returns
// {allowed, tokens left, ms until the next refill}.
var takeToken = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])
	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals * refill_tokens)
			last_refill = last_refill + intervals * interval_ms
		end
	end

	local allowed = 0
	local retry_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)
	return { allowed, tokens, retry_ms }
`)

// uploadVerdict is the outcome of one take from a user's bucket.
type uploadVerdict struct {
	Allowed   bool
	Remaining int64
	RetryIn   time.Duration
}

// uploadBucket holds one token bucket per reporting user.
type uploadBucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

// key names the bucket of username.  Uploads sit behind JWTAuth so every
// caller has a username; "anon" only shows up if the route is misconfigured.
func (b uploadBucket) key(username string) string {
	return b.cfg.Prefix + ":user:" + username
}

func (b uploadBucket) take(ctx context.Context, username string, now time.Time) (uploadVerdict, error) {
	vals, err := takeToken.Run(ctx, b.rdb, []string{b.key(username)},
		now.UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return uploadVerdict{}, err
	}
	if len(vals) != 3 {
		return uploadVerdict{}, fmt.Errorf("token bucket: unexpected reply %v", vals)
	}
	return uploadVerdict{
		Allowed:   vals[0] == 1,
		Remaining: vals[1],
		RetryIn:   time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits report uploads per authenticated user with a Redis
// token bucket.  It is a pass-through when disabled or without Redis, and it
// fails open when Redis errors so a cache outage never blocks reporting.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	bucket := uploadBucket{cfg: cfg, rdb: rdb}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username := currentUserID(c)
			v, err := bucket.take(c.Request().Context(), username, time.Now())
			if err != nil {
				logger.Warningf("ratelimit: %s: %v", username, err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(v.Remaining, 10))
			if v.Allowed {
				return next(c)
			}

			secs := int(math.Ceil(v.RetryIn.Seconds()))
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				logger.Infof("ratelimit: blocked %s, retry in %s", username, v.RetryIn)
			}
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"error":       "too_many_requests",
				"message":     "too many reports, please wait before submitting again",
				"retry_after": secs,
			})
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
