package ratelimit

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"classbook/internal/shared/config"

	"github.com/redis/go-redis/v9"
)

type LimitType string

const (
	LimitTypeDefault LimitType = "default"
	LimitTypePublic  LimitType = "public"
	LimitTypeAuth    LimitType = "auth"
	LimitTypeBooking LimitType = "booking"
	LimitTypeAdmin   LimitType = "admin"
)

const keyPrefix = "classbook:ratelimit:"

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// slidingWindow trims entries older than the window, then records the
// request if the window still has room. Returns {count, remaining}.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {current + 1, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)
	return {current + 1, limit - current - 1}
`)

// RateLimiter counts requests per client and limit type in Redis
type RateLimiter struct {
	client *redis.Client
	config config.RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter returns a limiter; a nil client admits every request
func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, config: cfg, now: time.Now}
}

// IsAllowed checks and records one request from clientIP
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType LimitType) (*Result, error) {
	limit := r.Limit(limitType)
	now := r.now()

	if !r.config.Enabled || r.client == nil || limit <= 0 || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: now.Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := keyPrefix + clientIP + ":" + string(limitType)
	return r.checkLimit(ctx, key, limit, now)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, now time.Time) (*Result, error) {
	window := r.config.WindowDuration
	windowStart := now.Add(-window)

	raw, err := slidingWindow.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		window.Milliseconds(),
		strconv.FormatInt(now.UnixNano(), 10),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response %v", raw)
	}
	count, _ := values[0].(int64)
	remaining, _ := values[1].(int64)

	return &Result{
		Allowed:   int(count) <= limit,
		Limit:     limit,
		Remaining: int(remaining),
		ResetTime: now.Add(window).Unix(),
	}, nil
}

// Limit returns the configured request budget for limitType
func (r *RateLimiter) Limit(limitType LimitType) int {
	switch limitType {
	case LimitTypePublic:
		return r.config.PublicRequests
	case LimitTypeAuth:
		return r.config.AuthRequests
	case LimitTypeBooking:
		return r.config.BookingRequests
	case LimitTypeAdmin:
		return r.config.AdminRequests
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	return slices.Contains(r.config.WhitelistedIPs, ip)
}
