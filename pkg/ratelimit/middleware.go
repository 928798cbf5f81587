package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"classbook/internal/shared/utils/response"
	"classbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware enforces the limiter per client IP. A Redis failure is
// logged and the request is let through.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := classify(c.Request.Method, c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			logger.GetDefault().Warn("rate limit check failed", "error", err, "ip", clientIP)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			c.Header("Retry-After", strconv.Itoa(int(rateLimiter.config.WindowDuration.Seconds())))
			response.AbortWithError(c, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		c.Next()
	}
}

// classify picks the budget for a route template
func classify(method, path string) LimitType {
	switch {
	case strings.Contains(path, "/users/signup"),
		strings.Contains(path, "/users/signin"),
		strings.Contains(path, "/users/confirm"):
		return LimitTypeAuth

	case strings.Contains(path, "/analytics/admin"),
		strings.Contains(path, "/slots") && method != http.MethodGet:
		return LimitTypeAdmin

	case strings.Contains(path, "/bookings"),
		strings.Contains(path, "/cart"):
		return LimitTypeBooking

	case strings.Contains(path, "/slots"):
		return LimitTypePublic

	default:
		return LimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := c.GetHeader("X-Real-IP"); net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
