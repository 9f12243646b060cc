package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"dexotix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware applies per-route-class rate limiting to every request
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// A broken limiter must not take the API down with it.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType classifies a route path into a limit class
func getRateLimitType(path string) RateLimitType {
	switch {
	// Admin back office
	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	// Authentication endpoints
	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	// Payment endpoints (webhook included)
	case strings.Contains(path, "/payments"):
		return RateLimitTypePayment

	// Checkout flow
	case strings.Contains(path, "/bookings") ||
		strings.Contains(path, "/seats") ||
		strings.Contains(path, "/cancellations"):
		return RateLimitTypeBooking

	// Public discovery
	case strings.Contains(path, "/events"),
		strings.Contains(path, "/venues"),
		strings.Contains(path, "/tags"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP extracts the real client IP, honoring proxy headers
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	return c.ClientIP()
}
