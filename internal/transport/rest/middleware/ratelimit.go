package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"

	"formpilot/internal/cache"
)

// RateLimitMiddleware throttles requests per client IP using a
// redis-backed fixed window counter
type RateLimitMiddleware struct {
	limiter cache.RateLimitCache
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter cache.RateLimitCache) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit rejects clients that exceed the configured window
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path + ":" + ClientIP(r)
		allowed, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			// Fail open: a cache outage should not lock out logins
			log.Printf("rate limit check failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP resolves the originating client address
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
