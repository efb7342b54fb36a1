package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"cloudunify-backend/internal/cache"
)

const (
	loginLimit  = 5
	loginWindow = time.Minute
	seedLimit   = 10
	seedWindow  = time.Minute
)

func RateLimitLogin(cacheClient cache.Client) func(http.Handler) http.Handler {
	return rateLimitByIP(cacheClient, "rl:login:", loginLimit, loginWindow)
}

func RateLimitSeed(cacheClient cache.Client) func(http.Handler) http.Handler {
	return rateLimitByIP(cacheClient, "rl:seed:", seedLimit, seedWindow)
}

func rateLimitByIP(cacheClient cache.Client, prefix string, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := prefix + clientIP(r)
			count, err := cacheClient.IncrWithTTL(key, window)
			if err == nil && count > limit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
