package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const (
	rateLimitExceededJSON = `{"error":"Rate limit exceeded","message":"Too many generation requests. Please try again later.","retry_after":%d}`
)

// RateLimit allows each client limit requests per window
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: window,
		Limit:  int64(limit),
	}

	instance := limiter.New(store, rate)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			context, err := instance.Get(r.Context(), key)
			if err != nil {
				// Fail open so a limiter fault never blocks generation
				log.Printf("Rate limiter error: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

			if context.Reached {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)

				retryAfter := int(time.Until(time.Unix(context.Reset, 0)).Seconds())
				if retryAfter < 0 {
					retryAfter = 0
				}
				if _, err := fmt.Fprintf(w, rateLimitExceededJSON, retryAfter); err != nil {
					log.Printf("Error writing rate limit response: %v", err)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP address from the request
// Handles X-Forwarded-For header for proxied requests
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	// Remove port if present (e.g., "127.0.0.1:12345" -> "127.0.0.1")
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
