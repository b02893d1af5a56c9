package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/templui/jobtracker/internal/render"
)

// RateLimiter tracks request counts per IP address
type RateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	limit       int           // Max requests allowed
	window      time.Duration // Time window for rate limiting
	lastCleanup time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests:    make(map[string][]time.Time),
		limit:       limit,
		window:      window,
		lastCleanup: time.Now(),
	}
}

// Allow records a request from ip and reports whether it fits in the window.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastCleanup) > rl.window {
		rl.cleanup(now)
		rl.lastCleanup = now
	}

	recent := recentSince(rl.requests[ip], now.Add(-rl.window))
	if len(recent) >= rl.limit {
		rl.requests[ip] = recent
		return false
	}

	rl.requests[ip] = append(recent, now)
	return true
}

// cleanup drops IPs idle for the whole window. Runs under mu.
func (rl *RateLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-rl.window)
	for ip, requests := range rl.requests {
		// Timestamps are appended in order, so the last one is the newest.
		if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
			delete(rl.requests, ip)
		}
	}
}

// recentSince filters requests in place; callers store the result back.
func recentSince(requests []time.Time, cutoff time.Time) []time.Time {
	recent := requests[:0]
	for _, t := range requests {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

// RateLimitAuth creates middleware for the credential endpoints.
// Each client IP gets limit requests per window. Forwarding headers are only
// believed from peers inside trusted.
func RateLimitAuth(limit int, window time.Duration, trusted []netip.Prefix) func(http.HandlerFunc) http.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trusted)

			// Check rate limit
			if !limiter.Allow(ip) {
				slog.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
				render.JSON(w, http.StatusTooManyRequests, map[string]any{
					"error": map[string]string{
						"kind":    "rate_limited",
						"message": "too many requests, please try again later",
					},
				})
				return
			}

			next(w, r)
		}
	}
}

// clientIP returns the peer address unless the peer is a trusted proxy, in which
// case it walks X-Forwarded-For from the right and returns the first untrusted hop.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peer, err := netip.ParseAddr(host)
	if err != nil || !isTrusted(peer, trusted) {
		return host
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if !isTrusted(hop, trusted) {
			return hop.String()
		}
	}

	return host
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
