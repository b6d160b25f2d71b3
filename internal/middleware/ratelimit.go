// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long a client may stay silent before its bucket is dropped.
const idleTTL = 10 * time.Minute

// limiterEntry is one client's token bucket.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides per-IP token bucket rate limiting.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	stopCh  chan struct{}
}

// NewRateLimiter creates a rate limiter that allows rps requests per second
// per client with bursts up to burst. It starts a background goroutine that
// drops idle clients; call Stop to end it.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup(time.Now())
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// allow reports whether key may make a request now.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.clients[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// cleanup removes clients idle since before now-idleTTL.
func (rl *RateLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-idleTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			writeJSONError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	// Only the rightmost X-Forwarded-For entry was written by our own proxy;
	// anything to its left came from the client and can be forged.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		entries := strings.Split(xff, ",")
		for i := len(entries) - 1; i >= 0; i-- {
			if ip := strings.TrimSpace(entries[i]); ip != "" {
				return ip
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
