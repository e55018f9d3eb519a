package httpapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/swarm-blackjack/trainer/internal/config"
)

// CORSMiddleware generalizes the teacher's corsMiddleware (gateway/main.go)
// from a wildcard-only policy to a configurable origin allowlist.
func CORSMiddleware(cors config.CORS, next http.Handler) http.Handler {
	allowAll := len(cors.Origins) == 1 && cors.Origins[0] == "*"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && contains(cors.Origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// rateLimiter is a fixed-window per-session-id limiter, generalizing the
// training endpoints' need for basic abuse protection since spec.md names
// rate limiting as part of the configuration surface (§6.5) without
// prescribing an algorithm.
type rateLimiter struct {
	mu       sync.Mutex
	rpm      int
	window   time.Time
	counts   map[string]int
}

func newRateLimiter(rpm int) *rateLimiter {
	return &rateLimiter{rpm: rpm, window: time.Now(), counts: make(map[string]int)}
}

func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.window) > time.Minute {
		l.window = time.Now()
		l.counts = make(map[string]int)
	}
	l.counts[key]++
	return l.counts[key] <= l.rpm
}

// RateLimitMiddleware rejects requests past rl.RPM per fixed one-minute window, keyed
// by X-Session-ID (falling back to RemoteAddr for unauthenticated requests).
func RateLimitMiddleware(rl config.RateLimit, next http.Handler) http.Handler {
	if !rl.Enabled {
		return next
	}
	limiter := newRateLimiter(rl.RPM)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(sessionHeader)
		if key == "" {
			key = r.RemoteAddr
		}
		if !limiter.allow(key) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
