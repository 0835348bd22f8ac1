package middleware

import (
	"net/http"
	"sync"
	"time"
)

// LoginThrottle caps login attempts per client IP over a fixed window. The
// credentials are plain string comparisons server-side, so brute forcing is
// cheap without a cap.
type LoginThrottle struct {
	mu       sync.Mutex
	attempts map[string]*window
	limit    int
	period   time.Duration
	now      func() time.Time
}

type window struct {
	count int
	start time.Time
}

// NewLoginThrottle allows limit attempts per period for each client IP.
func NewLoginThrottle(limit int, period time.Duration) *LoginThrottle {
	return &LoginThrottle{
		attempts: make(map[string]*window),
		limit:    limit,
		period:   period,
		now:      time.Now,
	}
}

// Allow records an attempt from ip and reports whether it is within bounds.
func (t *LoginThrottle) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	w, ok := t.attempts[ip]
	if !ok || now.Sub(w.start) >= t.period {
		t.attempts[ip] = &window{count: 1, start: now}
		t.evictStale(now)
		return true
	}
	w.count++
	return w.count <= t.limit
}

func (t *LoginThrottle) evictStale(now time.Time) {
	for ip, w := range t.attempts {
		if now.Sub(w.start) >= 2*t.period {
			delete(t.attempts, ip)
		}
	}
}

// Middleware rejects over-limit requests with 429.
func (t *LoginThrottle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if xri := r.Header.Get("X-Real-Ip"); xri != "" {
			ip = xri
		}
		if !t.Allow(ip) {
			http.Error(w, "too many login attempts", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
