package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const visitorMaxAge = 5 * time.Minute

type visitor struct {
	lastSeen time.Time
	count    int
}

// RateLimiter limits requests per client IP over a one-minute window.
// State is held per instance, not in package globals.
type RateLimiter struct {
	requestsPerMinute int

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter creates a rate limiter
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		visitors:          make(map[string]*visitor),
	}
}

// Limit wraps next with the per-IP limit
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)

		l.mu.Lock()
		v, exists := l.visitors[ip]

		if !exists || time.Since(v.lastSeen) > time.Minute {
			l.visitors[ip] = &visitor{
				lastSeen: time.Now(),
				count:    1,
			}
			l.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		if v.count >= l.requestsPerMinute {
			l.mu.Unlock()
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		v.count++
		l.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// StartCleanup periodically evicts visitors with no recent requests so the
// map does not grow with every client IP ever seen. Runs until ctx is
// cancelled.
func (l *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(visitorMaxAge)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.removeStale(visitorMaxAge)
			}
		}
	}()
}

func (l *RateLimiter) removeStale(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > maxAge {
			delete(l.visitors, ip)
		}
	}
}

func getIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
