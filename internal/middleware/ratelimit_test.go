package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serveFrom(l *RateLimiter, ip string) {
	handler := l.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = ip + ":1234"
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRateLimiter_EvictsStaleVisitors(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(100)

	for i := 0; i < 1000; i++ {
		serveFrom(limiter, fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}

	limiter.mu.Lock()
	if got := len(limiter.visitors); got != 1000 {
		limiter.mu.Unlock()
		t.Fatalf("expected 1000 tracked visitors, got %d", got)
	}
	// age every entry past the eviction threshold
	for _, v := range limiter.visitors {
		v.lastSeen = time.Now().Add(-time.Hour)
	}
	limiter.mu.Unlock()

	limiter.removeStale(visitorMaxAge)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if got := len(limiter.visitors); got != 0 {
		t.Fatalf("expected every stale visitor to be evicted, %d remain", got)
	}
}

func TestRateLimiter_KeepsActiveVisitors(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(100)

	serveFrom(limiter, "10.0.0.1")
	serveFrom(limiter, "10.0.0.2")

	limiter.mu.Lock()
	limiter.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	limiter.mu.Unlock()

	limiter.removeStale(visitorMaxAge)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if _, ok := limiter.visitors["10.0.0.1"]; ok {
		t.Fatal("expected the stale visitor to be evicted")
	}
	if _, ok := limiter.visitors["10.0.0.2"]; !ok {
		t.Fatal("expected the active visitor to be kept")
	}
}
