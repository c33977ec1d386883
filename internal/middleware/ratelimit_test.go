package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func TestTokenBucket_Refill(t *testing.T) {
	clock := &fakeNow{t: time.Unix(0, 0)}
	tb := newTokenBucket(2, 1, clock.now)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	clock.t = clock.t.Add(1500 * time.Millisecond)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	clock.t = clock.t.Add(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "refill never exceeds capacity")
}

func TestRateLimiter_PerKeyAndEviction(t *testing.T) {
	clock := &fakeNow{t: time.Unix(0, 0)}
	rl := NewRateLimiter(1, 1)
	rl.now = clock.now

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	clock.t = clock.t.Add(11 * time.Minute)
	assert.Equal(t, 2, rl.evict(10*time.Minute))
	assert.Empty(t, rl.buckets)
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	h := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/users/u1/report", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	health := httptest.NewRequest(http.MethodGet, "/health", nil)
	health.RemoteAddr = req.RemoteAddr
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, health)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
