package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLimitLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	handler := RateLimit(1, 3, testLimitLogger())(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/", nil)
		req.Header.Set("X-Session-ID", "session-1")
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	handler := RateLimit(1, 2, testLimitLogger())(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/", nil)
		req.Header.Set("X-Session-ID", "session-1")
		handler.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), "RATE_LIMITED")
}

func TestRateLimit_SessionsHaveSeparateBuckets(t *testing.T) {
	handler := RateLimit(1, 1, testLimitLogger())(okHandler())

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodPost, "/", nil)
	req1.Header.Set("X-Session-ID", "session-1")
	handler.ServeHTTP(first, req1)

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/", nil)
	req2.Header.Set("X-Session-ID", "session-2")
	handler.ServeHTTP(second, req2)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	handler := RateLimit(1, 1, testLimitLogger())(okHandler())

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodPost, "/", nil)
	req1.RemoteAddr = "10.0.0.1:4567"
	handler.ServeHTTP(first, req1)

	second := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/", nil)
	req2.RemoteAddr = "10.0.0.1:9999"
	handler.ServeHTTP(second, req2)

	// Same IP, different port: one bucket.
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestVisitorStore_CleanupEvictsStale(t *testing.T) {
	store := newVisitorStore(1, 1, time.Minute)

	now := time.Now()
	store.nowFunc = func() time.Time { return now }
	store.getVisitor("session-1")
	store.getVisitor("session-2")
	assert.Equal(t, 2, store.len())

	store.nowFunc = func() time.Time { return now.Add(2 * time.Minute) }
	store.cleanup()

	assert.Equal(t, 0, store.len())
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"x-forwarded-for", "203.0.113.7, 10.0.0.1", "", "10.0.0.2:123", "203.0.113.7"},
		{"x-real-ip", "", "203.0.113.8", "10.0.0.2:123", "203.0.113.8"},
		{"remote addr", "", "", "10.0.0.2:123", "10.0.0.2"},
		{"bad xff falls through", "not-an-ip", "", "10.0.0.2:123", "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
