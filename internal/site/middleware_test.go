package site

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientLimiter(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	limiter := newClientLimiter(1, 2, clock)

	for i, want := range []bool{true, true, false} {
		if got := limiter.Allow("10.0.0.1"); got != want {
			t.Fatalf("attempt %d: allow = %v, want %v", i, got, want)
		}
	}
	if !limiter.Allow("10.0.0.2") {
		t.Fatalf("clients must not share a bucket")
	}

	now = now.Add(time.Second)
	if !limiter.Allow("10.0.0.1") {
		t.Fatalf("bucket did not refill")
	}
}

func TestClientLimiterDisabled(t *testing.T) {
	limiter := newClientLimiter(0, 1, nil)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("disabled limiter rejected attempt %d", i)
		}
	}
}

func TestClientLimiterSweepsIdleClients(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(1, 1, func() time.Time { return now })
	limiter.Allow("stale")
	now = now.Add(time.Hour)
	limiter.sweep(now)
	if _, ok := limiter.clients["stale"]; ok {
		t.Fatalf("idle client not swept")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := withRequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("incoming id not kept: ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "abc-123" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("expected generated id, got %q", seen)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:52100"
	if got := clientKey(req); got != "203.0.113.9" {
		t.Fatalf("client key = %q", got)
	}
	req.RemoteAddr = "pipe"
	if got := clientKey(req); got != "pipe" {
		t.Fatalf("client key = %q", got)
	}
}
