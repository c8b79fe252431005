package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Now()

	if !l.Allow("ip:1.2.3.4", now) || !l.Allow("ip:1.2.3.4", now) {
		t.Fatal("expected burst of 2 to be admitted")
	}
	if l.Allow("ip:1.2.3.4", now) {
		t.Fatal("expected third request in the same instant to be blocked")
	}
	if !l.Allow("ip:5.6.7.8", now) {
		t.Fatal("expected other clients to have their own bucket")
	}
	if !l.Allow("ip:1.2.3.4", now.Add(time.Second)) {
		t.Fatal("expected a token to be refilled after one second")
	}
}

func TestNilRateLimiterAdmitsEverything(t *testing.T) {
	l := NewRateLimiter(0, 0)
	if l != nil {
		t.Fatal("expected disabled limiter to be nil")
	}

	rr := httptest.NewRecorder()
	l.Middleware(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRateLimiterMiddlewareReturns429(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	handler := l.Middleware(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, second.Code)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	if got := clientKey(req); got != "ip:10.0.0.7" {
		t.Fatalf("unexpected key %q", got)
	}

	req.RemoteAddr = ""
	if got := clientKey(req); got != "ip:unknown" {
		t.Fatalf("unexpected key %q", got)
	}
}
