package devserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogRequest_RequestID(t *testing.T) {
	h := LogRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("Expected a generated request ID")
		}
		if rec.Code != http.StatusTeapot {
			t.Errorf("Expected status passthrough, got %d", rec.Code)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
			t.Errorf("Expected client request ID, got %q", got)
		}
	})
}

func TestRateLimiter_PerKey(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)

	if ok, _ := rl.Allow("ip:a"); !ok {
		t.Fatal("First request should pass")
	}
	ok, retry := rl.Allow("ip:a")
	if ok {
		t.Fatal("Second request should be limited")
	}
	if retry <= 0 {
		t.Errorf("Expected positive retry delay, got %v", retry)
	}
	if ok, _ := rl.Allow("ip:b"); !ok {
		t.Error("Other keys have their own bucket")
	}
}

func TestRateLimit_NilLimiterPasses(t *testing.T) {
	h := RateLimit(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected passthrough, got %d", rec.Code)
		}
	}
}

func TestClientIP_StripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:52311"
	if got := ClientIP(req); got != "ip:10.0.0.7" {
		t.Errorf("Expected ip:10.0.0.7, got %s", got)
	}
}
