package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

func TestClientSubject(t *testing.T) {
	t.Run("authenticated user wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		ctx := context.WithValue(req.Context(), authUserKey, domain.AuthUser{ID: "user-1"})
		req = req.WithContext(ctx)

		if got := clientSubject(req); got != "user-1" {
			t.Fatalf("expected user id, got %q", got)
		}
	})

	t.Run("first forwarded hop", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

		if got := clientSubject(req); got != "203.0.113.7" {
			t.Fatalf("expected first forwarded hop, got %q", got)
		}
	})

	t.Run("remote addr host fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:54321"

		if got := clientSubject(req); got != "192.0.2.1" {
			t.Fatalf("expected remote addr host, got %q", got)
		}
	})
}

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	limiter := NewRateLimiter(nil)

	nextCalled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled++
	})
	handler := RateLimit(limiter, "register", 1, time.Minute)(next)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", rec.Code)
		}
	}
	if nextCalled != 5 {
		t.Fatalf("expected 5 calls, got %d", nextCalled)
	}
}

func TestConsumeNilLimiterSafe(t *testing.T) {
	var limiter *RateLimiter

	count, retryAfter, err := limiter.Consume(context.Background(), "scope", "subject", 10, time.Minute)
	if err != nil || count != 0 || retryAfter != 0 {
		t.Fatalf("expected nil limiter no-op, got count=%d retry=%d err=%v", count, retryAfter, err)
	}
}
