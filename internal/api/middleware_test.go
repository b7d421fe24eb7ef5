package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

const testJWTSecret = "test-secret"

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestSupabaseAuthMiddleware_ValidToken(t *testing.T) {
	signed := mintToken(t, testJWTSecret, jwt.MapClaims{
		"sub":   "user-123",
		"email": "user@example.com",
		"user_metadata": map[string]interface{}{
			"user_type": "owner",
		},
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	var got domain.AuthUser
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetAuthUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	SupabaseAuthMiddleware(testJWTSecret)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !ok {
		t.Fatalf("expected auth user in context")
	}
	if got.ID != "user-123" || got.Email != "user@example.com" || got.UserType != "owner" {
		t.Fatalf("unexpected auth user: %+v", got)
	}
}

func TestSupabaseAuthMiddleware_NoUserType(t *testing.T) {
	signed := mintToken(t, testJWTSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	var got domain.AuthUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetAuthUser(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	SupabaseAuthMiddleware(testJWTSecret)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.UserType != "" {
		t.Fatalf("expected empty user type, got %q", got.UserType)
	}
}

func TestSupabaseAuthMiddleware_Rejections(t *testing.T) {
	expired := mintToken(t, testJWTSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecret := mintToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubject := mintToken(t, testJWTSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc123"},
		{name: "garbage token", header: "Bearer not.a.token"},
		{name: "wrong secret", header: "Bearer " + wrongSecret},
		{name: "expired token", header: "Bearer " + expired},
		{name: "missing sub claim", header: "Bearer " + noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			SupabaseAuthMiddleware(testJWTSecret)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if nextCalled {
				t.Fatalf("next handler should not run")
			}
		})
	}
}
