package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/realmigrentau/migrent-ai/pkg/authclient"
)

type stubIdentityClient struct {
	result     *authclient.AuthResult
	err        error
	signUpMeta map[string]interface{}
}

func (c *stubIdentityClient) SignUp(_ context.Context, email, password string, metadata map[string]interface{}) (*authclient.AuthResult, error) {
	c.signUpMeta = metadata
	return c.result, c.err
}

func (c *stubIdentityClient) SignInWithPassword(_ context.Context, _, _ string) (*authclient.AuthResult, error) {
	return c.result, c.err
}

type stubVerificationLookup struct {
	verified bool
	err      error
}

func (v *stubVerificationLookup) IsProfileVerified(_ context.Context, _ string) (bool, error) {
	return v.verified, v.err
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{name: "valid", password: "passw0rd", wantOK: true},
		{name: "too short", password: "pass1", wantOK: false},
		{name: "no digit", password: "passwords", wantOK: false},
		{name: "no letter", password: "12345678", wantOK: false},
		{name: "long with both", password: "s3cure-enough", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validatePassword(tt.password)
			if (msg == "") != tt.wantOK {
				t.Fatalf("validatePassword(%q) = %q, wantOK=%v", tt.password, msg, tt.wantOK)
			}
		})
	}
}

func TestRegisterHandler(t *testing.T) {
	identity := &stubIdentityClient{result: &authclient.AuthResult{
		User:    &authclient.User{ID: "user-1", Email: "new@example.com"},
		Session: &authclient.Session{AccessToken: "token-abc"},
	}}
	h := &Handlers{identity: identity, verified: &stubVerificationLookup{}}

	body := `{"email":"new@example.com","password":"passw0rd","type":"seeker"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.RegisterHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if identity.signUpMeta["user_type"] != "seeker" {
		t.Fatalf("expected user_type in signup metadata, got %v", identity.signUpMeta)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["user_id"] != "user-1" || resp["access_token"] != "token-abc" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if resp["verified"] != false {
		t.Fatalf("expected verified false, got %v", resp["verified"])
	}
}

func TestRegisterHandlerValidation(t *testing.T) {
	h := &Handlers{identity: &stubIdentityClient{}, verified: &stubVerificationLookup{}}

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid email", body: `{"email":"not-an-email","password":"passw0rd","type":"seeker"}`},
		{name: "weak password", body: `{"email":"a@b.com","password":"short","type":"seeker"}`},
		{name: "bad user type", body: `{"email":"a@b.com","password":"passw0rd","type":"landlord"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.RegisterHandler(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	h := &Handlers{
		identity: &stubIdentityClient{err: errors.New("bad credentials")},
		verified: &stubVerificationLookup{},
	}

	body := `{"email":"a@b.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.LoginHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginHandlerVerifiedLookupFailureDefaultsFalse(t *testing.T) {
	h := &Handlers{
		identity: &stubIdentityClient{result: &authclient.AuthResult{
			User:    &authclient.User{ID: "user-1", Email: "a@b.com"},
			Session: &authclient.Session{AccessToken: "tok"},
		}},
		verified: &stubVerificationLookup{err: errors.New("db down")},
	}

	body := `{"email":"a@b.com","password":"passw0rd"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.LoginHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["verified"] != false {
		t.Fatalf("expected verified false on lookup failure, got %v", resp["verified"])
	}
}
