/**
 * @description
 * HTTP handlers for registration and login. Both are thin pass-throughs to
 * the identity provider: credentials never touch local storage, and the
 * provider's access token is returned to the client as-is.
 */

package api

import (
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/pkg/authclient"
)

// RegisterHandler handles POST /auth/register.
func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if msg := validatePassword(req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Type != domain.UserTypeSeeker && req.Type != domain.UserTypeOwner {
		writeError(w, http.StatusBadRequest, "Type must be either 'seeker' or 'owner'")
		return
	}

	result, err := h.identity.SignUp(r.Context(), req.Email, req.Password, map[string]interface{}{
		"user_type": req.Type,
	})
	if err != nil {
		log.Printf("level=warn component=api endpoint=register outcome=reject email=%s err=%v", req.Email, err)
		writeError(w, http.StatusBadRequest, "Registration failed")
		return
	}

	writeJSON(w, http.StatusOK, h.buildAuthResponse(r, result))
}

// LoginHandler handles POST /auth/login.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.identity.SignInWithPassword(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		log.Printf("level=warn component=api endpoint=login outcome=reject email=%s", req.Email)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, h.buildAuthResponse(r, result))
}

// buildAuthResponse shapes the common register/login response. The verified
// flag comes from the profile row and defaults to false when the lookup fails.
func (h *Handlers) buildAuthResponse(r *http.Request, result *authclient.AuthResult) domain.AuthResponse {
	resp := domain.AuthResponse{
		UserID: result.User.ID,
		Email:  result.User.Email,
	}
	if result.Session != nil {
		token := result.Session.AccessToken
		resp.AccessToken = &token
	}

	verified, err := h.verified.IsProfileVerified(r.Context(), result.User.ID)
	if err != nil {
		log.Printf("level=warn component=api msg=\"verified lookup failed\" user_id=%s err=%v", result.User.ID, err)
		verified = false
	}
	resp.Verified = verified
	return resp
}

// validatePassword enforces the minimum password policy before the request is
// forwarded to the identity provider. Returns an empty string when valid.
func validatePassword(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return "Password must contain at least one letter and one number"
	}
	return ""
}
