/**
 * @description
 * Identity types shared across the API and service layers. Users live in the
 * external identity provider (Supabase auth); this service only consumes the
 * identity surfaced by a validated access token.
 */
package domain

// User types recognised in the identity provider's user_metadata.
const (
	UserTypeSeeker = "seeker"
	UserTypeOwner  = "owner"
)

// AuthUser is the caller identity extracted from a validated bearer token.
type AuthUser struct {
	ID       string
	Email    string
	UserType string
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned from both register and login.
type AuthResponse struct {
	UserID      string  `json:"user_id"`
	Email       string  `json:"email"`
	AccessToken *string `json:"access_token"`
	Verified    bool    `json:"verified"`
}
