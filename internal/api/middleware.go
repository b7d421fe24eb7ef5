/**
 * @description
 * This file contains custom middleware for the HTTP router. Middlewares are used
 * to process requests before they reach the final handler, perfect for tasks like
 * authentication, logging, or adding context to a request.
 *
 * @dependencies
 * - context, net/http, strings: Standard Go libraries.
 * - github.com/golang-jwt/jwt/v5: JWT parsing and validation.
 */

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

// AuthUserContextKey is a custom type for the context key to avoid collisions.
type AuthUserContextKey string

const authUserKey AuthUserContextKey = "authUser"

// SupabaseAuthMiddleware creates a middleware that validates Supabase access
// tokens. Supabase signs its access tokens with a shared HS256 secret, so the
// token can be verified locally without a round trip to the identity provider.
func SupabaseAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get the Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Extract the token from "Bearer <token>"
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			user, err := userFromToken(tokenString, jwtSecret)
			if err != nil {
				http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			// Add the authenticated user to the request context
			ctx := context.WithValue(r.Context(), authUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSupabaseAuthMiddleware populates the caller identity when a valid
// bearer token is present and passes the request through otherwise. Used on
// public routes whose behavior narrows for authenticated callers.
func OptionalSupabaseAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if authHeader == "" || tokenString == authHeader {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userFromToken(tokenString, jwtSecret)
			if err != nil {
				// An invalid token downgrades to anonymous rather than failing
				// a public route.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), authUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userFromToken verifies an access token and extracts the caller identity
// from its claims.
func userFromToken(tokenString, jwtSecret string) (domain.AuthUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return domain.AuthUser{}, err
	}
	if !token.Valid {
		return domain.AuthUser{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.AuthUser{}, fmt.Errorf("invalid token claims")
	}

	// Get the user ID from the 'sub' claim (standard JWT claim for subject)
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return domain.AuthUser{}, fmt.Errorf("user id not found in token")
	}

	user := domain.AuthUser{ID: userID}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	// The user type travels in user_metadata, set at signup.
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if userType, ok := meta["user_type"].(string); ok {
			user.UserType = userType
		}
	}
	return user, nil
}

// GetAuthUser retrieves the authenticated user from the request context.
// Handlers should use this function to get the caller's identity.
func GetAuthUser(ctx context.Context) (domain.AuthUser, bool) {
	user, ok := ctx.Value(authUserKey).(domain.AuthUser)
	return user, ok
}
