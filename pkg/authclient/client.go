/**
 * @description
 * This package provides a client for the identity collaborator (Supabase
 * auth / GoTrue). It encapsulates the HTTP calls for registration, password
 * login, and admin user deletion.
 *
 * Credentials are two-tier: the anon-key Client covers the user-facing
 * operations, and the separate AdminClient wraps the service-role key needed
 * for admin operations such as deleting a user. The admin constructor fails
 * when the elevated credential is absent instead of silently degrading to the
 * anon key.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, io, net/http, time: Standard Go libraries.
 */
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ErrServiceRoleKeyMissing is returned when the elevated credential is not
// configured.
var ErrServiceRoleKeyMissing = errors.New("service role key is required for admin operations")

// ErrInvalidCredentials is returned on a failed password login.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Client talks to the GoTrue API with the anon key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new identity client using the anon key.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  anonKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// AdminClient talks to the GoTrue admin API with the service-role key.
type AdminClient struct {
	client *Client
}

// NewAdminClient creates the elevated client. It fails fast when the
// service-role key is absent.
func NewAdminClient(baseURL, serviceRoleKey string) (*AdminClient, error) {
	if serviceRoleKey == "" {
		return nil, ErrServiceRoleKeyMissing
	}
	return &AdminClient{client: NewClient(baseURL, serviceRoleKey)}, nil
}

// Session is the token material returned on signup and login.
type Session struct {
	AccessToken string `json:"access_token"`
}

// User is the identity record surfaced by GoTrue.
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// AuthResult bundles the user and, when present, the session.
type AuthResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// signupResponse covers both response shapes GoTrue uses: the flat user
// object (email confirmation pending) and the session envelope.
type signupResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AccessToken  string                 `json:"access_token"`
	User         *User                  `json:"user"`
}

// SignUp registers a new user with the given metadata attached to the
// identity record.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*AuthResult, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	var resp signupResponse
	url := fmt.Sprintf("%s/auth/v1/signup", c.baseURL)
	if err := c.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}

	result := &AuthResult{}
	if resp.User != nil {
		result.User = resp.User
	} else {
		result.User = &User{ID: resp.ID, Email: resp.Email, UserMetadata: resp.UserMetadata}
	}
	if resp.AccessToken != "" {
		result.Session = &Session{AccessToken: resp.AccessToken}
	}
	if result.User.ID == "" {
		return nil, errors.New("signup did not return a user")
	}
	return result, nil
}

// SignInWithPassword performs the password grant.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		User        *User  `json:"user"`
	}
	url := fmt.Sprintf("%s/auth/v1/token?grant_type=password", c.baseURL)
	if err := c.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if resp.User == nil || resp.AccessToken == "" {
		return nil, ErrInvalidCredentials
	}
	return &AuthResult{User: resp.User, Session: &Session{AccessToken: resp.AccessToken}}, nil
}

// DeleteUser removes the identity record. Requires the service-role key.
func (a *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", a.client.baseURL, userID)
	return a.client.do(ctx, http.MethodDelete, url, nil, nil)
}

// do is a helper to make authenticated HTTP requests to the GoTrue API. The
// apikey header and the Authorization bearer both carry the client's key.
func (c *Client) do(ctx context.Context, method, url string, body, target interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("level=warn component=authclient msg=\"identity API error\" method=%s status=%d", method, resp.StatusCode)
		return fmt.Errorf("identity API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if target != nil {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return nil
}
