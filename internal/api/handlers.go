/**
 * @description
 * This file contains the handler container and shared response helpers for the
 * service's API endpoints. Handlers are responsible for parsing incoming
 * requests, calling the appropriate methods on the application services, and
 * writing the HTTP response. They act as the bridge between the web layer and
 * the business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain: For service logic and models.
 * - pkg/authclient: For the identity provider pass-through endpoints.
 */

package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/realmigrentau/migrent-ai/internal/app"
	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/pkg/authclient"
)

// IdentityClient is the slice of the identity provider used by the auth
// pass-through endpoints.
type IdentityClient interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*authclient.AuthResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*authclient.AuthResult, error)
}

// VerificationLookup resolves whether a user's profile carries the verified flag.
type VerificationLookup interface {
	IsProfileVerified(ctx context.Context, userID string) (bool, error)
}

// WebhookVerifier validates a signed payment-provider callback and extracts
// the completed-checkout event, if any.
type WebhookVerifier interface {
	ConstructCheckoutEvent(payload []byte, sigHeader string) (*domain.CheckoutCompletedEvent, error)
}

// Handlers holds the application services that the HTTP handlers will use.
type Handlers struct {
	deals     *app.DealService
	listings  *app.ListingService
	profiles  *app.ProfileService
	messages  *app.MessageService
	referrals *app.ReferralService
	reports   *app.ReportService
	account   *app.AccountService
	identity  IdentityClient
	verified  VerificationLookup
	webhooks  WebhookVerifier
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(
	deals *app.DealService,
	listings *app.ListingService,
	profiles *app.ProfileService,
	messages *app.MessageService,
	referrals *app.ReferralService,
	reports *app.ReportService,
	account *app.AccountService,
	identity IdentityClient,
	verified VerificationLookup,
	webhooks WebhookVerifier,
) *Handlers {
	return &Handlers{
		deals:     deals,
		listings:  listings,
		profiles:  profiles,
		messages:  messages,
		referrals: referrals,
		reports:   reports,
		account:   account,
		identity:  identity,
		verified:  verified,
		webhooks:  webhooks,
	}
}

// HealthHandler reports service liveness.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("level=error component=api msg=\"failed to encode response\" err=%v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// authedUser extracts the caller from the context, writing a 500 when the
// middleware did not run. Returns false when the response is already written.
func authedUser(w http.ResponseWriter, r *http.Request) (domain.AuthUser, bool) {
	user, ok := GetAuthUser(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user from context")
		return domain.AuthUser{}, false
	}
	return user, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
