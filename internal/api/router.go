/**
 * @description
 * This file sets up the HTTP router for the service. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies
 * the necessary middleware for logging, panic recovery, CORS, authentication,
 * and per-route rate limiting.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for chi.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes creates and returns the router for the service.
func Routes(h *Handlers, limiter *RateLimiter, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/", h.HealthHandler)

	// Public endpoints.
	r.Group(func(r chi.Router) {
		r.With(RateLimit(limiter, "register", 5, time.Minute)).
			Post("/auth/register", h.RegisterHandler)
		r.With(RateLimit(limiter, "login", 10, time.Minute)).
			Post("/auth/login", h.LoginHandler)
		r.With(RateLimit(limiter, "support", 3, time.Minute)).
			Post("/support/contact", h.SupportContactHandler)

		// Browsing is public, but owner=true narrows to the caller's own
		// listings when a valid token accompanies the request.
		r.With(OptionalSupabaseAuthMiddleware(jwtSecret)).
			Get("/listings", h.ListListingsHandler)

		// The payment provider signs this callback; the Stripe-Signature
		// header is the authentication.
		r.Post("/webhooks/stripe", h.StripeWebhookHandler)
	})

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(SupabaseAuthMiddleware(jwtSecret))

		r.Post("/deals/create", h.CreateDealHandler)
		r.Post("/deals/seeker-fee-session", h.SeekerFeeSessionHandler)
		r.Get("/deals/{dealID}", h.GetDealHandler)
		r.Patch("/deals/{dealID}/cancel", h.CancelDealHandler)

		r.Post("/payments/create-verification-session", h.CreateVerificationSessionHandler)

		r.Post("/listings", h.CreateListingHandler)
		r.Get("/listings/mine", h.ListOwnListingsHandler)
		r.Get("/matches", h.GetMatchesHandler)

		r.Post("/messages/send", h.SendMessageHandler)
		r.Get("/messages/threads", h.GetThreadsHandler)
		r.Get("/messages/thread/{listingID}/{otherUserID}", h.GetThreadMessagesHandler)
		r.Patch("/messages/{messageID}/read", h.MarkMessageReadHandler)

		r.Get("/profiles/me", h.GetOwnProfileHandler)
		r.Patch("/profiles/me", h.UpdateOwnProfileHandler)
		r.Get("/profiles/{userID}", h.GetPublicProfileHandler)
		r.Post("/profiles/badges/refresh", h.RefreshBadgesHandler)

		r.Post("/referrals/generate", h.GenerateReferralHandler)
		r.Post("/referrals/use", h.UseReferralHandler)
		r.Get("/referrals/my-referrals", h.ListReferralsHandler)

		r.With(RateLimit(limiter, "reports", 5, time.Hour)).
			Post("/reports", h.SubmitReportHandler)
		r.Get("/reports", h.ListReportsHandler)
		r.Patch("/reports/{reportID}", h.ReviewReportHandler)

		r.Delete("/account/delete", h.DeleteAccountHandler)
	})

	return r
}
