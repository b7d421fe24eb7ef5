/**
 * @description
 * This package wraps the Stripe API for the two things this service needs:
 * creating hosted Checkout sessions and verifying signed webhook deliveries.
 * Services depend on the narrow interfaces in internal/app, never on the
 * Stripe SDK directly.
 *
 * @dependencies
 * - github.com/stripe/stripe-go/v76: the official Stripe SDK.
 * - The service's internal domain package for provider-agnostic models.
 */
package stripeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

// checkoutSessionCompleted is the only event type this service acts on.
const checkoutSessionCompleted = "checkout.session.completed"

// Client wraps the Stripe API with explicit credentials; no package-level key
// is set.
type Client struct {
	api           *client.API
	webhookSecret string
}

// NewClient creates a Stripe client from the secret key and the webhook
// signing secret.
func NewClient(secretKey, webhookSecret string) *Client {
	api := client.New(secretKey, nil)
	return &Client{api: api, webhookSecret: webhookSecret}
}

// CreateCheckoutSession creates a hosted Checkout session and returns its id
// and redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, params domain.CheckoutSessionParams) (*domain.CheckoutSessionResult, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Currency:           stripe.String(params.Currency),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx
	if params.StatementDescriptor != "" {
		sessionParams.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			StatementDescriptor: stripe.String(params.StatementDescriptor),
		}
	}
	for key, value := range params.Metadata {
		sessionParams.AddMetadata(key, value)
	}

	session, err := c.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		log.Printf("level=error component=stripe msg=\"checkout session creation failed\" product=%q err=%v", params.ProductName, err)
		return nil, fmt.Errorf("stripe error: %w", err)
	}

	return &domain.CheckoutSessionResult{ID: session.ID, URL: session.URL}, nil
}

// ConstructCheckoutEvent verifies the webhook signature against the signing
// secret and extracts the checkout-completed payload. It returns (nil, nil)
// for validly-signed events of other types, which the caller acknowledges
// without acting on.
func (c *Client) ConstructCheckoutEvent(payload []byte, signatureHeader string) (*domain.CheckoutCompletedEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook verification failed: %w", err)
	}

	if string(event.Type) != checkoutSessionCompleted {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("malformed checkout session payload: %w", err)
	}

	return &domain.CheckoutCompletedEvent{
		SessionID:   session.ID,
		AmountTotal: session.AmountTotal,
		Currency:    string(session.Currency),
		Metadata:    session.Metadata,
	}, nil
}
