/**
 * @description
 * This file defines the core domain models for the deal lifecycle: the deal record
 * itself, the status enumeration, and the fee constants charged to each party.
 * A deal links one owner, one seeker, and one listing, and is mutated only through
 * the deal service's state machine.
 */
package domain

import "time"

// DealStatus enumerates the states of the deal state machine.
type DealStatus string

const (
	DealStatusInitiated             DealStatus = "initiated"
	DealStatusAwaitingOwnerPayment  DealStatus = "awaiting_owner_payment"
	DealStatusOwnerPaid             DealStatus = "owner_paid"
	DealStatusAwaitingSeekerPayment DealStatus = "awaiting_seeker_optional"
	DealStatusCompleted             DealStatus = "completed"
	DealStatusCancelled             DealStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s DealStatus) IsTerminal() bool {
	return s == DealStatusCompleted || s == DealStatusCancelled
}

// Fee amounts in AUD cents. The owner pays a listing fee when creating a deal;
// the seeker pays an optional support fee once the owner has paid.
const (
	OwnerFeeAmountCents  int64 = 9900
	SeekerFeeAmountCents int64 = 1900
)

// FeeType distinguishes the two checkout sessions attached to a deal.
const (
	FeeTypeOwner  = "owner"
	FeeTypeSeeker = "seeker"
)

// Deal represents a rental deal row in the database.
type Deal struct {
	ID                           string     `json:"id"`
	OwnerID                      string     `json:"owner_id"`
	SeekerID                     string     `json:"seeker_id"`
	ListingID                    string     `json:"listing_id"`
	Status                       DealStatus `json:"status"`
	OwnerFeeAmount               float64    `json:"owner_fee_amount"`
	SeekerFeeAmount              float64    `json:"seeker_fee_amount"`
	OwnerPaymentStripeSessionID  *string    `json:"owner_payment_stripe_session_id,omitempty"`
	SeekerPaymentStripeSessionID *string    `json:"seeker_payment_stripe_session_id,omitempty"`
	CreatedAt                    time.Time  `json:"created_at"`
	UpdatedAt                    time.Time  `json:"updated_at"`
}

// CreateDealRequest is the payload for POST /deals/create.
type CreateDealRequest struct {
	OwnerID   string `json:"owner_id"`
	SeekerID  string `json:"seeker_id"`
	ListingID string `json:"listing_id"`
}

// SeekerFeeRequest is the payload for POST /deals/seeker-fee-session.
type SeekerFeeRequest struct {
	DealID string `json:"deal_id"`
}

// CheckoutRedirect is returned whenever a checkout session has been created for
// a deal; the client is expected to redirect the user to CheckoutURL.
type CheckoutRedirect struct {
	DealID      string `json:"deal_id"`
	CheckoutURL string `json:"checkout_url"`
}

// PaymentEvent is an append-only audit row recorded for each completed checkout.
// The ledger is best-effort and never authoritative for deal state.
type PaymentEvent struct {
	ID              string    `json:"id"`
	DealID          string    `json:"deal_id"`
	FeeType         string    `json:"fee_type"`
	StripeSessionID string    `json:"stripe_session_id"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	EventType       string    `json:"event_type"`
	CreatedAt       time.Time `json:"created_at"`
}
