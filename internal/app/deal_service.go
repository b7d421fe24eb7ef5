/**
 * @description
 * Core business logic for the deal lifecycle. A deal moves through
 *
 *     initiated -> awaiting_owner_payment -> owner_paid
 *               -> (awaiting_seeker_optional) -> completed
 *
 * with cancelled reachable from any non-terminal state. The owner pays a
 * listing fee when creating the deal and the seeker pays an optional support
 * fee once the owner has paid; each fee is collected through its own hosted
 * checkout session, correlated back to the deal purely by the session metadata
 * carried through the payment provider. The signed webhook is the single
 * source of truth for "payment succeeded": client-side confirmation is never
 * trusted.
 *
 * @dependencies
 * - internal/domain: deal models and event payloads.
 * - internal/store: sentinel errors from the data access layer.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/realmigrentau/migrent-ai/internal/domain"
)

var (
	ErrNotDealOwner         = errors.New("only the owner can create a deal")
	ErrNotOwnerType         = errors.New("only owners can create deals")
	ErrNotDealSeeker        = errors.New("only the seeker on this deal can request a seeker fee session")
	ErrNotDealParty         = errors.New("not a party to this deal")
	ErrDealAlreadyCancelled = errors.New("deal is already cancelled")
	ErrOwnerFeeUnpaid       = errors.New("owner fee must be paid before seeker fee session can be created")
	ErrPaymentProvider      = errors.New("payment provider error")
)

// Webhook processing outcomes returned to the provider.
const (
	WebhookOutcomeOK      = "ok"
	WebhookOutcomeIgnored = "ignored"
)

// DealRepository defines the database operations the deal service needs.
type DealRepository interface {
	CreateDeal(ctx context.Context, ownerID, seekerID, listingID string, status domain.DealStatus, ownerFee, seekerFee float64) (*domain.Deal, error)
	GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error)
	UpdateDealStatus(ctx context.Context, dealID string, status domain.DealStatus) error
	SetOwnerPaymentSessionID(ctx context.Context, dealID, sessionID string) error
	SetSeekerPaymentSessionID(ctx context.Context, dealID, sessionID string) error
	SetProfileVerified(ctx context.Context, userID string, verified bool) error
	IsProfileVerified(ctx context.Context, userID string) (bool, error)
}

// PaymentClient defines the interface for creating hosted checkout sessions.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, params domain.CheckoutSessionParams) (*domain.CheckoutSessionResult, error)
}

// EventPublisher defines the interface for publishing internal events.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// DealService orchestrates deal creation, fee collection, and webhook-driven
// status transitions.
type DealService struct {
	repo      DealRepository
	payments  PaymentClient
	publisher EventPublisher
	urls      CheckoutURLs
}

// CheckoutURLs are the frontend redirect targets baked into every checkout
// session.
type CheckoutURLs struct {
	Success string
	Cancel  string
}

// NewDealService creates a new deal service.
func NewDealService(repo DealRepository, payments PaymentClient, publisher EventPublisher, urls CheckoutURLs) *DealService {
	return &DealService{repo: repo, payments: payments, publisher: publisher, urls: urls}
}

// CreateDeal persists a new deal in awaiting_owner_payment and opens the
// owner-fee checkout session. If session creation fails the deal row is kept
// without a session id so the owner can retry.
func (s *DealService) CreateDeal(ctx context.Context, caller domain.AuthUser, req domain.CreateDealRequest) (*domain.CheckoutRedirect, error) {
	if caller.ID != req.OwnerID {
		return nil, ErrNotDealOwner
	}
	if caller.UserType != domain.UserTypeOwner {
		return nil, ErrNotOwnerType
	}

	deal, err := s.repo.CreateDeal(ctx, req.OwnerID, req.SeekerID, req.ListingID,
		domain.DealStatusAwaitingOwnerPayment,
		float64(domain.OwnerFeeAmountCents)/100,
		float64(domain.SeekerFeeAmountCents)/100,
	)
	if err != nil {
		return nil, err
	}

	session, err := s.payments.CreateCheckoutSession(ctx, domain.CheckoutSessionParams{
		ProductName: "MigRent Owner Fee",
		AmountCents: domain.OwnerFeeAmountCents,
		Currency:    "aud",
		SuccessURL:  s.urls.Success,
		CancelURL:   s.urls.Cancel,
		Metadata: map[string]string{
			"deal_id":  deal.ID,
			"fee_type": domain.FeeTypeOwner,
		},
	})
	if err != nil {
		log.Printf("level=error component=deals msg=\"owner fee session creation failed\" deal_id=%s err=%v", deal.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if err := s.repo.SetOwnerPaymentSessionID(ctx, deal.ID, session.ID); err != nil {
		return nil, err
	}

	return &domain.CheckoutRedirect{DealID: deal.ID, CheckoutURL: session.URL}, nil
}

// CreateSeekerFeeSession opens the seeker-fee checkout session. Only the
// deal's seeker may request one, and only once the owner fee has been paid.
func (s *DealService) CreateSeekerFeeSession(ctx context.Context, caller domain.AuthUser, dealID string) (*domain.CheckoutRedirect, error) {
	deal, err := s.repo.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if caller.ID != deal.SeekerID {
		return nil, ErrNotDealSeeker
	}
	if deal.Status != domain.DealStatusOwnerPaid && deal.Status != domain.DealStatusAwaitingSeekerPayment {
		return nil, ErrOwnerFeeUnpaid
	}

	session, err := s.payments.CreateCheckoutSession(ctx, domain.CheckoutSessionParams{
		ProductName: "MigRent Seeker Support Fee",
		AmountCents: domain.SeekerFeeAmountCents,
		Currency:    "aud",
		SuccessURL:  s.urls.Success,
		CancelURL:   s.urls.Cancel,
		Metadata: map[string]string{
			"deal_id":  deal.ID,
			"fee_type": domain.FeeTypeSeeker,
		},
	})
	if err != nil {
		log.Printf("level=error component=deals msg=\"seeker fee session creation failed\" deal_id=%s err=%v", deal.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if err := s.repo.SetSeekerPaymentSessionID(ctx, deal.ID, session.ID); err != nil {
		return nil, err
	}

	return &domain.CheckoutRedirect{DealID: deal.ID, CheckoutURL: session.URL}, nil
}

// GetDeal returns the full deal record to either party.
func (s *DealService) GetDeal(ctx context.Context, caller domain.AuthUser, dealID string) (*domain.Deal, error) {
	deal, err := s.repo.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if caller.ID != deal.OwnerID && caller.ID != deal.SeekerID {
		return nil, ErrNotDealParty
	}
	return deal, nil
}

// CancelDeal transitions a non-cancelled deal to cancelled. There is no refund
// handling; fees already collected stay collected.
func (s *DealService) CancelDeal(ctx context.Context, caller domain.AuthUser, dealID string) (*domain.Deal, error) {
	deal, err := s.repo.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if caller.ID != deal.OwnerID && caller.ID != deal.SeekerID {
		return nil, ErrNotDealParty
	}
	if deal.Status == domain.DealStatusCancelled {
		return nil, ErrDealAlreadyCancelled
	}

	if err := s.repo.UpdateDealStatus(ctx, dealID, domain.DealStatusCancelled); err != nil {
		return nil, err
	}
	deal.Status = domain.DealStatusCancelled
	return deal, nil
}

// ApplyCheckoutCompleted applies a verified checkout-completed event to the
// deal it is tagged with. Events without deal metadata are acknowledged and
// ignored; re-delivered events are harmless no-ops. The ledger write is
// decoupled via the event bus and its failure is logged, never surfaced.
func (s *DealService) ApplyCheckoutCompleted(ctx context.Context, ev domain.CheckoutCompletedEvent) (string, error) {
	// Verification checkouts carry user metadata instead of deal metadata.
	if ev.Metadata["purpose"] == "verification" {
		return s.applyVerificationCompleted(ctx, ev)
	}

	dealID := ev.Metadata["deal_id"]
	feeType := ev.Metadata["fee_type"]
	if dealID == "" || feeType == "" {
		// Not one of our sessions.
		return WebhookOutcomeIgnored, nil
	}

	var target domain.DealStatus
	switch feeType {
	case domain.FeeTypeOwner:
		target = domain.DealStatusOwnerPaid
	case domain.FeeTypeSeeker:
		target = domain.DealStatusCompleted
	default:
		log.Printf("level=warn component=deals msg=\"unknown fee type on checkout event\" fee_type=%q session_id=%s", feeType, ev.SessionID)
		return WebhookOutcomeIgnored, nil
	}

	deal, err := s.repo.GetDealByID(ctx, dealID)
	if err != nil {
		// A paid session referencing a deal we no longer have is acknowledged
		// so the provider stops redelivering; there is nothing to transition.
		log.Printf("level=warn component=deals msg=\"checkout event for unknown deal\" deal_id=%s err=%v", dealID, err)
		return WebhookOutcomeOK, nil
	}

	switch {
	case deal.Status == target:
		// Redelivery of an already-applied event.
	case deal.Status.IsTerminal():
		// A late payment must not revive a cancelled or completed deal.
		log.Printf("level=warn component=deals msg=\"checkout event ignored for terminal deal\" deal_id=%s status=%s fee_type=%s", dealID, deal.Status, feeType)
	default:
		if err := s.repo.UpdateDealStatus(ctx, dealID, target); err != nil {
			return "", err
		}
	}

	s.recordPayment(ctx, domain.PaymentRecordedEvent{
		DealID:          dealID,
		FeeType:         feeType,
		StripeSessionID: ev.SessionID,
		Amount:          ev.AmountTotal,
		Currency:        ev.Currency,
		EventType:       "checkout.session.completed",
	})

	return WebhookOutcomeOK, nil
}

func (s *DealService) applyVerificationCompleted(ctx context.Context, ev domain.CheckoutCompletedEvent) (string, error) {
	userID := ev.Metadata["user_id"]
	if userID == "" {
		return WebhookOutcomeIgnored, nil
	}
	if err := s.repo.SetProfileVerified(ctx, userID, true); err != nil {
		return "", err
	}
	log.Printf("level=info component=deals msg=\"verification payment applied\" user_id=%s session_id=%s", userID, ev.SessionID)
	return WebhookOutcomeOK, nil
}

// recordPayment publishes the ledger event. The ledger is best-effort audit
// data, not authoritative state, so a publish failure is logged and swallowed.
func (s *DealService) recordPayment(ctx context.Context, ev domain.PaymentRecordedEvent) {
	if err := s.publisher.Publish(ctx, domain.EventsExchange, domain.RoutingKeyPaymentRecorded, ev); err != nil {
		log.Printf("level=warn component=deals msg=\"payment ledger event publish failed\" deal_id=%s fee_type=%s err=%v", ev.DealID, ev.FeeType, err)
	}
}

// CreateVerificationSession opens a checkout session for seeker profile
// verification. Already-verified users are rejected before any provider call.
func (s *DealService) CreateVerificationSession(ctx context.Context, caller domain.AuthUser) (*domain.CheckoutRedirect, error) {
	verified, err := s.repo.IsProfileVerified(ctx, caller.ID)
	if err != nil {
		// The profiles row may not exist yet; treat as unverified.
		log.Printf("level=warn component=deals msg=\"verified lookup failed\" user_id=%s err=%v", caller.ID, err)
	}
	if verified {
		return nil, ErrAlreadyVerified
	}

	session, err := s.payments.CreateCheckoutSession(ctx, domain.CheckoutSessionParams{
		ProductName:         "MigRent Seeker Verification",
		AmountCents:         domain.SeekerFeeAmountCents,
		Currency:            "aud",
		SuccessURL:          s.urls.Success,
		CancelURL:           s.urls.Cancel,
		StatementDescriptor: "MigRent Verify",
		Metadata: map[string]string{
			"user_id": caller.ID,
			"purpose": "verification",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	return &domain.CheckoutRedirect{CheckoutURL: session.URL}, nil
}

// ErrAlreadyVerified rejects verification payment for already-verified users.
var ErrAlreadyVerified = errors.New("user is already verified")
