package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/realmigrentau/migrent-ai/internal/app"
	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/internal/store"
)

type stubWebhookVerifier struct {
	event *domain.CheckoutCompletedEvent
	err   error
	sig   string
}

func (v *stubWebhookVerifier) ConstructCheckoutEvent(_ []byte, sigHeader string) (*domain.CheckoutCompletedEvent, error) {
	v.sig = sigHeader
	return v.event, v.err
}

type stubWebhookDealRepo struct {
	deals map[string]*domain.Deal
}

func (r *stubWebhookDealRepo) CreateDeal(_ context.Context, ownerID, seekerID, listingID string, status domain.DealStatus, ownerFee, seekerFee float64) (*domain.Deal, error) {
	return nil, errors.New("not used")
}

func (r *stubWebhookDealRepo) GetDealByID(_ context.Context, dealID string) (*domain.Deal, error) {
	deal, ok := r.deals[dealID]
	if !ok {
		return nil, store.ErrDealNotFound
	}
	return deal, nil
}

func (r *stubWebhookDealRepo) UpdateDealStatus(_ context.Context, dealID string, status domain.DealStatus) error {
	r.deals[dealID].Status = status
	return nil
}

func (r *stubWebhookDealRepo) SetOwnerPaymentSessionID(_ context.Context, _, _ string) error  { return nil }
func (r *stubWebhookDealRepo) SetSeekerPaymentSessionID(_ context.Context, _, _ string) error { return nil }
func (r *stubWebhookDealRepo) SetProfileVerified(_ context.Context, _ string, _ bool) error   { return nil }
func (r *stubWebhookDealRepo) IsProfileVerified(_ context.Context, _ string) (bool, error) {
	return false, nil
}

type noopPaymentClient struct{}

func (noopPaymentClient) CreateCheckoutSession(_ context.Context, _ domain.CheckoutSessionParams) (*domain.CheckoutSessionResult, error) {
	return nil, errors.New("not used")
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _, _ string, _ interface{}) error { return nil }

func newWebhookHandlers(verifier *stubWebhookVerifier, repo *stubWebhookDealRepo) *Handlers {
	deals := app.NewDealService(repo, noopPaymentClient{}, noopPublisher{}, app.CheckoutURLs{})
	return &Handlers{deals: deals, webhooks: verifier}
}

func postWebhook(t *testing.T, h *Handlers) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rec := httptest.NewRecorder()
	h.StripeWebhookHandler(rec, req)
	return rec
}

func webhookStatus(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body["status"]
}

func TestStripeWebhookHandler_VerificationFailure(t *testing.T) {
	verifier := &stubWebhookVerifier{err: errors.New("bad signature")}
	h := newWebhookHandlers(verifier, &stubWebhookDealRepo{deals: map[string]*domain.Deal{}})

	rec := postWebhook(t, h)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if verifier.sig != "t=1,v1=sig" {
		t.Fatalf("expected signature header forwarded, got %q", verifier.sig)
	}
}

func TestStripeWebhookHandler_UnhandledEventTypeAcked(t *testing.T) {
	h := newWebhookHandlers(&stubWebhookVerifier{}, &stubWebhookDealRepo{deals: map[string]*domain.Deal{}})

	rec := postWebhook(t, h)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := webhookStatus(t, rec); got != "ok" {
		t.Fatalf("expected status ok, got %q", got)
	}
}

func TestStripeWebhookHandler_AppliesOwnerFee(t *testing.T) {
	repo := &stubWebhookDealRepo{deals: map[string]*domain.Deal{
		"deal-1": {ID: "deal-1", Status: domain.DealStatusAwaitingOwnerPayment},
	}}
	verifier := &stubWebhookVerifier{event: &domain.CheckoutCompletedEvent{
		SessionID:   "cs_123",
		AmountTotal: 9900,
		Currency:    "aud",
		Metadata:    map[string]string{"deal_id": "deal-1", "fee_type": domain.FeeTypeOwner},
	}}
	h := newWebhookHandlers(verifier, repo)

	rec := postWebhook(t, h)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := webhookStatus(t, rec); got != "ok" {
		t.Fatalf("expected status ok, got %q", got)
	}
	if repo.deals["deal-1"].Status != domain.DealStatusOwnerPaid {
		t.Fatalf("expected deal owner_paid, got %s", repo.deals["deal-1"].Status)
	}
}

func TestStripeWebhookHandler_ForeignSessionIgnored(t *testing.T) {
	verifier := &stubWebhookVerifier{event: &domain.CheckoutCompletedEvent{
		SessionID: "cs_456",
		Metadata:  map[string]string{},
	}}
	h := newWebhookHandlers(verifier, &stubWebhookDealRepo{deals: map[string]*domain.Deal{}})

	rec := postWebhook(t, h)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := webhookStatus(t, rec); got != "ignored" {
		t.Fatalf("expected status ignored, got %q", got)
	}
}
