/**
 * @description
 * The Stripe webhook endpoint. This is the single source of truth for payment
 * success: the raw body is verified against the webhook signing secret, the
 * completed-checkout event is extracted, and the deal state machine applies
 * the transition. Every verified event is acknowledged with 200 so the
 * provider does not retry events we have chosen to ignore.
 */

package api

import (
	"io"
	"log"
	"net/http"
)

const maxWebhookBodyBytes = 65536

// StripeWebhookHandler handles POST /webhooks/stripe.
func (h *Handlers) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	event, err := h.webhooks.ConstructCheckoutEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("level=warn component=api endpoint=stripe_webhook outcome=reject reason=verification_failed err=%v", err)
		writeError(w, http.StatusBadRequest, "Webhook verification failed")
		return
	}

	// A verified event of a type we do not act on is still acknowledged.
	if event == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	outcome, err := h.deals.ApplyCheckoutCompleted(r.Context(), *event)
	if err != nil {
		log.Printf("level=error component=api endpoint=stripe_webhook session_id=%s err=%v", event.SessionID, err)
		writeError(w, http.StatusInternalServerError, "Failed to process event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": outcome})
}
