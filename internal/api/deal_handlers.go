/**
 * @description
 * HTTP handlers for the deal lifecycle: creation with the owner-fee checkout
 * session, the optional seeker-fee session, reads, cancellation, and the
 * identity verification session. Payment truth never comes from these
 * endpoints; the webhook handler owns status transitions.
 */

package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/realmigrentau/migrent-ai/internal/app"
	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/internal/store"
)

// CreateDealHandler handles POST /deals/create.
func (h *Handlers) CreateDealHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateDealRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OwnerID == "" || req.SeekerID == "" || req.ListingID == "" {
		writeError(w, http.StatusBadRequest, "owner_id, seeker_id and listing_id are required")
		return
	}

	redirect, err := h.deals.CreateDeal(r.Context(), caller, req)
	if err != nil {
		h.writeDealError(w, "create_deal", caller.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, redirect)
}

// SeekerFeeSessionHandler handles POST /deals/seeker-fee-session.
func (h *Handlers) SeekerFeeSessionHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req domain.SeekerFeeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DealID == "" {
		writeError(w, http.StatusBadRequest, "deal_id is required")
		return
	}

	redirect, err := h.deals.CreateSeekerFeeSession(r.Context(), caller, req.DealID)
	if err != nil {
		h.writeDealError(w, "seeker_fee_session", caller.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, redirect)
}

// GetDealHandler handles GET /deals/{deal_id}.
func (h *Handlers) GetDealHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	deal, err := h.deals.GetDeal(r.Context(), caller, chi.URLParam(r, "dealID"))
	if err != nil {
		h.writeDealError(w, "get_deal", caller.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

// CancelDealHandler handles PATCH /deals/{deal_id}/cancel.
func (h *Handlers) CancelDealHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	deal, err := h.deals.CancelDeal(r.Context(), caller, chi.URLParam(r, "dealID"))
	if err != nil {
		h.writeDealError(w, "cancel_deal", caller.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"deal_id": deal.ID,
		"status":  string(deal.Status),
	})
}

// CreateVerificationSessionHandler handles POST /payments/create-verification-session.
func (h *Handlers) CreateVerificationSessionHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	redirect, err := h.deals.CreateVerificationSession(r.Context(), caller)
	if err != nil {
		if errors.Is(err, app.ErrAlreadyVerified) {
			writeError(w, http.StatusBadRequest, "User is already verified")
			return
		}
		h.writeDealError(w, "create_verification_session", caller.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, redirect)
}

// writeDealError maps deal service errors onto HTTP statuses.
func (h *Handlers) writeDealError(w http.ResponseWriter, endpoint, callerID string, err error) {
	switch {
	case errors.Is(err, store.ErrDealNotFound):
		writeError(w, http.StatusNotFound, "Deal not found")
	case errors.Is(err, store.ErrListingNotFound):
		writeError(w, http.StatusNotFound, "Listing not found")
	case errors.Is(err, app.ErrNotDealOwner),
		errors.Is(err, app.ErrNotOwnerType),
		errors.Is(err, app.ErrNotDealSeeker),
		errors.Is(err, app.ErrNotDealParty):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrDealAlreadyCancelled),
		errors.Is(err, app.ErrOwnerFeeUnpaid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("level=error component=api endpoint=%s user_id=%s err=%v", endpoint, callerID, err)
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
