/**
 * @description
 * HTTP handlers for referral codes: generate (idempotent per pending code),
 * redeem, and list.
 */

package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/realmigrentau/migrent-ai/internal/app"
	"github.com/realmigrentau/migrent-ai/internal/store"
)

// GenerateReferralHandler handles POST /referrals/generate.
func (h *Handlers) GenerateReferralHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	code, err := h.referrals.GenerateCode(r.Context(), caller.ID)
	if err != nil {
		log.Printf("level=error component=api endpoint=generate_referral user_id=%s err=%v", caller.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate referral code")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"referral_code": code})
}

// UseReferralHandler handles POST /referrals/use.
func (h *Handlers) UseReferralHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := h.referrals.UseCode(r.Context(), caller.ID, req.Code); err != nil {
		switch {
		case errors.Is(err, store.ErrReferralNotFound):
			writeError(w, http.StatusNotFound, "Referral code not found")
		case errors.Is(err, app.ErrOwnReferralCode):
			writeError(w, http.StatusBadRequest, "You cannot use your own referral code")
		case errors.Is(err, app.ErrReferralCodeConsumed):
			writeError(w, http.StatusBadRequest, "Referral code has already been used")
		default:
			log.Printf("level=error component=api endpoint=use_referral user_id=%s err=%v", caller.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to use referral code")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListReferralsHandler handles GET /referrals/my-referrals.
func (h *Handlers) ListReferralsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	referrals, err := h.referrals.ListOwn(r.Context(), caller.ID)
	if err != nil {
		log.Printf("level=error component=api endpoint=list_referrals user_id=%s err=%v", caller.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch referrals")
		return
	}
	writeJSON(w, http.StatusOK, referrals)
}
