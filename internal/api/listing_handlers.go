/**
 * @description
 * HTTP handlers for listing creation, browsing with filters, and the match
 * endpoint. Browsing is public; creation and matches require authentication.
 */

package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/realmigrentau/migrent-ai/internal/app"
	"github.com/realmigrentau/migrent-ai/internal/domain"
)

// CreateListingHandler handles POST /listings.
func (h *Handlers) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateListingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	listing, err := h.listings.CreateListing(r.Context(), caller, req)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNotListingOwnerType):
			writeError(w, http.StatusForbidden, "Only owners can create listings")
		case errors.Is(err, app.ErrValidation):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Printf("level=error component=api endpoint=create_listing user_id=%s err=%v", caller.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to create listing")
		}
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// ListListingsHandler handles GET /listings with optional filters.
func (h *Handlers) ListListingsHandler(w http.ResponseWriter, r *http.Request) {
	var filter domain.ListingFilter

	q := r.URL.Query()
	if city := q.Get("city"); city != "" {
		filter.City = &city
	}
	if raw := q.Get("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	// owner=true narrows to the caller's own listings when authenticated.
	if q.Get("owner") == "true" {
		if user, ok := GetAuthUser(r.Context()); ok {
			ownerID := user.ID
			filter.OwnerID = &ownerID
		}
	}

	listings, err := h.listings.ListListings(r.Context(), filter)
	if err != nil {
		log.Printf("level=error component=api endpoint=list_listings err=%v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// ListOwnListingsHandler handles GET /listings/mine, scoped to the caller.
func (h *Handlers) ListOwnListingsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	ownerID := caller.ID
	listings, err := h.listings.ListListings(r.Context(), domain.ListingFilter{OwnerID: &ownerID})
	if err != nil {
		log.Printf("level=error component=api endpoint=list_own_listings user_id=%s err=%v", caller.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

// GetMatchesHandler handles GET /matches?postcode=.
func (h *Handlers) GetMatchesHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUser(w, r); !ok {
		return
	}

	postcode, err := strconv.Atoi(r.URL.Query().Get("postcode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "A numeric postcode query parameter is required")
		return
	}

	matches, err := h.listings.GetMatches(r.Context(), postcode)
	if err != nil {
		log.Printf("level=error component=api endpoint=matches err=%v", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute matches")
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
