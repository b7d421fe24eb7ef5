/**
 * @description
 * HTTP handlers for profile reads and updates. The caller's own profile is
 * lazily created on first read; the public endpoint exposes only the
 * shareable subset of fields.
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

// GetOwnProfileHandler handles GET /profiles/me.
func (h *Handlers) GetOwnProfileHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetOwnProfile(r.Context(), caller.ID)
	if err != nil {
		log.Printf("level=error component=api endpoint=get_own_profile user_id=%s err=%v", caller.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateOwnProfileHandler handles PATCH /profiles/me.
func (h *Handlers) UpdateOwnProfileHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var update domain.ProfileUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	profile, err := h.profiles.UpdateOwnProfile(r.Context(), caller.ID, update)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProfileFieldLocked):
			writeError(w, http.StatusBadRequest, "Identity fields cannot be changed after onboarding")
		case errors.Is(err, app.ErrNoFieldsToUpdate):
			writeError(w, http.StatusBadRequest, "No fields to update")
		case errors.Is(err, store.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "Profile not found")
		default:
			log.Printf("level=error component=api endpoint=update_profile user_id=%s err=%v", caller.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetPublicProfileHandler handles GET /profiles/{userID}.
func (h *Handlers) GetPublicProfileHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUser(w, r); !ok {
		return
	}

	profile, err := h.profiles.GetPublicProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("level=error component=api endpoint=public_profile err=%v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// RefreshBadgesHandler handles POST /profiles/badges/refresh.
func (h *Handlers) RefreshBadgesHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	badges, err := h.profiles.RefreshBadges(r.Context(), caller.ID)
	if err != nil {
		log.Printf("level=error component=api endpoint=refresh_badges user_id=%s err=%v", caller.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to refresh badges")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"badges": badges})
}
