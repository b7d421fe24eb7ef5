/**
 * @description
 * HTTP handler for account deletion: a best-effort cascade over the caller's
 * data followed by removal of the identity record.
 */

package api

import (
	"log"
	"net/http"
)

// DeleteAccountHandler handles DELETE /account/delete.
func (h *Handlers) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	if err := h.account.DeleteAccount(r.Context(), caller.ID); err != nil {
		log.Printf("level=error component=api endpoint=delete_account user_id=%s err=%v", caller.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
