/**
 * @description
 * HTTP handlers for messaging: sending, the thread overview, a single thread's
 * page of messages, and the explicit read receipt.
 */

package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/realmigrentau/migrent-ai/internal/app"
	"github.com/realmigrentau/migrent-ai/internal/domain"
	"github.com/realmigrentau/migrent-ai/internal/store"
)

// SendMessageHandler handles POST /messages/send.
func (h *Handlers) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req domain.SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.messages.SendMessage(r.Context(), caller, req)
	if err != nil {
		h.writeMessageError(w, "send_message", caller.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// GetThreadsHandler handles GET /messages/threads.
func (h *Handlers) GetThreadsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	threads, err := h.messages.GetThreads(r.Context(), caller.ID)
	if err != nil {
		log.Printf("level=error component=api endpoint=threads user_id=%s err=%v", caller.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch threads")
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

// GetThreadMessagesHandler handles GET /messages/thread/{listingID}/{otherUserID}.
// Fetching a thread marks the caller's unread incoming messages as read.
func (h *Handlers) GetThreadMessagesHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	msgs, err := h.messages.GetThreadMessages(r.Context(), caller,
		chi.URLParam(r, "listingID"), chi.URLParam(r, "otherUserID"), limit, offset)
	if err != nil {
		h.writeMessageError(w, "thread_messages", caller.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// MarkMessageReadHandler handles PATCH /messages/{messageID}/read.
func (h *Handlers) MarkMessageReadHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	msg, err := h.messages.MarkRead(r.Context(), caller, chi.URLParam(r, "messageID"))
	if err != nil {
		h.writeMessageError(w, "mark_read", caller.ID, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *Handlers) writeMessageError(w http.ResponseWriter, endpoint, callerID string, err error) {
	switch {
	case errors.Is(err, store.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, "Message not found")
	case errors.Is(err, store.ErrListingNotFound):
		writeError(w, http.StatusNotFound, "Listing not found")
	case errors.Is(err, app.ErrReceiverNotFound):
		writeError(w, http.StatusNotFound, "Receiver not found")
	case errors.Is(err, app.ErrMessageSenderMismatch),
		errors.Is(err, app.ErrNoThreadAccess),
		errors.Is(err, app.ErrNotMessageReceiver):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("level=error component=api endpoint=%s user_id=%s err=%v", endpoint, callerID, err)
		writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
