/**
 * @description
 * HTTP handlers for moderation reports, the admin review queue, and the
 * unauthenticated support contact form.
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

// SubmitReportHandler handles POST /reports.
func (h *Handlers) SubmitReportHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := h.reports.SubmitReport(r.Context(), caller.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDuplicateReport):
			writeError(w, http.StatusConflict, "You already have a pending report for this item")
		case errors.Is(err, app.ErrValidation):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Printf("level=error component=api endpoint=submit_report user_id=%s err=%v", caller.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to submit report")
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListReportsHandler handles GET /reports (admin only).
func (h *Handlers) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var status *string
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = &raw
	}

	reports, err := h.reports.ListReports(r.Context(), caller, status)
	if err != nil {
		if errors.Is(err, app.ErrAdminOnly) {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		log.Printf("level=error component=api endpoint=list_reports user_id=%s err=%v", caller.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch reports")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// ReviewReportHandler handles PATCH /reports/{reportID} (admin only).
func (h *Handlers) ReviewReportHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.reports.ReviewReport(r.Context(), caller, chi.URLParam(r, "reportID"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAdminOnly):
			writeError(w, http.StatusForbidden, "Admin access required")
		case errors.Is(err, app.ErrInvalidReportStatus):
			writeError(w, http.StatusBadRequest, "Status must be one of reviewed, dismissed, actioned")
		case errors.Is(err, store.ErrReportNotFound):
			writeError(w, http.StatusNotFound, "Report not found")
		default:
			log.Printf("level=error component=api endpoint=review_report user_id=%s err=%v", caller.ID, err)
			writeError(w, http.StatusInternalServerError, "Failed to update report")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SupportContactHandler handles POST /support/contact. No authentication:
// the form is reachable from the public site.
func (h *Handlers) SupportContactHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.SupportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.reports.SubmitSupportRequest(r.Context(), req); err != nil {
		if errors.Is(err, app.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("level=error component=api endpoint=support_contact err=%v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit support request")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
