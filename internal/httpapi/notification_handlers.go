package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"alive.africa/internal/notify"
)

func (a *API) handleNotificationsCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	q := r.URL.Query()
	recipient := q.Get("recipient")
	if recipient == "" {
		writeError(w, r, http.StatusBadRequest, "recipient is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	items, err := a.notifications.ListByRecipient(r.Context(), recipient, limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) handleNotificationResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/notifications/")
	if len(segments) != 2 || segments[1] != "read" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if err := a.notifications.MarkRead(r.Context(), segments[0]); err != nil {
		if errors.Is(err, notify.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Notification marked as read.",
	})
}

func (a *API) handleSystemLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.requireAdmin(w, r) {
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	entries, err := a.audit.List(r.Context(), q.Get("severity"), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}
