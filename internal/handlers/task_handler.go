package handlers

import (
	"net/http"
)

type reminderResponse struct {
	Sent int `json:"sent"`
}

// CacheAverageAttempts recomputes the cached average on demand
func (h *API) CacheAverageAttempts(w http.ResponseWriter, r *http.Request) {
	if err := h.average.Refresh(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to refresh average attempts", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendReminders emails users with unfinished games. Partial failures are
// logged by the service and still report how many were sent.
func (h *API) SendReminders(w http.ResponseWriter, r *http.Request) {
	sent, err := h.reminders.SendReminders(r.Context())
	if err != nil && sent == 0 {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to send reminders", err)
		return
	}
	respondJSON(w, http.StatusOK, reminderResponse{Sent: sent})
}
