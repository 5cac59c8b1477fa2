package handlers

import (
	"net/http"

	"hangman/internal/models"

	"github.com/go-chi/chi/v5"
)

// GetScores returns all scores
func (h *API) GetScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scores.ListScores(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "failed to list scores")
		return
	}
	respondJSON(w, http.StatusOK, models.ScoreList{Items: scores})
}

// GetUserScores returns all of one user's scores
func (h *API) GetUserScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scores.ListUserScores(r.Context(), chi.URLParam(r, "user_name"))
	if err != nil {
		respondWithServiceError(w, err, "failed to list user scores")
		return
	}
	respondJSON(w, http.StatusOK, models.ScoreList{Items: scores})
}
