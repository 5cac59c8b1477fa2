package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hangman/internal/game"
	"hangman/internal/service"
	"hangman/internal/validation"

	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Error().Err(err).Int("status", status).Msg(logMsg)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps service and game errors onto HTTP statuses.
// Only unexpected errors are logged.
func respondWithServiceError(w http.ResponseWriter, err error, logMsg string) {
	var ve validation.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Message, "", nil)
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, ErrUserNotFoundMsg, "", nil)
	case errors.Is(err, service.ErrGameNotFound):
		respondWithError(w, http.StatusNotFound, ErrGameNotFoundMsg, "", nil)
	case errors.Is(err, service.ErrUserExists):
		respondWithError(w, http.StatusConflict, ErrUserExistsMsg, "", nil)
	case errors.Is(err, service.ErrConcurrentUpdate):
		respondWithError(w, http.StatusConflict, ErrConcurrentUpdateMsg, "", nil)
	case errors.Is(err, game.ErrInvalidRange):
		respondWithError(w, http.StatusBadRequest, ErrInvalidRangeMsg, "", nil)
	case errors.Is(err, game.ErrInvalidBudget):
		respondWithError(w, http.StatusBadRequest, ErrInvalidBudgetMsg, "", nil)
	case errors.Is(err, service.ErrNoWord):
		respondWithError(w, http.StatusBadRequest, ErrNoWordMsg, "", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return false
	}
	return true
}
