package handlers

import (
	"fmt"
	"net/http"

	"hangman/internal/models"

	"github.com/go-chi/chi/v5"
)

type createUserRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

type newGameRequest struct {
	UserName string `json:"user_name"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Attempts int    `json:"attempts"`
}

type guessRequest struct {
	Guess string `json:"guess"`
}

// CreateUser registers a unique user name
func (h *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.UserName, req.Email)
	if err != nil {
		respondWithServiceError(w, err, "failed to create user")
		return
	}

	respondJSON(w, http.StatusOK, models.StringMessage{Message: fmt.Sprintf("User %s created!", user.Name)})
}

// NewGame starts a game for a user
func (h *API) NewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.games.CreateGame(r.Context(), req.UserName, req.Min, req.Max, req.Attempts)
	if err != nil {
		respondWithServiceError(w, err, "failed to create game")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetGame returns the current game state
func (h *API) GetGame(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.GetGame(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondWithServiceError(w, err, "failed to get game")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// MakeMove guesses a single letter
func (h *API) MakeMove(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.games.GuessLetter(r.Context(), chi.URLParam(r, "key"), req.Guess)
	if err != nil {
		respondWithServiceError(w, err, "failed to apply letter guess")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GuessWord guesses the whole word
func (h *API) GuessWord(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.games.GuessWord(r.Context(), chi.URLParam(r, "key"), req.Guess)
	if err != nil {
		respondWithServiceError(w, err, "failed to apply word guess")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// CancelGame cancels a game in progress
func (h *API) CancelGame(w http.ResponseWriter, r *http.Request) {
	view, err := h.games.CancelGame(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		respondWithServiceError(w, err, "failed to cancel game")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetUserGames lists a user's active games
func (h *API) GetUserGames(w http.ResponseWriter, r *http.Request) {
	views, err := h.games.ListUserGames(r.Context(), chi.URLParam(r, "user_name"))
	if err != nil {
		respondWithServiceError(w, err, "failed to list user games")
		return
	}
	respondJSON(w, http.StatusOK, models.GameList{Items: views})
}

// GetAverageAttempts returns the cached average statistic
func (h *API) GetAverageAttempts(w http.ResponseWriter, r *http.Request) {
	avg, err := h.games.AverageAttempts(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "failed to read average attempts")
		return
	}
	respondJSON(w, http.StatusOK, models.StringMessage{Message: avg})
}
