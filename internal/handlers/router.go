package handlers

import (
	"context"
	"net/http"
	"time"

	"hangman/internal/metrics"
	"hangman/internal/security"
	"hangman/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Refresher recomputes the cached average statistic
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Deps holds everything the router serves
type Deps struct {
	Users     *service.UserService
	Games     *service.GameService
	Scores    *service.ScoreService
	Reminders *service.ReminderService
	Average   Refresher
	DB        Pinger
	Metrics   *metrics.Metrics
	Limiter   *security.RateLimiter
}

// NewRouter builds the HTTP API
func NewRouter(d Deps) chi.Router {
	h := &API{
		users:     d.Users,
		games:     d.Games,
		scores:    d.Scores,
		reminders: d.Reminders,
		average:   d.Average,
		db:        d.DB,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logging)
	r.Use(chimw.Recoverer)
	r.Use(d.Metrics.Middleware)
	r.Use(chimw.Timeout(10 * time.Second))

	r.Get("/health", h.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	// Creation endpoints are rate limited per client IP
	r.Group(func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware)
		}
		r.Post("/user", h.CreateUser)
		r.Post("/game", h.NewGame)
	})

	r.Get("/game/{key}", h.GetGame)
	r.Put("/game/make_move/{key}", h.MakeMove)
	r.Put("/game/guess_word/{key}", h.GuessWord)
	r.Put("/game/cancel_game/{key}", h.CancelGame)

	r.Get("/scores", h.GetScores)
	r.Get("/scores/user/{user_name}", h.GetUserScores)
	r.Get("/games/user/{user_name}", h.GetUserGames)
	r.Get("/games/average_attempts", h.GetAverageAttempts)

	r.Post("/tasks/cache_average_attempts", h.CacheAverageAttempts)
	r.Get("/crons/send_reminder", h.SendReminders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found", "", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed", "", nil)
	})

	return r
}

// API holds the HTTP handlers
type API struct {
	users     *service.UserService
	games     *service.GameService
	scores    *service.ScoreService
	reminders *service.ReminderService
	average   Refresher
	db        Pinger
}

// Health pings the database
func (h *API) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, ErrServiceUnavailableMsg, "health check failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
