package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hangman/internal/database"
	"hangman/internal/metrics"
	"hangman/internal/models"
	"hangman/internal/repository"
	"hangman/internal/security"
	"hangman/internal/service"
	"hangman/internal/stats"
	"hangman/internal/words"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	sent []string
}

func (m *stubMailer) IsEnabled() bool { return true }

func (m *stubMailer) SendReminderEmail(ctx context.Context, toEmail, toName string) error {
	m.sent = append(m.sent, toName)
	return nil
}

type downDB struct{}

func (downDB) PingContext(ctx context.Context) error { return errors.New("connection refused") }

type testServer struct {
	handler http.Handler
	mailer  *stubMailer
	metrics *metrics.Metrics
}

// newTestServer serves the API over a fresh SQLite database. The only
// word is "cat" so every game has a known target.
func newTestServer(t *testing.T, limiter *security.RateLimiter) *testServer {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "hangman.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	m := metrics.New()
	average := stats.NewAggregator(gameRepo, stats.NewMemoryCache(), m.ObserveAverage)
	t.Cleanup(average.Close)
	mailer := &stubMailer{}

	handler := NewRouter(Deps{
		Users:     service.NewUserService(userRepo),
		Games:     service.NewGameService(userRepo, gameRepo, words.New("cat"), average, m),
		Scores:    service.NewScoreService(userRepo, scoreRepo),
		Reminders: service.NewReminderService(userRepo, mailer, m),
		Average:   average,
		DB:        db,
		Metrics:   m,
		Limiter:   limiter,
	})
	return &testServer{handler: handler, mailer: mailer, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) newGame(t *testing.T, user string) models.GameView {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/game", `{"user_name":"`+user+`","min":2,"max":5,"attempts":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[models.GameView](t, rec)
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/user", `{"user_name":"alice","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User alice created!", decodeBody[models.StringMessage](t, rec).Message)

	rec = s.do(t, http.MethodPost, "/user", `{"user_name":"alice"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrUserExistsMsg, decodeError(t, rec))

	rec = s.do(t, http.MethodPost, "/user", `{"user_name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/user", `{"user_name":"bob","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/user", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrInvalidJSON, decodeError(t, rec))
}

func TestNewGameErrors(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/user", `{"user_name":"alice"}`).Code)

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"unknown user", `{"user_name":"nobody","min":2,"max":5,"attempts":3}`, http.StatusNotFound, ErrUserNotFoundMsg},
		{"inverted range", `{"user_name":"alice","min":5,"max":2,"attempts":3}`, http.StatusBadRequest, ErrInvalidRangeMsg},
		{"equal range", `{"user_name":"alice","min":3,"max":3,"attempts":3}`, http.StatusBadRequest, ErrInvalidRangeMsg},
		{"zero attempts", `{"user_name":"alice","min":2,"max":5,"attempts":0}`, http.StatusBadRequest, ErrInvalidBudgetMsg},
		{"no word", `{"user_name":"alice","min":6,"max":9,"attempts":3}`, http.StatusBadRequest, ErrNoWordMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/game", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decodeError(t, rec))
		})
	}
}

func TestPlayGameToWin(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/user", `{"user_name":"alice"}`).Code)

	g := s.newGame(t, "alice")
	assert.Equal(t, "___", g.GuessState)
	assert.Equal(t, 3, g.AttemptsRemaining)
	assert.Equal(t, service.MsgNewGame, g.Message)

	rec := s.do(t, http.MethodGet, "/game/"+g.GameKey, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.MsgMakeMove, decodeBody[models.GameView](t, rec).Message)

	for _, letter := range []string{"c", "a", "t"} {
		rec = s.do(t, http.MethodPut, "/game/make_move/"+g.GameKey, `{"guess":"`+letter+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	final := decodeBody[models.GameView](t, rec)
	assert.True(t, final.GameOver)
	assert.Equal(t, "cat", final.GuessState)
	assert.Equal(t, []string{"c", "a", "t"}, final.GuessHistory)

	rec = s.do(t, http.MethodGet, "/scores/user/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	scores := decodeBody[models.ScoreList](t, rec)
	require.Len(t, scores.Items, 1)
	assert.True(t, scores.Items[0].Won)
	assert.Equal(t, 3, scores.Items[0].Guesses)

	rec = s.do(t, http.MethodGet, "/scores", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[models.ScoreList](t, rec).Items, 1)

	rec = s.do(t, http.MethodGet, "/games/user/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[models.GameList](t, rec).Items)
}

func TestGuessWordAndCancel(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/user", `{"user_name":"alice"}`).Code)

	g := s.newGame(t, "alice")
	rec := s.do(t, http.MethodPut, "/game/guess_word/"+g.GameKey, `{"guess":"CAT"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[models.GameView](t, rec).GameOver)

	// Cancelling a finished game is refused but still a 200
	rec = s.do(t, http.MethodPut, "/game/cancel_game/"+g.GameKey, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[models.GameView](t, rec).Cancelled)

	other := s.newGame(t, "alice")
	rec = s.do(t, http.MethodPut, "/game/cancel_game/"+other.GameKey, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cancelled := decodeBody[models.GameView](t, rec)
	assert.True(t, cancelled.Cancelled)
	assert.True(t, cancelled.GameOver)

	rec = s.do(t, http.MethodGet, "/scores/user/alice", "")
	assert.Len(t, decodeBody[models.ScoreList](t, rec).Items, 1)
}

func TestUnknownGame(t *testing.T) {
	s := newTestServer(t, nil)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/game/missing", ""},
		{http.MethodPut, "/game/make_move/missing", `{"guess":"a"}`},
		{http.MethodPut, "/game/guess_word/missing", `{"guess":"cat"}`},
		{http.MethodPut, "/game/cancel_game/missing", ""},
	} {
		rec := s.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.Equal(t, ErrGameNotFoundMsg, decodeError(t, rec))
	}

	rec := s.do(t, http.MethodGet, "/scores/user/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/games/user/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAverageAttempts(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/user", `{"user_name":"alice"}`).Code)

	g := s.newGame(t, "alice")
	s.newGame(t, "alice")
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/game/make_move/"+g.GameKey, `{"guess":"z"}`).Code)

	// Creation also refreshes in the background, so keep recomputing until
	// the latest snapshot wins
	require.Eventually(t, func() bool {
		if s.do(t, http.MethodPost, "/tasks/cache_average_attempts", "").Code != http.StatusNoContent {
			return false
		}
		rec := s.do(t, http.MethodGet, "/games/average_attempts", "")
		return rec.Code == http.StatusOK &&
			decodeBody[models.StringMessage](t, rec).Message == stats.MessagePrefix+"2.50"
	}, 2*time.Second, 20*time.Millisecond)

	rec := s.do(t, http.MethodGet, "/games/user/alice", "")
	assert.Len(t, decodeBody[models.GameList](t, rec).Items, 2)
}

func TestSendReminderEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/user", `{"user_name":"alice","email":"alice@example.com"}`).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/user", `{"user_name":"bob","email":"bob@example.com"}`).Code)
	s.newGame(t, "alice")

	rec := s.do(t, http.MethodGet, "/crons/send_reminder", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[reminderResponse](t, rec).Sent)
	assert.Equal(t, []string{"alice"}, s.mailer.sent)
}

func TestRateLimitedCreation(t *testing.T) {
	limiter := security.NewRateLimiter(1, time.Minute)
	t.Cleanup(limiter.Stop)
	s := newTestServer(t, limiter)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/user", `{"user_name":"alice"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/user", `{"user_name":"bob"}`).Code)

	// Reads are not limited
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/scores", "").Code)
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodGet, "/scores", "")
	rec = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hangman_http_requests_total{method="GET",route="/scores",status="200"} 1`)

	rec = s.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodDelete, "/scores", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthDatabaseDown(t *testing.T) {
	handler := NewRouter(Deps{DB: downDB{}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrServiceUnavailableMsg, decodeError(t, rec))
}
