package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"hangman/internal/database"
	"hangman/internal/metrics"
	"hangman/internal/repository"
	"hangman/internal/words"

	"github.com/stretchr/testify/require"
)

type stubAverage struct {
	mu        sync.Mutex
	refreshes int
	value     string
}

func (s *stubAverage) RefreshAsync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
}

func (s *stubAverage) Current(ctx context.Context) (string, error) {
	return s.value, nil
}

type testEnv struct {
	db        *database.DB
	userRepo  *repository.UserRepository
	gameRepo  *repository.GameRepository
	scoreRepo *repository.ScoreRepository
	users     *UserService
	games     *GameService
	scores    *ScoreService
	average   *stubAverage
	metrics   *metrics.Metrics
}

// newTestEnv wires the services against a fresh SQLite database. The word
// list holds one word per length so targets are predictable.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "hangman.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	env := &testEnv{
		db:        db,
		userRepo:  repository.NewUserRepository(db),
		gameRepo:  repository.NewGameRepository(db),
		scoreRepo: repository.NewScoreRepository(db),
		average:   &stubAverage{},
		metrics:   metrics.New(),
	}
	env.users = NewUserService(env.userRepo)
	env.games = NewGameService(env.userRepo, env.gameRepo, words.New("cat", "bear", "horse"), env.average, env.metrics)
	env.scores = NewScoreService(env.userRepo, env.scoreRepo)
	return env
}
