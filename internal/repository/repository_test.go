package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"hangman/internal/database"
	"hangman/internal/game"
	"hangman/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "hangman.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	return db
}

func createUser(t *testing.T, repo *UserRepository, name, email string) *models.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), name, email)
	require.NoError(t, err)
	return u
}

func createGame(t *testing.T, repo *GameRepository, user *models.User, target string, attempts int) *game.Game {
	t.Helper()
	g, err := game.New(user, 1, 10, attempts, target)
	require.NoError(t, err)
	require.NoError(t, repo.CreateGame(context.Background(), g))
	return g
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "alice", "alice@example.com")
	assert.NotZero(t, alice.ID)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, "alice", "")
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("names are case-sensitive", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, "Alice", "")
		assert.NoError(t, err)
	})

	t.Run("get by name", func(t *testing.T) {
		u, err := repo.GetUserByName(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, alice.ID, u.ID)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("get by id", func(t *testing.T) {
		u, err := repo.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "alice", u.Name)
	})

	t.Run("missing user", func(t *testing.T) {
		u, err := repo.GetUserByName(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("all users", func(t *testing.T) {
		users, err := repo.GetAllUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestUsersWithUnfinishedGames(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	games := NewGameRepository(db)
	ctx := context.Background()

	active := createUser(t, users, "active", "active@example.com")
	finished := createUser(t, users, "finished", "finished@example.com")
	noEmail := createUser(t, users, "noemail", "")
	createUser(t, users, "idle", "idle@example.com")

	createGame(t, games, active, "cat", 5)
	createGame(t, games, noEmail, "dog", 5)

	g := createGame(t, games, finished, "cow", 5)
	res := g.Cancel()
	require.NoError(t, games.SaveGame(ctx, g, res.Score))

	got, err := users.GetUsersWithUnfinishedGames(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "active", got[0].Name)
}

func TestGameRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	games := NewGameRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "")
	g := createGame(t, games, alice, "banana", 6)
	assert.Equal(t, int64(1), g.Version)

	g.ApplyLetterGuess("a")
	g.ApplyLetterGuess("z")
	require.NoError(t, games.SaveGame(ctx, g, nil))
	assert.Equal(t, int64(2), g.Version)

	loaded, err := games.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "alice", loaded.UserName)
	assert.Equal(t, "banana", loaded.Target)
	assert.Equal(t, "_a_a_a", loaded.Revealed())
	assert.Equal(t, []string{"a", "z"}, loaded.History.List())
	assert.Equal(t, 4, loaded.AttemptsRemaining)
	assert.Equal(t, 6, loaded.AttemptsBudget)
	assert.False(t, loaded.GameOver)
	assert.Equal(t, int64(2), loaded.Version)

	missing, err := games.GetGame(ctx, "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveGameWritesScoreWithTransition(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	games := NewGameRepository(db)
	scores := NewScoreRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "")
	g := createGame(t, games, alice, "cat", 5)

	res := g.ApplyWordGuess("cat")
	require.NotNil(t, res.Score)
	require.NoError(t, games.SaveGame(ctx, g, res.Score))
	assert.NotZero(t, res.Score.ID)

	all, err := scores.GetAllScores(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, g.ID, all[0].GameID)
	assert.Equal(t, "alice", all[0].UserName)
	assert.True(t, all[0].Won)
	assert.Equal(t, 1, all[0].Guesses)

	byUser, err := scores.GetScoresByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
}

func TestSaveGameVersionConflict(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	games := NewGameRepository(db)
	scores := NewScoreRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "")
	g := createGame(t, games, alice, "cat", 1)

	first, err := games.GetGame(ctx, g.ID)
	require.NoError(t, err)
	second, err := games.GetGame(ctx, g.ID)
	require.NoError(t, err)

	r1 := first.ApplyLetterGuess("x")
	require.NoError(t, games.SaveGame(ctx, first, r1.Score))

	// The stale copy must not overwrite the loss or add a second score
	r2 := second.ApplyLetterGuess("c")
	err = games.SaveGame(ctx, second, r2.Score)
	assert.ErrorIs(t, err, ErrVersionConflict)

	stored, err := games.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, stored.GameOver)
	assert.False(t, stored.Won)

	all, err := scores.GetAllScores(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConcurrentSavesOnlyOneWins(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	games := NewGameRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "")
	g := createGame(t, games, alice, "elephant", 10)

	const writers = 8
	copies := make([]*game.Game, writers)
	for i := range copies {
		c, err := games.GetGame(ctx, g.ID)
		require.NoError(t, err)
		copies[i] = c
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i, c := range copies {
		wg.Add(1)
		go func(c *game.Game, letter string) {
			defer wg.Done()
			c.ApplyLetterGuess(letter)
			err := games.SaveGame(ctx, c, nil)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrVersionConflict)
		}(c, string(rune('a'+i)))
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	stored, err := games.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, stored.AttemptsRemaining)
	assert.Equal(t, 1, stored.History.Len())
}

func TestActiveGameQueries(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	games := NewGameRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "")
	bob := createUser(t, users, "bob", "")

	createGame(t, games, alice, "cat", 3)
	createGame(t, games, alice, "dog", 5)
	createGame(t, games, bob, "cow", 4)

	done := createGame(t, games, bob, "pig", 9)
	res := done.Cancel()
	require.NoError(t, games.SaveGame(ctx, done, res.Score))

	remaining, err := games.ActiveAttemptsRemaining(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{3, 5, 4}, remaining)

	aliceGames, err := games.GetActiveGamesByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceGames, 2)

	bobGames, err := games.GetActiveGamesByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobGames, 1)
	assert.Equal(t, "cow", bobGames[0].Target)

	all, err := games.GetAllGames(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRestore(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	games := NewGameRepository(db)
	scores := NewScoreRepository(db)
	ctx := context.Background()

	user := &models.User{ID: 42, Name: "restored", Email: "r@example.com"}
	g, err := game.New(user, 1, 10, 3, "cat")
	require.NoError(t, err)
	g.Version = 7
	res := g.ApplyWordGuess("cat")
	res.Score.ID = 5

	err = db.WithTx(ctx, func(tx *database.Tx) error {
		if err := users.RestoreUser(ctx, tx, user); err != nil {
			return err
		}
		if err := games.RestoreGame(ctx, tx, g); err != nil {
			return err
		}
		return scores.RestoreScore(ctx, tx, res.Score)
	})
	require.NoError(t, err)

	loaded, err := games.GetGame(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(7), loaded.Version)
	assert.True(t, loaded.Won)

	// New rows continue after the restored ids
	next := createUser(t, users, "next", "")
	assert.Greater(t, next.ID, int64(42))

	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return users.RestoreUser(ctx, tx, user)
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}
