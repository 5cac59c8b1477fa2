package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hangman/internal/game"
	"hangman/internal/metrics"
	"hangman/internal/models"
	"hangman/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	MsgNewGame  = "Good luck playing Hangman!"
	MsgMakeMove = "Time to make a move!"
)

// WordSource picks the target for a new game
type WordSource interface {
	Pick(minLength, maxLength int) (string, error)
}

// AverageStat is the cached average attempts statistic
type AverageStat interface {
	RefreshAsync()
	Current(ctx context.Context) (string, error)
}

// GameService loads a game, applies one operation and persists the result
type GameService struct {
	userRepo *repository.UserRepository
	gameRepo *repository.GameRepository
	words    WordSource
	average  AverageStat
	metrics  *metrics.Metrics
}

// NewGameService creates a new game service
func NewGameService(userRepo *repository.UserRepository, gameRepo *repository.GameRepository, words WordSource, average AverageStat, m *metrics.Metrics) *GameService {
	return &GameService{
		userRepo: userRepo,
		gameRepo: gameRepo,
		words:    words,
		average:  average,
		metrics:  m,
	}
}

// CreateGame starts a game for userName against a word whose length lies in
// [minLength, maxLength]
func (s *GameService) CreateGame(ctx context.Context, userName string, minLength, maxLength, attempts int) (*models.GameView, error) {
	user, err := s.userRepo.GetUserByName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := game.CheckParams(minLength, maxLength, attempts); err != nil {
		return nil, err
	}

	target, err := s.words.Pick(minLength, maxLength)
	if err != nil {
		return nil, err
	}

	g, err := game.New(user, minLength, maxLength, attempts, target)
	if err != nil {
		return nil, err
	}
	if err := s.gameRepo.CreateGame(ctx, g); err != nil {
		return nil, err
	}

	s.metrics.GameCreated()
	s.average.RefreshAsync()

	log.Info().Str("game_id", g.ID).Str("user_name", user.Name).Int("length", len(target)).Int("attempts", attempts).Msg("game created")
	view := g.View(MsgNewGame)
	return &view, nil
}

// GetGame returns the current state of a game
func (s *GameService) GetGame(ctx context.Context, gameID string) (*models.GameView, error) {
	g, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	view := g.View(MsgMakeMove)
	return &view, nil
}

// GuessLetter submits a single letter. Input is trimmed and lowercased.
func (s *GameService) GuessLetter(ctx context.Context, gameID, letter string) (*models.GameView, error) {
	return s.apply(ctx, gameID, "letter", func(g *game.Game) game.Result {
		return g.ApplyLetterGuess(normalizeGuess(letter))
	})
}

// GuessWord submits a whole-word guess. Input is trimmed and lowercased.
func (s *GameService) GuessWord(ctx context.Context, gameID, word string) (*models.GameView, error) {
	return s.apply(ctx, gameID, "word", func(g *game.Game) game.Result {
		return g.ApplyWordGuess(normalizeGuess(word))
	})
}

// CancelGame ends an active game without recording a score
func (s *GameService) CancelGame(ctx context.Context, gameID string) (*models.GameView, error) {
	return s.apply(ctx, gameID, "cancel", func(g *game.Game) game.Result {
		return g.Cancel()
	})
}

// apply runs one transition. The new state, and the score if the game just
// ended, are persisted before the view is returned; a lost version race
// discards the transition.
func (s *GameService) apply(ctx context.Context, gameID, kind string, op func(*game.Game) game.Result) (*models.GameView, error) {
	g, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	res := op(g)
	if res.Changed() {
		if err := s.gameRepo.SaveGame(ctx, g, res.Score); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				log.Warn().Str("game_id", g.ID).Str("kind", kind).Msg("concurrent update rejected")
				return nil, ErrConcurrentUpdate
			}
			return nil, err
		}
	}

	if kind != "cancel" {
		s.metrics.ObserveGuess(kind, string(res.Outcome))
	}
	if res.Changed() && g.GameOver {
		s.metrics.GameFinished(g.Status().String())
		log.Info().Str("game_id", g.ID).Str("status", g.Status().String()).Int("guesses", g.GuessesUsed()).Msg("game finished")
	}

	log.Debug().Str("game_id", g.ID).Str("kind", kind).Str("outcome", string(res.Outcome)).Int("attempts_remaining", g.AttemptsRemaining).Msg("move applied")
	view := g.View(res.Message)
	return &view, nil
}

// ListUserGames returns a user's active games
func (s *GameService) ListUserGames(ctx context.Context, userName string) ([]models.GameView, error) {
	user, err := s.userRepo.GetUserByName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	games, err := s.gameRepo.GetActiveGamesByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	views := make([]models.GameView, 0, len(games))
	for _, g := range games {
		views = append(views, g.View(""))
	}
	return views, nil
}

// AverageAttempts returns the cached statistic, or "" if never computed
func (s *GameService) AverageAttempts(ctx context.Context) (string, error) {
	return s.average.Current(ctx)
}

func (s *GameService) loadGame(ctx context.Context, gameID string) (*game.Game, error) {
	g, err := s.gameRepo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func normalizeGuess(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
