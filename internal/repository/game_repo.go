package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hangman/internal/database"
	"hangman/internal/game"
	"hangman/internal/models"
)

// GameRepository handles database operations for games
type GameRepository struct {
	db *database.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `
	g.id, g.user_id, u.name, g.target, g.guess_state, g.guess_history,
	g.attempts_budget, g.attempts_remaining, g.game_over, g.won, g.cancelled,
	g.version, g.created_at, g.updated_at`

// CreateGame inserts a newly created game and sets its version to 1
func (r *GameRepository) CreateGame(ctx context.Context, g *game.Game) error {
	g.Version = 1
	if err := insertGame(ctx, r.db, g); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func insertGame(ctx context.Context, q database.DBTX, g *game.Game) error {
	history, err := json.Marshal(g.History.List())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO games (id, user_id, target, guess_state, guess_history,
			attempts_budget, attempts_remaining, game_over, won, cancelled,
			version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = q.ExecContext(ctx, query,
		g.ID, g.UserID, g.Target, string(g.GuessState), string(history),
		g.AttemptsBudget, g.AttemptsRemaining, g.GameOver, g.Won, g.Cancelled,
		g.Version, g.CreatedAt.UTC(), g.UpdatedAt.UTC(),
	)
	return err
}

// GetGame retrieves a game by ID. It returns nil, nil when no such game exists.
func (r *GameRepository) GetGame(ctx context.Context, id string) (*game.Game, error) {
	query := "SELECT " + gameColumns + " FROM games g JOIN users u ON u.id = g.user_id WHERE g.id = ?"
	g, err := scanGame(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// SaveGame persists the result of one state transition. The update only
// applies if the stored version still matches g.Version; otherwise
// ErrVersionConflict is returned and nothing is written. When score is not
// nil it is inserted in the same transaction.
func (r *GameRepository) SaveGame(ctx context.Context, g *game.Game, score *models.Score) error {
	history, err := json.Marshal(g.History.List())
	if err != nil {
		return fmt.Errorf("failed to encode guess history: %w", err)
	}

	err = r.db.WithTx(ctx, func(tx *database.Tx) error {
		query := `
			UPDATE games
			SET guess_state = ?, guess_history = ?, attempts_remaining = ?,
				game_over = ?, won = ?, cancelled = ?, version = ?, updated_at = ?
			WHERE id = ? AND version = ?
		`
		result, err := tx.ExecContext(ctx, query,
			string(g.GuessState), string(history), g.AttemptsRemaining,
			g.GameOver, g.Won, g.Cancelled, g.Version+1, g.UpdatedAt.UTC(),
			g.ID, g.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}
		if n == 0 {
			return ErrVersionConflict
		}

		if score != nil {
			if err := insertScore(ctx, tx, score); err != nil {
				if tx.GetDialect().IsUniqueViolation(err) {
					return ErrVersionConflict
				}
				return fmt.Errorf("failed to record score: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.Version++
	return nil
}

// GetActiveGamesByUser returns a user's games that are not over, oldest first
func (r *GameRepository) GetActiveGamesByUser(ctx context.Context, userID int64) ([]*game.Game, error) {
	query := "SELECT " + gameColumns + `
		FROM games g JOIN users u ON u.id = g.user_id
		WHERE g.user_id = ? AND g.game_over = ?
		ORDER BY g.created_at, g.id`
	return r.listGames(ctx, query, userID, false)
}

// GetAllGames returns every game, used by backups
func (r *GameRepository) GetAllGames(ctx context.Context) ([]*game.Game, error) {
	query := "SELECT " + gameColumns + " FROM games g JOIN users u ON u.id = g.user_id ORDER BY g.created_at, g.id"
	return r.listGames(ctx, query)
}

// ActiveAttemptsRemaining returns attempts_remaining of every game that is
// not over. It is a point-in-time snapshot.
func (r *GameRepository) ActiveAttemptsRemaining(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT attempts_remaining FROM games WHERE game_over = ?", false)
	if err != nil {
		return nil, fmt.Errorf("failed to query active games: %w", err)
	}
	defer rows.Close()

	var remaining []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan attempts: %w", err)
		}
		remaining = append(remaining, n)
	}
	return remaining, rows.Err()
}

// RestoreGame inserts a game as-is, used when importing a backup
func (r *GameRepository) RestoreGame(ctx context.Context, tx database.DBTX, g *game.Game) error {
	if err := insertGame(ctx, tx, g); err != nil {
		if tx.GetDialect().IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to restore game %s: %w", g.ID, err)
	}
	return nil
}

func (r *GameRepository) listGames(ctx context.Context, query string, args ...interface{}) ([]*game.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*game.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(s scanner) (*game.Game, error) {
	var (
		g          game.Game
		guessState string
		history    string
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := s.Scan(
		&g.ID, &g.UserID, &g.UserName, &g.Target, &guessState, &history,
		&g.AttemptsBudget, &g.AttemptsRemaining, &g.GameOver, &g.Won, &g.Cancelled,
		&g.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var guesses []string
	if err := json.Unmarshal([]byte(history), &guesses); err != nil {
		return nil, fmt.Errorf("decode guess history of game %s: %w", g.ID, err)
	}

	g.GuessState = []rune(guessState)
	g.History = game.NewHistory(guesses...)
	g.CreatedAt = createdAt.UTC()
	g.UpdatedAt = updatedAt.UTC()
	return &g, nil
}
