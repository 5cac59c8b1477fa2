package repository

import (
	"context"
	"fmt"

	"hangman/internal/database"
	"hangman/internal/models"
)

// ScoreRepository handles database operations for scores
type ScoreRepository struct {
	db *database.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

const scoreColumns = "s.id, s.game_id, s.user_id, u.name, s.won, s.guesses, s.created_at"

func insertScore(ctx context.Context, q database.DBTX, s *models.Score) error {
	query := `
		INSERT INTO scores (game_id, user_id, won, guesses, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := q.ExecReturningID(ctx, query, s.GameID, s.UserID, s.Won, s.Guesses, s.CreatedAt.UTC())
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// GetAllScores returns every score, oldest first
func (r *ScoreRepository) GetAllScores(ctx context.Context) ([]models.Score, error) {
	query := "SELECT " + scoreColumns + " FROM scores s JOIN users u ON u.id = s.user_id ORDER BY s.created_at, s.id"
	return r.listScores(ctx, query)
}

// GetScoresByUser returns a user's scores, oldest first
func (r *ScoreRepository) GetScoresByUser(ctx context.Context, userID int64) ([]models.Score, error) {
	query := "SELECT " + scoreColumns + `
		FROM scores s JOIN users u ON u.id = s.user_id
		WHERE s.user_id = ?
		ORDER BY s.created_at, s.id`
	return r.listScores(ctx, query, userID)
}

func (r *ScoreRepository) listScores(ctx context.Context, query string, args ...interface{}) ([]models.Score, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []models.Score
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(&s.ID, &s.GameID, &s.UserID, &s.UserName, &s.Won, &s.Guesses, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		s.CreatedAt = s.CreatedAt.UTC()
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// RestoreScore inserts a score with its original ID, used when importing a backup
func (r *ScoreRepository) RestoreScore(ctx context.Context, tx database.DBTX, s *models.Score) error {
	query := `
		INSERT INTO scores (id, game_id, user_id, won, guesses, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query, s.ID, s.GameID, s.UserID, s.Won, s.Guesses, s.CreatedAt.UTC()); err != nil {
		if tx.GetDialect().IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to restore score for game %s: %w", s.GameID, err)
	}
	return nil
}
