package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"hangman/internal/database"
	"hangman/internal/game"
	"hangman/internal/models"
	"hangman/internal/repository"

	"github.com/rs/zerolog/log"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string        `json:"version"`
	ExportedAt   time.Time     `json:"exported_at"`
	DatabaseType string        `json:"database_type"`
	Users        []UserBackup  `json:"users"`
	Games        []GameBackup  `json:"games"`
	Scores       []ScoreBackup `json:"scores"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// GameBackup represents a game record for backup
type GameBackup struct {
	ID                string    `json:"id"`
	UserID            int64     `json:"user_id"`
	Target            string    `json:"target"`
	GuessState        string    `json:"guess_state"`
	GuessHistory      []string  `json:"guess_history"`
	AttemptsBudget    int       `json:"attempts_budget"`
	AttemptsRemaining int       `json:"attempts_remaining"`
	GameOver          bool      `json:"game_over"`
	Won               bool      `json:"won"`
	Cancelled         bool      `json:"cancelled"`
	Version           int64     `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ScoreBackup represents a score record for backup
type ScoreBackup struct {
	ID        int64     `json:"id"`
	GameID    string    `json:"game_id"`
	UserID    int64     `json:"user_id"`
	Won       bool      `json:"won"`
	Guesses   int       `json:"guesses"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db        *database.DB
	userRepo  *repository.UserRepository
	gameRepo  *repository.GameRepository
	scoreRepo *repository.ScoreRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, userRepo *repository.UserRepository, gameRepo *repository.GameRepository, scoreRepo *repository.ScoreRepository) *BackupService {
	return &BackupService{db: db, userRepo: userRepo, gameRepo: gameRepo, scoreRepo: scoreRepo}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}

	log.Info().Str("path", outputPath).Msg("database exported")
	return file.Close()
}

// ExportToWriter writes a complete backup as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.MigrationsSubdir(),
	}

	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt})
	}

	games, err := s.gameRepo.GetAllGames(ctx)
	if err != nil {
		return fmt.Errorf("failed to export games: %w", err)
	}
	for _, g := range games {
		backup.Games = append(backup.Games, GameBackup{
			ID:                g.ID,
			UserID:            g.UserID,
			Target:            g.Target,
			GuessState:        g.Revealed(),
			GuessHistory:      g.History.List(),
			AttemptsBudget:    g.AttemptsBudget,
			AttemptsRemaining: g.AttemptsRemaining,
			GameOver:          g.GameOver,
			Won:               g.Won,
			Cancelled:         g.Cancelled,
			Version:           g.Version,
			CreatedAt:         g.CreatedAt,
			UpdatedAt:         g.UpdatedAt,
		})
	}

	scores, err := s.scoreRepo.GetAllScores(ctx)
	if err != nil {
		return fmt.Errorf("failed to export scores: %w", err)
	}
	for _, sc := range scores {
		backup.Scores = append(backup.Scores, ScoreBackup{
			ID:        sc.ID,
			GameID:    sc.GameID,
			UserID:    sc.UserID,
			Won:       sc.Won,
			Guesses:   sc.Guesses,
			CreatedAt: sc.CreatedAt,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Info().Int("users", len(backup.Users)).Int("games", len(backup.Games)).Int("scores", len(backup.Scores)).Msg("backup written")
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a backup in a single transaction. Rows that
// already exist make the whole import fail with nothing written.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Info().Str("version", backup.Version).Time("exported_at", backup.ExportedAt).Str("source", backup.DatabaseType).Msg("starting import")

	games := make([]*game.Game, 0, len(backup.Games))
	for _, gb := range backup.Games {
		g, err := gameFromBackup(gb)
		if err != nil {
			return err
		}
		games = append(games, g)
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		// Import in order of dependencies
		for _, ub := range backup.Users {
			u := &models.User{ID: ub.ID, Name: ub.Name, Email: ub.Email, CreatedAt: ub.CreatedAt}
			if err := s.userRepo.RestoreUser(ctx, tx, u); err != nil {
				return fmt.Errorf("failed to import users: %w", err)
			}
		}
		for _, g := range games {
			if err := s.gameRepo.RestoreGame(ctx, tx, g); err != nil {
				return fmt.Errorf("failed to import games: %w", err)
			}
		}
		for _, sb := range backup.Scores {
			sc := &models.Score{ID: sb.ID, GameID: sb.GameID, UserID: sb.UserID, Won: sb.Won, Guesses: sb.Guesses, CreatedAt: sb.CreatedAt}
			if err := s.scoreRepo.RestoreScore(ctx, tx, sc); err != nil {
				return fmt.Errorf("failed to import scores: %w", err)
			}
		}

		for _, table := range []string{"users", "scores"} {
			if query := tx.GetDialect().ResetSequenceQuery(table); query != "" {
				if _, err := tx.ExecContext(ctx, query); err != nil {
					return fmt.Errorf("failed to reset %s sequence: %w", table, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("users", len(backup.Users)).Int("games", len(games)).Int("scores", len(backup.Scores)).Msg("database import completed")
	return nil
}

// gameFromBackup rebuilds a game, rejecting records that break the game invariants
func gameFromBackup(gb GameBackup) (*game.Game, error) {
	if len([]rune(gb.GuessState)) != len([]rune(gb.Target)) {
		return nil, fmt.Errorf("game %s: guess state length does not match target", gb.ID)
	}
	if gb.AttemptsRemaining < 0 || gb.AttemptsRemaining > gb.AttemptsBudget {
		return nil, fmt.Errorf("game %s: attempts remaining out of range", gb.ID)
	}
	if gb.Version < 1 {
		return nil, fmt.Errorf("game %s: invalid version %d", gb.ID, gb.Version)
	}

	return &game.Game{
		ID:                gb.ID,
		UserID:            gb.UserID,
		Target:            gb.Target,
		GuessState:        []rune(gb.GuessState),
		History:           game.NewHistory(gb.GuessHistory...),
		AttemptsBudget:    gb.AttemptsBudget,
		AttemptsRemaining: gb.AttemptsRemaining,
		GameOver:          gb.GameOver,
		Won:               gb.Won,
		Cancelled:         gb.Cancelled,
		Version:           gb.Version,
		CreatedAt:         gb.CreatedAt,
		UpdatedAt:         gb.UpdatedAt,
	}, nil
}
