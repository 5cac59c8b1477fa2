package game

import (
	"time"

	"hangman/internal/models"
)

// now is replaced in tests
var now = time.Now

// RecordScore derives the score of a game that has just been won or lost.
// Cancelled and unfinished games never produce a score.
func RecordScore(g *Game) *models.Score {
	if !g.GameOver || g.Cancelled {
		return nil
	}
	return &models.Score{
		GameID:    g.ID,
		UserID:    g.UserID,
		UserName:  g.UserName,
		Won:       g.Won,
		Guesses:   g.GuessesUsed(),
		CreatedAt: now(),
	}
}
