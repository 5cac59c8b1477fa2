package models

import "time"

// GameView is the rendering of a game returned to clients
type GameView struct {
	GameKey           string   `json:"urlsafe_key"`
	UserName          string   `json:"user_name"`
	AttemptsRemaining int      `json:"attempts_remaining"`
	GuessState        string   `json:"guess_state"`
	GuessHistory      []string `json:"guess_history"`
	GameOver          bool     `json:"game_over"`
	Cancelled         bool     `json:"cancelled"`
	Message           string   `json:"message"`
}

// ScoreView is the rendering of a score returned to clients
type ScoreView struct {
	UserName string    `json:"user_name"`
	Date     time.Time `json:"date"`
	Won      bool      `json:"won"`
	Guesses  int       `json:"guesses"`
}

// NewScoreView renders a score
func NewScoreView(s *Score) ScoreView {
	return ScoreView{
		UserName: s.UserName,
		Date:     s.CreatedAt,
		Won:      s.Won,
		Guesses:  s.Guesses,
	}
}

// StringMessage carries a single human readable message
type StringMessage struct {
	Message string `json:"message"`
}

// GameList wraps a list of games
type GameList struct {
	Items []GameView `json:"items"`
}

// ScoreList wraps a list of scores
type ScoreList struct {
	Items []ScoreView `json:"items"`
}
