// Package game holds the hangman rules: guess evaluation, the per-game state
// machine and score derivation. Everything here is synchronous and in-memory;
// callers load a Game, apply one operation and persist the whole result.
package game

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"hangman/internal/models"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange  = errors.New("maximum must be greater than minimum")
	ErrInvalidBudget = errors.New("attempts must be greater than zero")
	ErrInvalidTarget = errors.New("target must be one or more lowercase letters")
)

// Status messages returned with every operation
const (
	MsgGameAlreadyOver = "Game already over!"
	MsgCantCancel      = "Game already over, can't cancel!"
	MsgCancelled       = "game cancelled"
	MsgOneLetter       = "One letter at a time please, guess again."
	MsgNotAWord        = "Guess a word made of letters only, guess again."
	MsgRepeatLetter    = "You already tried that letter, guess again."
	MsgRepeatWord      = "You already tried that word, guess again."
	MsgHit             = "The word contains your letter!"
	MsgMiss            = "Letter not in word."
	MsgWrongWord       = "That's not the word"
	MsgAllLetters      = "You guessed all the letters, you win!"
	MsgWholeWord       = "You guessed the word, you win!"
	msgGameOverSuffix  = " Game over!"
)

// Status is the lifecycle state of a game
type Status int

const (
	StatusActive Status = iota
	StatusWon
	StatusLost
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome classifies the result of a single operation
type Outcome string

const (
	OutcomeHit       Outcome = "hit"
	OutcomeMiss      Outcome = "miss"
	OutcomeWrongWord Outcome = "wrong_word"
	OutcomeRepeat    Outcome = "repeat"
	OutcomeMalformed Outcome = "malformed"
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeGameOver  Outcome = "game_over"
)

// Result is what an operation did to the game.
// Score is set only by the transition that ended the game in a win or a loss.
type Result struct {
	Outcome Outcome
	Message string
	Score   *models.Score
}

// Changed reports whether the operation mutated the game
func (r Result) Changed() bool {
	return r.Outcome != OutcomeGameOver
}

// Game is a single hangman game
type Game struct {
	ID                string
	UserID            int64
	UserName          string
	Target            string
	GuessState        []rune
	History           *History
	AttemptsBudget    int
	AttemptsRemaining int
	GameOver          bool
	Won               bool
	Cancelled         bool
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// New creates an active game for user against target.
// minLength and maxLength are the hints the target was picked with; only
// their ordering is checked here.
func New(user *models.User, minLength, maxLength, attempts int, target string) (*Game, error) {
	if err := CheckParams(minLength, maxLength, attempts); err != nil {
		return nil, err
	}
	if !isLowerAlpha(target) {
		return nil, ErrInvalidTarget
	}

	t := now()
	return &Game{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		UserName:          user.Name,
		Target:            target,
		GuessState:        Blank(target),
		History:           NewHistory(),
		AttemptsBudget:    attempts,
		AttemptsRemaining: attempts,
		CreatedAt:         t,
		UpdatedAt:         t,
	}, nil
}

// CheckParams validates creation parameters before a target is chosen
func CheckParams(minLength, maxLength, attempts int) error {
	if maxLength <= minLength {
		return ErrInvalidRange
	}
	if attempts <= 0 {
		return ErrInvalidBudget
	}
	return nil
}

// Status derives the lifecycle state from the stored flags
func (g *Game) Status() Status {
	switch {
	case !g.GameOver:
		return StatusActive
	case g.Cancelled:
		return StatusCancelled
	case g.Won:
		return StatusWon
	default:
		return StatusLost
	}
}

// Revealed returns the guess state as a string
func (g *Game) Revealed() string {
	return string(g.GuessState)
}

// GuessesUsed is the number of attempts consumed so far
func (g *Game) GuessesUsed() int {
	return g.AttemptsBudget - g.AttemptsRemaining
}

// ApplyLetterGuess submits a single letter.
// Every guess reaching evaluation costs an attempt, including repeats and
// malformed input.
func (g *Game) ApplyLetterGuess(letter string) Result {
	if g.GameOver {
		return Result{Outcome: OutcomeGameOver, Message: MsgGameAlreadyOver}
	}
	exhausted := g.consumeAttempt()

	if utf8.RuneCountInString(letter) != 1 || !isLowerAlpha(letter) {
		return g.reject(exhausted, OutcomeMalformed, MsgOneLetter)
	}
	if g.History.Contains(letter) {
		return g.reject(exhausted, OutcomeRepeat, MsgRepeatLetter)
	}
	g.History.Add(letter)

	outcome, msg := OutcomeMiss, MsgMiss
	if r, _ := utf8.DecodeRuneInString(letter); strings.ContainsRune(g.Target, r) {
		g.GuessState = EvaluateLetter(g.Target, g.GuessState, r)
		outcome, msg = OutcomeHit, MsgHit
	}
	return g.resolve(outcome, msg, MsgAllLetters)
}

// ApplyWordGuess submits a whole-word guess. A wrong word still reveals the
// positions it shares with the target.
func (g *Game) ApplyWordGuess(word string) Result {
	if g.GameOver {
		return Result{Outcome: OutcomeGameOver, Message: MsgGameAlreadyOver}
	}
	exhausted := g.consumeAttempt()

	if !isLowerAlpha(word) {
		return g.reject(exhausted, OutcomeMalformed, MsgNotAWord)
	}
	if g.History.Contains(word) {
		return g.reject(exhausted, OutcomeRepeat, MsgRepeatWord)
	}
	g.History.Add(word)

	if word == g.Target {
		g.GuessState = []rune(g.Target)
		return g.finish(true, OutcomeWin, MsgWholeWord)
	}
	g.GuessState = EvaluateWord(g.Target, g.GuessState, word)
	return g.resolve(OutcomeWrongWord, MsgWrongWord, MsgAllLetters)
}

// Cancel ends an active game without a score. Cancelling a finished game
// changes nothing.
func (g *Game) Cancel() Result {
	if g.GameOver {
		return Result{Outcome: OutcomeGameOver, Message: MsgCantCancel}
	}
	g.GameOver = true
	g.Won = false
	g.Cancelled = true
	g.UpdatedAt = now()
	return Result{Outcome: OutcomeCancelled, Message: MsgCancelled}
}

// consumeAttempt takes one attempt from the budget. It reports true when the
// budget was already empty before this guess; the counter never goes below zero.
func (g *Game) consumeAttempt() bool {
	g.UpdatedAt = now()
	if g.AttemptsRemaining <= 0 {
		g.AttemptsRemaining = 0
		return true
	}
	g.AttemptsRemaining--
	return false
}

// reject handles a guess that is not evaluated against the target. It only
// ends the game when the budget was exhausted before the guess arrived.
func (g *Game) reject(exhausted bool, outcome Outcome, msg string) Result {
	if exhausted {
		return g.finish(false, OutcomeLoss, msg+msgGameOverSuffix)
	}
	return Result{Outcome: outcome, Message: msg}
}

// resolve applies the end-of-guess checks. A completed word always wins, even
// when the same guess used the last attempt.
func (g *Game) resolve(outcome Outcome, msg, winMsg string) Result {
	if IsComplete(g.Target, g.GuessState) {
		return g.finish(true, OutcomeWin, winMsg)
	}
	if g.AttemptsRemaining < 1 {
		return g.finish(false, OutcomeLoss, msg+msgGameOverSuffix)
	}
	return Result{Outcome: outcome, Message: msg}
}

func (g *Game) finish(won bool, outcome Outcome, msg string) Result {
	g.GameOver = true
	g.Won = won
	return Result{Outcome: outcome, Message: msg, Score: RecordScore(g)}
}

// View renders the game for clients
func (g *Game) View(message string) models.GameView {
	return models.GameView{
		GameKey:           g.ID,
		UserName:          g.UserName,
		AttemptsRemaining: g.AttemptsRemaining,
		GuessState:        g.Revealed(),
		GuessHistory:      g.History.List(),
		GameOver:          g.GameOver,
		Cancelled:         g.Cancelled,
		Message:           message,
	}
}
