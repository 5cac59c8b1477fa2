package models

import (
	"strings"
	"time"
)

// User represents a player. Name is the unique, case-sensitive display name.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// HasEmail reports whether the user can receive reminder emails
func (u *User) HasEmail() bool {
	return strings.TrimSpace(u.Email) != ""
}

// Score is the immutable record of a finished (won or lost) game
type Score struct {
	ID        int64
	GameID    string
	UserID    int64
	UserName  string
	Won       bool
	Guesses   int
	CreatedAt time.Time
}
