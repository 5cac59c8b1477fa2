package service

import (
	"errors"

	"hangman/internal/words"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrGameNotFound     = errors.New("game not found")
	ErrUserExists       = errors.New("user name already taken")
	ErrConcurrentUpdate = errors.New("game was updated by another request, resubmit the move")
	ErrNoWord           = words.ErrNoWord
)
