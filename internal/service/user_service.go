package service

import (
	"context"
	"errors"
	"fmt"

	"hangman/internal/models"
	"hangman/internal/repository"
	"hangman/internal/validation"

	"github.com/rs/zerolog/log"
)

// UserService handles player registration
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser registers a unique display name with an optional email address
func (s *UserService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateOptionalEmail(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(ctx, name, email)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("user_name", user.Name).Msg("user created")
	return user, nil
}

// GetUserByName looks up a user by exact display name
func (s *UserService) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	user, err := s.userRepo.GetUserByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
