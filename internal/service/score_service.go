package service

import (
	"context"
	"fmt"

	"hangman/internal/models"
	"hangman/internal/repository"
)

// ScoreService lists recorded scores
type ScoreService struct {
	userRepo  *repository.UserRepository
	scoreRepo *repository.ScoreRepository
}

// NewScoreService creates a new score service
func NewScoreService(userRepo *repository.UserRepository, scoreRepo *repository.ScoreRepository) *ScoreService {
	return &ScoreService{userRepo: userRepo, scoreRepo: scoreRepo}
}

// ListScores returns every score
func (s *ScoreService) ListScores(ctx context.Context) ([]models.ScoreView, error) {
	scores, err := s.scoreRepo.GetAllScores(ctx)
	if err != nil {
		return nil, err
	}
	return toScoreViews(scores), nil
}

// ListUserScores returns the scores of one user
func (s *ScoreService) ListUserScores(ctx context.Context, userName string) ([]models.ScoreView, error) {
	user, err := s.userRepo.GetUserByName(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	scores, err := s.scoreRepo.GetScoresByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return toScoreViews(scores), nil
}

func toScoreViews(scores []models.Score) []models.ScoreView {
	views := make([]models.ScoreView, 0, len(scores))
	for i := range scores {
		views = append(views, models.NewScoreView(&scores[i]))
	}
	return views
}
