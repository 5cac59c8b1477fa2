package service

import (
	"context"
	"errors"
	"fmt"

	"hangman/internal/metrics"
	"hangman/internal/repository"

	"github.com/rs/zerolog/log"
)

// Mailer delivers reminder emails
type Mailer interface {
	IsEnabled() bool
	SendReminderEmail(ctx context.Context, toEmail, toName string) error
}

// ReminderService emails every player who has unfinished games
type ReminderService struct {
	userRepo *repository.UserRepository
	mailer   Mailer
	metrics  *metrics.Metrics
}

// NewReminderService creates a new reminder service
func NewReminderService(userRepo *repository.UserRepository, mailer Mailer, m *metrics.Metrics) *ReminderService {
	return &ReminderService{userRepo: userRepo, mailer: mailer, metrics: m}
}

// SendReminders emails each user that has an address and at least one game
// that is not over. A failed send does not stop the others; all failures are
// returned joined. It returns how many emails were sent.
func (s *ReminderService) SendReminders(ctx context.Context) (int, error) {
	if !s.mailer.IsEnabled() {
		log.Debug().Msg("reminders skipped: email disabled")
		return 0, nil
	}

	users, err := s.userRepo.GetUsersWithUnfinishedGames(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find users with unfinished games: %w", err)
	}

	sent := 0
	var errs []error
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.mailer.SendReminderEmail(ctx, user.Email, user.Name); err != nil {
			log.Warn().Err(err).Str("user_name", user.Name).Msg("reminder email failed")
			errs = append(errs, err)
			continue
		}
		sent++
		s.metrics.ReminderSent()
	}

	log.Info().Int("sent", sent).Int("users", len(users)).Msg("reminders processed")
	return sent, errors.Join(errs...)
}
