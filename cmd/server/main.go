package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hangman/internal/app"
	"hangman/internal/config"
	"hangman/internal/handlers"
	"hangman/internal/jobs"
	"hangman/internal/security"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()

	// Warm the cache so the first read after a restart has a value
	if err := a.Average.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial average refresh failed")
	}

	scheduler := jobs.NewScheduler(
		jobs.AverageJob(a.Average, cfg.AverageSchedule),
		jobs.ReminderJob(a.Reminders, cfg.ReminderSchedule),
	)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule jobs")
	}

	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Stop()

	router := handlers.NewRouter(handlers.Deps{
		Users:     a.Users,
		Games:     a.Games,
		Scores:    a.Scores,
		Reminders: a.Reminders,
		Average:   a.Average,
		DB:        a.DB,
		Metrics:   a.Metrics,
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("starting hangman server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server exited")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	scheduler.Stop(shutdownCtx)
	log.Info().Msg("server stopped")
}
