// Package app wires the hangman services together from configuration.
package app

import (
	"context"
	"fmt"

	"hangman/internal/config"
	"hangman/internal/database"
	"hangman/internal/metrics"
	"hangman/internal/repository"
	"hangman/internal/service"
	"hangman/internal/stats"
	"hangman/internal/words"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App holds the shared dependencies of the server and the CLI
type App struct {
	DB      *database.DB
	Redis   *redis.Client
	Metrics *metrics.Metrics
	Average *stats.Aggregator

	Users     *service.UserService
	Games     *service.GameService
	Scores    *service.ScoreService
	Reminders *service.ReminderService
	Backup    *service.BackupService
}

// New opens the database, runs migrations and builds every service
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info().Str("type", cfg.DatabaseType).Msg("database connection established")

	a := &App{DB: db, Metrics: metrics.New()}
	if err := a.init(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context, cfg *config.Config) error {
	if err := a.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	wordList, err := words.Load(cfg.WordsFile)
	if err != nil {
		return err
	}
	log.Info().Int("words", wordList.Len()).Msg("word list loaded")

	cache, err := a.newCache(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(a.DB)
	gameRepo := repository.NewGameRepository(a.DB)
	scoreRepo := repository.NewScoreRepository(a.DB)

	email, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.FromEmail, cfg.FromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		return err
	}

	a.Average = stats.NewAggregator(gameRepo, cache, a.Metrics.ObserveAverage)
	a.Users = service.NewUserService(userRepo)
	a.Games = service.NewGameService(userRepo, gameRepo, wordList, a.Average, a.Metrics)
	a.Scores = service.NewScoreService(userRepo, scoreRepo)
	a.Reminders = service.NewReminderService(userRepo, email, a.Metrics)
	a.Backup = service.NewBackupService(a.DB, userRepo, gameRepo, scoreRepo)
	return nil
}

// newCache uses Redis when a URL is configured and an in-process cache otherwise
func (a *App) newCache(ctx context.Context, url string) (stats.Cache, error) {
	if url == "" {
		log.Info().Msg("using in-process average cache")
		return stats.NewMemoryCache(), nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	a.Redis = redis.NewClient(opts)
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info().Str("addr", opts.Addr).Msg("using redis average cache")
	return stats.NewRedisCache(a.Redis), nil
}

// Close waits for background average refreshes, then releases the database
// and cache connections
func (a *App) Close() {
	if a.Average != nil {
		a.Average.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close database")
	}
}
