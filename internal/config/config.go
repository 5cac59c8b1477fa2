package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Database
	DatabaseType string // sqlite, postgres or mysql
	DatabasePath string // sqlite file
	DatabaseURL  string // postgres/mysql DSN

	// Average attempts cache; empty means in-process
	RedisURL string

	LogLevel  string
	LogFormat string

	// Cron schedules
	AverageSchedule  string
	ReminderSchedule string

	// Reminder email (Amazon SES)
	AWSRegion  string
	FromEmail  string
	FromName   string
	AppBaseURL string
	EmailDebug bool

	WordsFile string

	RateLimit  int
	RateWindow time.Duration
}

// Load reads configuration from the environment (and a .env file if present)
// with sensible defaults
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     getEnv("DB_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./hangman.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		AverageSchedule:  getEnv("AVERAGE_SCHEDULE", "@every 5m"),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "@hourly"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		FromEmail:        getEnv("SES_FROM_EMAIL", ""),
		FromName:         getEnv("SES_FROM_NAME", "Hangman"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),
		EmailDebug:       getBool("EMAIL_DEBUG", false),
		WordsFile:        getEnv("WORDS_FILE", ""),
		RateLimit:        getInt("RATE_LIMIT", 30),
		RateWindow:       getDuration("RATE_WINDOW", time.Minute),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
