package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Worker       WorkerConfig
	Confirmation ConfirmationConfig
	RateLimit    RateLimitConfig
}

type ServerConfig struct {
	Host  string
	Port  int
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	Username string
	DB       int
}

type WorkerConfig struct {
	Concurrency int
	// Cron spec for purging expired confirmation requests
	CleanupSchedule string
}

type ConfirmationConfig struct {
	Secret  string
	TTL     time.Duration
	BaseURL string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:  getEnv("SERVER_HOST", "localhost"),
			Port:  getEnvAsInt("SERVER_PORT", 8080),
			Debug: getEnvAsBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Name:     getEnv("POSTGRES_DB", "mailroom"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			Username: getEnv("REDIS_USERNAME", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Worker: WorkerConfig{
			Concurrency:     getEnvAsInt("WORKER_CONCURRENCY", 10),
			CleanupSchedule: getEnv("WORKER_CLEANUP_SCHEDULE", "@every 1h"),
		},
		Confirmation: ConfirmationConfig{
			Secret:  getEnv("CONFIRMATION_SECRET", "change-me"),
			TTL:     time.Duration(getEnvAsInt("CONFIRMATION_TTL_HOURS", 72)) * time.Hour,
			BaseURL: getEnv("CONFIRMATION_BASE_URL", "http://localhost:8080"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 600),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 100),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
