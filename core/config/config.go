package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"schedbot/core/logger"
)

type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Worker   WorkerConfig
	LogLevel string
}

type HTTPConfig struct {
	Addr string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type WorkerConfig struct {
	// Cron specs for the periodic tasks, asynq scheduler syntax.
	SweepSpec   string
	CleanupSpec string
	SyncSpec    string

	// SweepWindowSeconds is the look-back length of the sweep window.
	SweepWindowSeconds int

	Concurrency int
}

// Load reads configuration from the environment, with an optional .env file
// for development. Environment variables win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("config: no .env file loaded", "error", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SCHEDBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":7070")
	v.SetDefault("log.level", "info")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "schedbot")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "schedbot")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("worker.sweep_spec", "* * * * *")
	v.SetDefault("worker.cleanup_spec", "0 3 * * *")
	v.SetDefault("worker.sync_spec", "0 * * * *")
	v.SetDefault("worker.sweep_window_seconds", 120)
	v.SetDefault("worker.concurrency", 10)

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr: v.GetString("http.addr"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
		},
		Worker: WorkerConfig{
			SweepSpec:          v.GetString("worker.sweep_spec"),
			CleanupSpec:        v.GetString("worker.cleanup_spec"),
			SyncSpec:           v.GetString("worker.sync_spec"),
			SweepWindowSeconds: v.GetInt("worker.sweep_window_seconds"),
			Concurrency:        v.GetInt("worker.concurrency"),
		},
		LogLevel: v.GetString("log.level"),
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("SCHEDBOT_AUTH_JWT_SECRET is required")
	}

	return cfg, nil
}
