package config

import (
	"os"

	"github.com/rs/zerolog/log"
)

// Config holds the environment-derived settings recognized by the service.
type Config struct {
	DatabaseURL   string
	Port          string
	JWTSecret     string
	BaseURL       string
	FrontendURL   string
	TwitterToken  string
	RedisURL      string
	AppEnv        string
	LogLevel      string
	DevModeVerify bool
}

// Load reads Config from the process environment, after LoadDotEnv has
// merged any .env files. Absence of TWITTER_BEARER_TOKEN enables the
// dev-mode short-circuit for external verification and is logged here,
// since that is a security-relevant switch.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:  getenv("DATABASE_URL", "clawlink:clawlink@tcp(127.0.0.1:3306)/clawlink?parseTime=true"),
		Port:         getenv("PORT", "8080"),
		JWTSecret:    getenv("JWT_SECRET", "dev-secret-change-me"),
		BaseURL:      getenv("BASE_URL", "http://localhost:8080"),
		FrontendURL:  getenv("FRONTEND_URL", "http://localhost:3000"),
		TwitterToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		RedisURL:     getenv("REDIS_URL", "127.0.0.1:6379"),
		AppEnv:       getenv("APP_ENV", "development"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}
	cfg.DevModeVerify = cfg.TwitterToken == ""
	if cfg.DevModeVerify {
		log.Warn().Msg("TWITTER_BEARER_TOKEN not set: external verification is running in dev-mode short-circuit, claims will be approved without checking the external platform")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
