// Package config loads process settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL     string
	ServerPort      string
	AllowedOrigins  string
	JWTSecret       string
	Env             string
	LogLevel        string
	Timezone        string
	StrictStock     bool
	MonthlyStarGoal int
	BodyLimit       int64
	// OperatorUserID is recorded as the acting user for CLI commands.
	OperatorUserID int
}

// Load reads configuration. Variables already set in the environment take
// precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BUSINESS_TIMEZONE", "UTC")
	v.SetDefault("STRICT_STOCK", false)
	v.SetDefault("DEFAULT_MONTHLY_STAR_GOAL", 100)
	v.SetDefault("REQUEST_BODY_LIMIT", 1<<20)
	v.SetDefault("OPERATOR_USER_ID", 1)
	_ = v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")

	cfg := &Config{
		DatabaseURL:     v.GetString("DATABASE_URL"),
		ServerPort:      v.GetString("SERVER_PORT"),
		AllowedOrigins:  v.GetString("ALLOWED_ORIGINS"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		Env:             strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		Timezone:        v.GetString("BUSINESS_TIMEZONE"),
		StrictStock:     v.GetBool("STRICT_STOCK"),
		MonthlyStarGoal: v.GetInt("DEFAULT_MONTHLY_STAR_GOAL"),
		BodyLimit:       v.GetInt64("REQUEST_BODY_LIMIT"),
		OperatorUserID:  v.GetInt("OPERATOR_USER_ID"),
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.MonthlyStarGoal <= 0 {
		return nil, fmt.Errorf("DEFAULT_MONTHLY_STAR_GOAL must be positive, got %d", cfg.MonthlyStarGoal)
	}
	if cfg.BodyLimit <= 0 {
		return nil, fmt.Errorf("REQUEST_BODY_LIMIT must be positive, got %d", cfg.BodyLimit)
	}
	return cfg, nil
}

// Location returns the business time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Development reports whether the process runs outside production.
func (c *Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}
