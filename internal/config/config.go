package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Addr                string  `env:"ADDR" envDefault:":8080"`
	DBPath              string  `env:"DB_PATH" envDefault:"file:eartune.db"`
	LogLevel            string  `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFile             string  `env:"LOG_FILE"`
	LogColors           bool    `env:"LOG_COLORS" envDefault:"true"`
	Timezone            string  `env:"TIMEZONE" envDefault:"UTC"`
	MaxAttempts         int     `env:"MAX_ATTEMPTS" envDefault:"3"`
	RhythmToleranceMs   float64 `env:"RHYTHM_TOLERANCE_MS" envDefault:"100"`
	SeedContent         bool    `env:"SEED_CONTENT" envDefault:"true"`
	StreakSweepSchedule string  `env:"STREAK_SWEEP_SCHEDULE" envDefault:"5 0 * * *"`
	SweepWorkerCount    int     `env:"SWEEP_WORKER_COUNT" envDefault:"1"`
	SweepQueueSize      int     `env:"SWEEP_QUEUE_SIZE" envDefault:"8"`
	RateLimitRPS        float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst      int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
	OTelEndpoint        string  `env:"OTEL_ENDPOINT"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can run a server.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.MaxAttempts <= 0 {
		problems = append(problems, "MAX_ATTEMPTS must be positive")
	}
	if c.RhythmToleranceMs <= 0 {
		problems = append(problems, "RHYTHM_TOLERANCE_MS must be positive")
	}
	if c.SweepWorkerCount <= 0 {
		problems = append(problems, "SWEEP_WORKER_COUNT must be positive")
	}
	if c.SweepQueueSize <= 0 {
		problems = append(problems, "SWEEP_QUEUE_SIZE must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		problems = append(problems, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q is not a valid location", c.Timezone))
	}
	if c.StreakSweepSchedule != "" {
		if _, err := cron.ParseStandard(c.StreakSweepSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("STREAK_SWEEP_SCHEDULE is invalid: %v", err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
