package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eartune/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":8080",
		DBPath:              "test.db",
		LogLevel:            "INFO",
		Timezone:            "UTC",
		MaxAttempts:         3,
		RhythmToleranceMs:   100,
		StreakSweepSchedule: "5 0 * * *",
		SweepWorkerCount:    1,
		SweepQueueSize:      8,
		RateLimitRPS:        5,
		RateLimitBurst:      10,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_NonPositiveAttempts(t *testing.T) {
	cfg := validConfig()
	cfg.MaxAttempts = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_ATTEMPTS must be positive")
}

func TestValidate_BadScheduleAndTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.StreakSweepSchedule = "every tuesday"
	cfg.Timezone = "Mars/Olympus"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STREAK_SWEEP_SCHEDULE is invalid")
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 100.0, cfg.RhythmToleranceMs)
	assert.True(t, cfg.SeedContent)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("MAX_ATTEMPTS", "5")
	t.Setenv("RHYTHM_TOLERANCE_MS", "80")
	t.Setenv("TIMEZONE", "Europe/Lisbon")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 80.0, cfg.RhythmToleranceMs)

	lisbon, err := time.LoadLocation("Europe/Lisbon")
	require.NoError(t, err)
	assert.Equal(t, lisbon.String(), cfg.Location().String())
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("MAX_ATTEMPTS", "three")

	_, err := config.Load()
	assert.Error(t, err)
}
