package config_test

import (
	"os"
	"testing"

	"salon-billing/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env
	t.Setenv("DATABASE_URL", "postgres://localhost/salon")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("BUSINESS_TIMEZONE", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/salon", cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.StrictStock)
	assert.Equal(t, 100, cfg.MonthlyStarGoal)
	assert.Equal(t, int64(1<<20), cfg.BodyLimit)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "Development")
	t.Setenv("BUSINESS_TIMEZONE", "Asia/Kolkata")
	t.Setenv("STRICT_STOCK", "true")
	t.Setenv("DEFAULT_MONTHLY_STAR_GOAL", "250")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.Development())
	assert.True(t, cfg.StrictStock)
	assert.Equal(t, 250, cfg.MonthlyStarGoal)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_RejectsBadTimezone(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BUSINESS_TIMEZONE", "Mars/Olympus")

	_, err := config.Load()
	assert.ErrorContains(t, err, "BUSINESS_TIMEZONE")
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
