package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DATABASE_URL", "postgres://localhost/pixelforge_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SESSION_SECRET", "test-session-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, 3, cfg.AnonymousDailyLimit)
	assert.Equal(t, 5, cfg.GenerationCost)
	assert.Equal(t, 5, cfg.RemixCost)
	assert.Equal(t, 30, cfg.DailyBonusAmount)
	assert.Equal(t, 50, cfg.SignupBonusAmount)
	assert.Empty(t, cfg.ExemptActors)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := LoadEnvironmentVariables()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("ANON_DAILY_LIMIT", "10")
	t.Setenv("EXEMPT_ACTORS", " acct-internal, 10.0.0.1 ,,")

	cfg, err := LoadEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, 10, cfg.AnonymousDailyLimit)
	assert.Equal(t, []string{"acct-internal", "10.0.0.1"}, cfg.ExemptActors)
}

func TestLoad_MalformedIntsFallBackToDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GENERATION_COST", "five")
	t.Setenv("REMIX_COST", "-2")

	cfg, err := LoadEnvironmentVariables()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.GenerationCost, "malformed value falls back to default")
	assert.Equal(t, 5, cfg.RemixCost, "negative value falls back to default")
}
