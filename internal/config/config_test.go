package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fintrack")
	t.Setenv("AUTH0_DOMAIN", "fintrack.eu.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "https://api.fintrack.app")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.True(t, cfg.MigrateOnStart)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("METRICS_ENABLED", "0")
	t.Setenv("CORS_ORIGINS", "https://app.fintrack.app, https://admin.fintrack.app,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.False(t, cfg.MigrateOnStart)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://app.fintrack.app", "https://admin.fintrack.app"}, cfg.CORSOrigins)
}

func TestLoad_UnparsableNumbersFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("MIGRATE_ON_START", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.True(t, cfg.MigrateOnStart)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{"database", "DATABASE_URL", "DATABASE_URL is required"},
		{"domain", "AUTH0_DOMAIN", "AUTH0_DOMAIN is required"},
		{"audience", "AUTH0_AUDIENCE", "AUTH0_AUDIENCE is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_RejectsNonPositiveRateLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_BURST", "-1")

	_, err := Load()
	assert.EqualError(t, err, "RATE_LIMIT_BURST must be positive")
}
