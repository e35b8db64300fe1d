package main

import (
	"testing"

	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwner(t *testing.T) {
	id := uuid.New()

	parsed, err := parseOwner(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = parseOwner("")
	assert.EqualError(t, err, "--owner is required")

	_, err = parseOwner("not-a-uuid")
	assert.Error(t, err)
}

func TestInsightLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, insightLevel(domain.SeverityWarning))
	assert.Equal(t, zerolog.InfoLevel, insightLevel(domain.SeveritySuccess))
	assert.Equal(t, zerolog.InfoLevel, insightLevel(domain.SeverityInfo))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"seed-categories"},
		{"report"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	report, _, err := rootCmd.Find([]string{"report"})
	require.NoError(t, err)
	months, err := report.Flags().GetInt("months")
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardTrendMonths, months)
}

func TestDatabaseURLRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := databaseURL()
	assert.Error(t, err)
}
