package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SERVER_URL", "ws://localhost:3001/ws")
	t.Setenv("ROOM_CODE", "BLITZ1")
	t.Setenv("PLAYER_ID", "p1")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PLAYER_NAME", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "partyblitz.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:8790", cfg.ListenAddr)
	assert.Equal(t, "p1", cfg.PlayerName, "name falls back to id")
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Zero(t, cfg.FeedbackDelayMS)
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_URL", "")
	_, err := Load()
	assert.ErrorContains(t, err, "SERVER_URL")

	setRequired(t)
	t.Setenv("ROOM_CODE", "")
	_, err = Load()
	assert.ErrorContains(t, err, "ROOM_CODE")
}

func TestLoadGeneratesAnonymousPlayerID(t *testing.T) {
	setRequired(t)
	t.Setenv("PLAYER_ID", "")
	t.Setenv("PLAYER_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.PlayerID)
	assert.Equal(t, cfg.PlayerID, cfg.PlayerName)
}

func TestLoadParsesOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FEEDBACK_DELAY_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 250, cfg.FeedbackDelayMS)
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "shouting")
	_, err := Load()
	assert.Error(t, err)

	setRequired(t)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("FEEDBACK_DELAY_MS", "-5")
	_, err = Load()
	assert.Error(t, err)
}
