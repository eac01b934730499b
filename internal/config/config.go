// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds everything the client needs to join and play a session.
type Config struct {
	// ServerURL is the websocket endpoint of the game server.
	ServerURL string
	// RoomCode identifies the session to join.
	RoomCode string
	// PlayerID and PlayerName identify the local player.
	PlayerID   string
	PlayerName string
	// DBPath is the SQLite file holding the player document.
	DBPath string
	// ListenAddr is where the local debug API binds. Empty disables it.
	ListenAddr string
	// KeyringService names the keychain entry group for the auth token.
	KeyringService string
	// TokenFallbackPath is the file the token store falls back to when no
	// system keyring is available.
	TokenFallbackPath string
	// LogLevel is a zerolog level name: debug, info, warn, error.
	LogLevel zerolog.Level
	// FeedbackDelayMS overrides the per-item feedback window of every
	// mini-game. Zero keeps each variant's default.
	FeedbackDelayMS int
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerURL:         os.Getenv("SERVER_URL"),
		RoomCode:          os.Getenv("ROOM_CODE"),
		PlayerID:          os.Getenv("PLAYER_ID"),
		PlayerName:        os.Getenv("PLAYER_NAME"),
		DBPath:            envOr("DB_PATH", "partyblitz.db"),
		ListenAddr:        envOr("LISTEN_ADDR", "127.0.0.1:8790"),
		KeyringService:    envOr("KEYRING_SERVICE", "partyblitz"),
		TokenFallbackPath: os.Getenv("TOKEN_FALLBACK_PATH"),
		LogLevel:          zerolog.InfoLevel,
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := zerolog.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", lvl, err)
		}
		cfg.LogLevel = parsed
	}
	if raw := os.Getenv("FEEDBACK_DELAY_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("config: invalid FEEDBACK_DELAY_MS %q", raw)
		}
		cfg.FeedbackDelayMS = ms
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("config: SERVER_URL is required")
	}
	if cfg.RoomCode == "" {
		return nil, fmt.Errorf("config: ROOM_CODE is required")
	}
	if cfg.PlayerID == "" {
		// Anonymous identity: a fresh id for this run, like a guest login.
		cfg.PlayerID = uuid.NewString()
	}
	if cfg.PlayerName == "" {
		cfg.PlayerName = cfg.PlayerID
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
