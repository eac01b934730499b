// Package authtoken keeps the player's transport credential in the OS
// keychain, with a plain-file fallback for hosts without a system keyring.
package authtoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const keyToken = "token"

// ErrNotFound is returned when no token is stored for the player.
var ErrNotFound = keyring.ErrNotFound

// Store wraps the OS keychain with an optional file fallback.
// Fallback is intended for environments where no system keyring is available.
type Store struct {
	service      string
	fallbackPath string
	mu           sync.Mutex
}

// NewStore creates a keyring wrapper.
func NewStore(serviceName, fallbackPath string) *Store {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = "partyblitz"
	}
	return &Store{
		service:      serviceName,
		fallbackPath: fallbackPath,
	}
}

func (s *Store) key(playerID string) string {
	return fmt.Sprintf("%s/%s", playerID, keyToken)
}

// SetToken stores the bearer token for a player.
func (s *Store) SetToken(playerID, value string) error {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("authtoken: player id is required")
	}

	if err := keyring.Set(s.service, s.key(playerID), value); err == nil {
		return nil
	} else if !isKeyringUnavailable(err) {
		return fmt.Errorf("authtoken: keyring set: %w", err)
	}

	return s.setFallback(playerID, value)
}

// GetToken loads the bearer token for a player.
func (s *Store) GetToken(playerID string) (string, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return "", fmt.Errorf("authtoken: player id is required")
	}

	val, err := keyring.Get(s.service, s.key(playerID))
	if err == nil {
		return val, nil
	}
	if !isKeyringUnavailable(err) && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("authtoken: keyring get: %w", err)
	}

	fallback, ferr := s.getFallback(playerID)
	if ferr == nil {
		return fallback, nil
	}

	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return "", ferr
}

// Delete removes the stored token for a player.
func (s *Store) Delete(playerID string) error {
	err := keyring.Delete(s.service, s.key(playerID))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) && !isKeyringUnavailable(err) {
		// Try fallback cleanup even if keyring delete failed.
		_ = s.deleteFallback(playerID)
		return fmt.Errorf("authtoken: keyring delete: %w", err)
	}
	return s.deleteFallback(playerID)
}

func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "secret service") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "no keychain") ||
		strings.Contains(msg, "keyring backend not available")
}

type fallbackTokens map[string]string

func (s *Store) setFallback(playerID, value string) error {
	if strings.TrimSpace(s.fallbackPath) == "" {
		return fmt.Errorf("authtoken: keyring unavailable and no fallback path configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readFallbackUnlocked()
	if err != nil {
		return err
	}
	data[playerID] = value
	return s.writeFallbackUnlocked(data)
}

func (s *Store) getFallback(playerID string) (string, error) {
	if strings.TrimSpace(s.fallbackPath) == "" {
		return "", fmt.Errorf("authtoken: fallback path not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readFallbackUnlocked()
	if err != nil {
		return "", err
	}
	val, ok := data[playerID]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (s *Store) deleteFallback(playerID string) error {
	if strings.TrimSpace(s.fallbackPath) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readFallbackUnlocked()
	if err != nil {
		return err
	}
	delete(data, playerID)
	return s.writeFallbackUnlocked(data)
}

func (s *Store) readFallbackUnlocked() (fallbackTokens, error) {
	out := fallbackTokens{}
	raw, err := os.ReadFile(s.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("authtoken: read fallback tokens: %w", err)
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("authtoken: decode fallback tokens: %w", err)
	}
	return out, nil
}

func (s *Store) writeFallbackUnlocked(data fallbackTokens) error {
	dir := filepath.Dir(s.fallbackPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("authtoken: mkdir fallback dir: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("authtoken: encode fallback tokens: %w", err)
	}
	if err := os.WriteFile(s.fallbackPath, raw, 0o600); err != nil {
		return fmt.Errorf("authtoken: write fallback tokens: %w", err)
	}
	return nil
}
