// Package profile persists the local player's document: identity, coin
// balance, accumulated experience, and lifetime match statistics.
package profile

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no document exists for a player id.
var ErrNotFound = errors.New("profile: player not found")

// InitialCoins is the balance a brand-new player document starts with.
var InitialCoins = decimal.NewFromInt(1000)

// Store represents the player document storage interface.
type Store interface {
	Close() error
	Migrate() error
	GetPlayer(id string) (*PlayerDoc, error)
	PutPlayer(doc *PlayerDoc) error
	// GetOrCreatePlayer loads the document, creating it with the initial
	// defaults on first sight of the id.
	GetOrCreatePlayer(id, name string) (*PlayerDoc, error)
	// ApplyMatchOutcome merges one finished match into the document and
	// returns the updated state.
	ApplyMatchOutcome(id string, outcome MatchOutcome) (*PlayerDoc, error)
}

// PlayerDoc is one player's persistent document.
type PlayerDoc struct {
	ID           string          `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Avatar       string          `json:"avatar" db:"avatar"`
	Coins        decimal.Decimal `json:"coins" db:"coins"`
	XP           int             `json:"xp" db:"xp"`
	TotalMatches int             `json:"totalMatches" db:"total_matches"`
	TotalScore   int             `json:"totalScore" db:"total_score"`
	FirstPlace   int             `json:"firstPlace" db:"first_place"`
	SecondPlace  int             `json:"secondPlace" db:"second_place"`
	ThirdPlace   int             `json:"thirdPlace" db:"third_place"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// MatchOutcome is the delta one finished match contributes to a document.
// Rank is 0-based; only the top three ranks bump a place counter.
type MatchOutcome struct {
	Rank  int             `json:"rank"`
	Score int             `json:"score"`
	XP    int             `json:"xp"`
	Coins decimal.Decimal `json:"coins"`
}
