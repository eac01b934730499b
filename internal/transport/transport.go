// Package transport is the boundary to the room-scoped message channel.
// The core consumes inbound room/round notifications and emits a single
// outbound message kind: the round score submission.
package transport

import "encoding/json"

// Wire event names.
const (
	EventRoundStart    = "game:round_start"
	EventScoresUpdated = "room:scores_updated"
	EventResults       = "game:results"
	EventPlayerOffline = "room:player_offline"
	EventSubmitScore   = "game:submit_score"
)

// Envelope is the JSON frame every message travels in.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RoundStart announces a new round. RoundData is opaque to the transport;
// only the selected mini-game knows its shape.
type RoundStart struct {
	RoundIndex  int             `json:"roundIndex"`
	GameID      string          `json:"gameId"`
	Duration    int             `json:"duration"`
	TotalRounds int             `json:"totalRounds"`
	RoundData   json.RawMessage `json:"roundData"`
}

// PlayerScore is one roster entry in a server score snapshot.
type PlayerScore struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ScoresUpdated carries the server's current per-player scores.
type ScoresUpdated struct {
	Players []PlayerScore `json:"players"`
}

// Results carries the final per-player score list for the session.
type Results struct {
	Players  []PlayerScore `json:"players"`
	RoomCode string        `json:"roomCode,omitempty"`
}

// PlayerOffline flags a roster member the server lost contact with.
type PlayerOffline struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// SubmitScore is the single outbound message of the core. The server
// attributes it to the active round.
type SubmitScore struct {
	RoomCode string `json:"roomCode"`
	Points   int    `json:"points"`
}

// Event is one decoded inbound notification; exactly one field is set,
// matching Kind.
type Event struct {
	Kind       string
	RoundStart *RoundStart
	Scores     *ScoresUpdated
	Results    *Results
	Offline    *PlayerOffline
}

// Channel is the room-scoped message channel the orchestrator runs on.
type Channel interface {
	// Events yields decoded inbound notifications. The channel closes when
	// the connection is torn down.
	Events() <-chan Event
	// SubmitScore emits the outbound score message. Fire and forget: a
	// write failure is reported but never retried here.
	SubmitScore(roomCode string, points int) error
	Close() error
}
