// Package session drives one multiplayer match through its round sequence:
// the session value itself, the round state machine, the countdown clock,
// the single-submission guard, and presence bookkeeping.
package session

import "partyblitz/internal/transport"

// Player is one roster member. The authoritative score lives server-side;
// Score here is the local mirror updated from score snapshots.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Score       int    `json:"score"`
	Admin       bool   `json:"admin,omitempty"`
	Unreachable bool   `json:"unreachable,omitempty"`
}

// Session is one complete match from first round to final results. It is an
// explicit value handed to the orchestrator; there is no ambient room state.
type Session struct {
	RoomCode     string   `json:"roomCode"`
	GameIDs      []string `json:"gameIds"`
	RoundSeconds int      `json:"roundSeconds"`
	// Wager is the per-player stake. Zero means the flat reward schedule
	// applies; nonzero means the winner takes the whole pot.
	Wager   int64    `json:"wager"`
	Players []Player `json:"players"`
}

// Admin returns the session admin. Exactly one exists at any time.
func (s *Session) Admin() (Player, bool) {
	for _, p := range s.Players {
		if p.Admin {
			return p, true
		}
	}
	return Player{}, false
}

// PlayerByID looks up a roster member.
func (s *Session) PlayerByID(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// ApplyScores folds a server score snapshot into the roster mirror. The
// snapshot wins over any local value; players the snapshot does not mention
// keep their current mirror.
func (s *Session) ApplyScores(snapshot []transport.PlayerScore) {
	byID := make(map[string]int, len(snapshot))
	for _, ps := range snapshot {
		byID[ps.ID] = ps.Score
	}
	for i := range s.Players {
		if score, ok := byID[s.Players[i].ID]; ok {
			s.Players[i].Score = score
		}
	}
}

// Pot returns the total currency at stake for a wagered session.
func (s *Session) Pot() int64 {
	return s.Wager * int64(len(s.Players))
}
