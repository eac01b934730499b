package session

import "sync"

// ScoreGuard is the idempotency boundary for score submissions: for the
// lifetime of a session, Admit returns true exactly once per round index.
// Indexes accumulate for the whole session so a stale submission for an
// earlier round can never slip through after the round has moved on.
type ScoreGuard struct {
	mu       sync.Mutex
	admitted map[int]bool
}

// NewScoreGuard returns a guard with no admitted rounds.
func NewScoreGuard() *ScoreGuard {
	return &ScoreGuard{admitted: make(map[int]bool)}
}

// Admit reports whether a submission for roundIndex may proceed. The first
// call for an index returns true; every later call returns false.
func (g *ScoreGuard) Admit(roundIndex int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.admitted[roundIndex] {
		return false
	}
	g.admitted[roundIndex] = true
	return true
}

// Admitted reports whether a submission for roundIndex has been accepted.
func (g *ScoreGuard) Admitted(roundIndex int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.admitted[roundIndex]
}

// Reset clears all admitted rounds. Called when a new session begins.
func (g *ScoreGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.admitted = make(map[int]bool)
}
