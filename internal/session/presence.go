package session

import (
	"sort"
	"sync"
)

// PresenceMonitor tracks roster members the server flagged unreachable.
// Purely informational: it never affects scoring or round progression.
// Entries accumulate; un-marking is the server's job via a fresh roster.
type PresenceMonitor struct {
	mu          sync.Mutex
	unreachable map[string]bool
}

// NewPresenceMonitor returns an empty monitor.
func NewPresenceMonitor() *PresenceMonitor {
	return &PresenceMonitor{unreachable: make(map[string]bool)}
}

// MarkUnreachable records that the server lost contact with a player.
func (m *PresenceMonitor) MarkUnreachable(playerID string) {
	m.mu.Lock()
	m.unreachable[playerID] = true
	m.mu.Unlock()
}

// IsUnreachable reports whether a player has been flagged.
func (m *PresenceMonitor) IsUnreachable(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unreachable[playerID]
}

// Unreachable returns all flagged player ids, sorted for stable display.
func (m *PresenceMonitor) Unreachable() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.unreachable))
	for id := range m.unreachable {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
