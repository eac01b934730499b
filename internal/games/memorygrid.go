package games

import (
	"encoding/json"
	"time"
)

const memoryMismatchDelay = 800 * time.Millisecond

// MemoryGridGame implements the memory pairs variant: flip two cards per
// move, match by symbol. Full completion scores max(10, 100 - moves*5);
// timeout scores max(0, matchedPairs*15 - moves*2).
type MemoryGridGame struct{}

// Spec returns metadata about the memory grid game.
func (g *MemoryGridGame) Spec() Spec {
	return Spec{ID: "memory_grid", Name: "Memory Grid"}
}

// MemoryCard is one face-down card in the grid.
type MemoryCard struct {
	ID     int    `json:"id"`
	Symbol string `json:"emoji"`
}

type memoryGridPayload struct {
	Cards []MemoryCard `json:"cards"`
}

// NewRound decodes the payload and returns a playable round.
func (g *MemoryGridGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p memoryGridPayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	env = env.normalized()
	byID := make(map[int]MemoryCard, len(p.Cards))
	for _, c := range p.Cards {
		byID[c.ID] = c
	}
	return &MemoryGridRound{
		scorecard: scorecard{env: env},
		gate:      feedbackGate{now: env.Now, delay: env.feedbackDelay(memoryMismatchDelay)},
		cards:     byID,
		total:     len(p.Cards),
		matched:   make(map[int]bool),
	}, nil
}

// MemoryGridRound is a live memory pairs round.
type MemoryGridRound struct {
	scorecard
	gate    feedbackGate
	cards   map[int]MemoryCard
	total   int
	flipped []int
	matched map[int]bool
	moves   int
}

// Spec returns the variant metadata.
func (r *MemoryGridRound) Spec() Spec { return (&MemoryGridGame{}).Spec() }

// Moves returns the number of completed two-card moves.
func (r *MemoryGridRound) Moves() int { return r.moves }

// MatchedPairs returns how many pairs have been matched so far.
func (r *MemoryGridRound) MatchedPairs() int { return len(r.matched) / 2 }

// Flip turns card id face up. The second flip of a move either matches the
// pair or shows both cards for a short window before they turn back.
// Reports whether the flip registered.
func (r *MemoryGridRound) Flip(id int) bool {
	if r.submitted {
		return false
	}
	if r.gate.locked() {
		return false
	}
	// A failed pair stays visible until the gate expires, then turns back.
	if len(r.flipped) == 2 {
		r.flipped = r.flipped[:0]
	}
	if _, ok := r.cards[id]; !ok {
		return false
	}
	if r.matched[id] || (len(r.flipped) == 1 && r.flipped[0] == id) {
		return false
	}
	r.flipped = append(r.flipped, id)
	if len(r.flipped) < 2 {
		return true
	}

	r.moves++
	a, b := r.cards[r.flipped[0]], r.cards[r.flipped[1]]
	if a.Symbol != b.Symbol {
		r.gate.lock()
		return true
	}
	r.matched[a.ID] = true
	r.matched[b.ID] = true
	r.flipped = r.flipped[:0]
	if len(r.matched) == r.total {
		score := 100 - r.moves*5
		if score < 10 {
			score = 10
		}
		r.submit(score)
	}
	return true
}

// Expire records partial credit for the pairs matched before time ran out.
func (r *MemoryGridRound) Expire() {
	score := r.MatchedPairs()*15 - r.moves*2
	if score < 0 {
		score = 0
	}
	r.submit(score)
}
