package games

import (
	"encoding/json"
	"math"
	"time"
)

// TypingSpeedGame implements the typing accuracy/speed variant. A full match
// of the target text scores min(100, round(wpm * 1.5)); at timeout, partial
// credit is round((correctChars/targetLen) * 80).
type TypingSpeedGame struct{}

// Spec returns metadata about the typing speed game.
func (g *TypingSpeedGame) Spec() Spec {
	return Spec{ID: "typing_speed", Name: "Typing Speed"}
}

type typingSpeedPayload struct {
	Text string `json:"text"`
}

// NewRound decodes the payload and returns a playable round.
func (g *TypingSpeedGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p typingSpeedPayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	if p.Text == "" {
		return nil, errMissingField(g.Spec().ID, "text")
	}
	env = env.normalized()
	return &TypingSpeedRound{
		scorecard: scorecard{env: env},
		target:    []rune(p.Text),
		startedAt: env.Now(),
	}, nil
}

// TypingSpeedRound is a live typing round.
type TypingSpeedRound struct {
	scorecard
	target    []rune
	typed     []rune
	startedAt time.Time
	done      bool
}

// Spec returns the variant metadata.
func (r *TypingSpeedRound) Spec() Spec { return (&TypingSpeedGame{}).Spec() }

// Target returns the text the player must reproduce.
func (r *TypingSpeedRound) Target() string { return string(r.target) }

// Done reports whether the full text has been matched.
func (r *TypingSpeedRound) Done() bool { return r.done }

// CorrectChars counts positions where the typed text matches the target.
func (r *TypingSpeedRound) CorrectChars() int {
	n := 0
	for i, c := range r.typed {
		if i < len(r.target) && r.target[i] == c {
			n++
		}
	}
	return n
}

// Type replaces the typed buffer with the player's current input. When the
// buffer matches the target exactly, the round finishes and the speed score
// is recorded.
func (r *TypingSpeedRound) Type(text string) {
	if r.submitted || r.done {
		return
	}
	r.typed = []rune(text)
	if string(r.typed) != string(r.target) {
		return
	}
	r.done = true
	elapsed := r.env.Now().Sub(r.startedAt).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}
	wpm := math.Round(float64(len(r.target)) / 5 / (elapsed / 60))
	score := int(math.Round(wpm * 1.5))
	if score > 100 {
		score = 100
	}
	r.submit(score)
}

// Expire records accuracy-based partial credit for the characters typed
// correctly before time ran out.
func (r *TypingSpeedRound) Expire() {
	score := int(math.Round(float64(r.CorrectChars()) / float64(len(r.target)) * 80))
	r.submit(score)
}
