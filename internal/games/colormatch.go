package games

import (
	"encoding/json"
	"time"
)

const colorMatchFeedback = 700 * time.Millisecond

// ColorMatchGame implements the color naming variant,
// 12 points per correct identification.
type ColorMatchGame struct{}

// Spec returns metadata about the color match game.
func (g *ColorMatchGame) Spec() Spec {
	return Spec{ID: "color_match", Name: "Color Match"}
}

// ColorMatchItem shows a color swatch and asks for its name.
type ColorMatchItem struct {
	DisplayColor string   `json:"displayColor"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer"`
}

type colorMatchPayload struct {
	Rounds []ColorMatchItem `json:"rounds"`
}

// NewRound decodes the payload and returns a playable round.
func (g *ColorMatchGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p colorMatchPayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	env = env.normalized()
	return &ColorMatchRound{
		scorecard: scorecard{env: env},
		gate:      feedbackGate{now: env.Now, delay: env.feedbackDelay(colorMatchFeedback)},
		items:     p.Rounds,
	}, nil
}

// ColorMatchRound is a live color naming round.
type ColorMatchRound struct {
	scorecard
	gate           feedbackGate
	items          []ColorMatchItem
	current        int
	correct        int
	advancePending bool
}

// Spec returns the variant metadata.
func (r *ColorMatchRound) Spec() Spec { return (&ColorMatchGame{}).Spec() }

// Item returns the swatch currently shown, or false when none remains.
func (r *ColorMatchRound) Item() (ColorMatchItem, bool) {
	r.flushAdvance()
	if r.current >= len(r.items) {
		return ColorMatchItem{}, false
	}
	return r.items[r.current], true
}

// Correct returns the running count of correct identifications.
func (r *ColorMatchRound) Correct() int { return r.correct }

// Choose names the current swatch and reports whether it was correct.
func (r *ColorMatchRound) Choose(option string) bool {
	if r.submitted || r.gate.locked() {
		return false
	}
	r.flushAdvance()
	if r.current >= len(r.items) {
		return false
	}
	ok := option == r.items[r.current].Answer
	if ok {
		r.correct++
	}
	if r.current+1 >= len(r.items) {
		r.current++
		r.submit(r.correct * 12)
		return ok
	}
	r.gate.lock()
	r.advancePending = true
	return ok
}

// Expire records partial credit for the swatches named before time ran out.
func (r *ColorMatchRound) Expire() {
	r.submit(r.correct * 12)
}

func (r *ColorMatchRound) flushAdvance() {
	if r.advancePending && !r.gate.locked() {
		r.current++
		r.advancePending = false
	}
}
