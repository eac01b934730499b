package games

import (
	"encoding/json"
	"time"
)

const patternRecFeedback = 800 * time.Millisecond

// PatternRecGame implements the numeric pattern completion variant,
// 20 points per correct completion.
type PatternRecGame struct{}

// Spec returns metadata about the pattern recognition game.
func (g *PatternRecGame) Spec() Spec {
	return Spec{ID: "pattern_rec", Name: "Pattern Recognition"}
}

// Pattern is one numeric sequence whose next element must be supplied.
type Pattern struct {
	Sequence []int `json:"sequence"`
	Answer   int   `json:"answer"`
}

type patternRecPayload struct {
	Patterns []Pattern `json:"patterns"`
}

// NewRound decodes the payload and returns a playable round.
func (g *PatternRecGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p patternRecPayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	env = env.normalized()
	return &PatternRecRound{
		scorecard: scorecard{env: env},
		gate:      feedbackGate{now: env.Now, delay: env.feedbackDelay(patternRecFeedback)},
		patterns:  p.Patterns,
	}, nil
}

// PatternRecRound is a live pattern completion round.
type PatternRecRound struct {
	scorecard
	gate           feedbackGate
	patterns       []Pattern
	current        int
	correct        int
	advancePending bool
}

// Spec returns the variant metadata.
func (r *PatternRecRound) Spec() Spec { return (&PatternRecGame{}).Spec() }

// Pattern returns the sequence currently shown, or false when none remains.
func (r *PatternRecRound) Pattern() (Pattern, bool) {
	r.flushAdvance()
	if r.current >= len(r.patterns) {
		return Pattern{}, false
	}
	return r.patterns[r.current], true
}

// Correct returns the running count of correct completions.
func (r *PatternRecRound) Correct() int { return r.correct }

// Answer supplies the next element for the current sequence and reports
// whether it was correct.
func (r *PatternRecRound) Answer(value int) bool {
	if r.submitted || r.gate.locked() {
		return false
	}
	r.flushAdvance()
	if r.current >= len(r.patterns) {
		return false
	}
	ok := value == r.patterns[r.current].Answer
	if ok {
		r.correct++
	}
	if r.current+1 >= len(r.patterns) {
		r.current++
		r.submit(r.correct * 20)
		return ok
	}
	r.gate.lock()
	r.advancePending = true
	return ok
}

// Expire records partial credit for the completions before time ran out.
func (r *PatternRecRound) Expire() {
	r.submit(r.correct * 20)
}

func (r *PatternRecRound) flushAdvance() {
	if r.advancePending && !r.gate.locked() {
		r.current++
		r.advancePending = false
	}
}
