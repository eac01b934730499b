package games

import (
	"encoding/json"
	"time"
)

const oddOneOutFeedback = time.Second

// OddOneOutGame implements the odd-one-out variant,
// 20 points per correct identification.
type OddOneOutGame struct{}

// Spec returns metadata about the odd one out game.
func (g *OddOneOutGame) Spec() Spec {
	return Spec{ID: "odd_one_out", Name: "Odd One Out"}
}

// OddOneOutItem is one group of items of which exactly one does not belong.
type OddOneOutItem struct {
	Items  []string `json:"items"`
	Odd    int      `json:"odd"`
	Reason string   `json:"reason"`
}

type oddOneOutPayload struct {
	Rounds []OddOneOutItem `json:"rounds"`
}

// NewRound decodes the payload and returns a playable round.
func (g *OddOneOutGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p oddOneOutPayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	env = env.normalized()
	return &OddOneOutRound{
		scorecard: scorecard{env: env},
		gate:      feedbackGate{now: env.Now, delay: env.feedbackDelay(oddOneOutFeedback)},
		items:     p.Rounds,
	}, nil
}

// OddOneOutRound is a live odd-one-out round.
type OddOneOutRound struct {
	scorecard
	gate           feedbackGate
	items          []OddOneOutItem
	current        int
	correct        int
	advancePending bool
}

// Spec returns the variant metadata.
func (r *OddOneOutRound) Spec() Spec { return (&OddOneOutGame{}).Spec() }

// Item returns the group currently shown, or false when none remains.
func (r *OddOneOutRound) Item() (OddOneOutItem, bool) {
	r.flushAdvance()
	if r.current >= len(r.items) {
		return OddOneOutItem{}, false
	}
	return r.items[r.current], true
}

// Correct returns the running count of correct identifications.
func (r *OddOneOutRound) Correct() int { return r.correct }

// Choose picks index i as the odd item and reports whether it was correct.
func (r *OddOneOutRound) Choose(i int) bool {
	if r.submitted || r.gate.locked() {
		return false
	}
	r.flushAdvance()
	if r.current >= len(r.items) {
		return false
	}
	ok := i == r.items[r.current].Odd
	if ok {
		r.correct++
	}
	if r.current+1 >= len(r.items) {
		r.current++
		r.submit(r.correct * 20)
		return ok
	}
	r.gate.lock()
	r.advancePending = true
	return ok
}

// Expire records partial credit for the identifications before time ran out.
func (r *OddOneOutRound) Expire() {
	r.submit(r.correct * 20)
}

func (r *OddOneOutRound) flushAdvance() {
	if r.advancePending && !r.gate.locked() {
		r.current++
		r.advancePending = false
	}
}
