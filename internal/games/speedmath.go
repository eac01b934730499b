package games

import (
	"encoding/json"
	"time"
)

const speedMathFeedback = 600 * time.Millisecond

// SpeedMathGame implements the arithmetic speed variant: a fixed question
// list answered progressively, 10 points per correct answer.
type SpeedMathGame struct{}

// Spec returns metadata about the speed math game.
func (g *SpeedMathGame) Spec() Spec {
	return Spec{ID: "speed_math", Name: "Speed Math"}
}

// SpeedMathQuestion is one arithmetic item. The expected answer ships with
// the payload; the server owns question generation.
type SpeedMathQuestion struct {
	A      int    `json:"a"`
	B      int    `json:"b"`
	Op     string `json:"op"`
	Answer int    `json:"answer"`
}

type speedMathPayload struct {
	Questions []SpeedMathQuestion `json:"questions"`
}

// NewRound decodes the payload and returns a playable round.
func (g *SpeedMathGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p speedMathPayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	env = env.normalized()
	return &SpeedMathRound{
		scorecard: scorecard{env: env},
		gate:      feedbackGate{now: env.Now, delay: env.feedbackDelay(speedMathFeedback)},
		questions: p.Questions,
	}, nil
}

// SpeedMathRound is a live speed math round.
type SpeedMathRound struct {
	scorecard
	gate           feedbackGate
	questions      []SpeedMathQuestion
	current        int
	correct        int
	advancePending bool
}

// Spec returns the variant metadata.
func (r *SpeedMathRound) Spec() Spec { return (&SpeedMathGame{}).Spec() }

// Question returns the item currently shown, or false when none remains.
func (r *SpeedMathRound) Question() (SpeedMathQuestion, bool) {
	r.flushAdvance()
	if r.current >= len(r.questions) {
		return SpeedMathQuestion{}, false
	}
	return r.questions[r.current], true
}

// Correct returns the running count of correct answers.
func (r *SpeedMathRound) Correct() int { return r.correct }

// Answer submits the player's value for the current question and reports
// whether it was correct. Input during the feedback window or after the
// round's score is recorded is inert.
func (r *SpeedMathRound) Answer(value int) bool {
	if r.submitted || r.gate.locked() {
		return false
	}
	r.flushAdvance()
	if r.current >= len(r.questions) {
		return false
	}
	ok := value == r.questions[r.current].Answer
	if ok {
		r.correct++
	}
	if r.current+1 >= len(r.questions) {
		r.current++
		r.submit(r.correct * 10)
		return ok
	}
	r.gate.lock()
	r.advancePending = true
	return ok
}

// Expire records partial credit for the answers given before time ran out.
func (r *SpeedMathRound) Expire() {
	r.submit(r.correct * 10)
}

func (r *SpeedMathRound) flushAdvance() {
	if r.advancePending && !r.gate.locked() {
		r.current++
		r.advancePending = false
	}
}
