package games

import (
	"encoding/json"
	"time"
)

const triviaFeedback = 1200 * time.Millisecond

// TriviaGame implements the multiple-choice trivia variant,
// 20 points per correct answer.
type TriviaGame struct{}

// Spec returns metadata about the trivia game.
func (g *TriviaGame) Spec() Spec {
	return Spec{ID: "trivia", Name: "Trivia"}
}

// TriviaQuestion is one multiple-choice item; Answer is the index of the
// correct option.
type TriviaQuestion struct {
	Q       string   `json:"q"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

type triviaPayload struct {
	Questions []TriviaQuestion `json:"questions"`
}

// NewRound decodes the payload and returns a playable round.
func (g *TriviaGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p triviaPayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	env = env.normalized()
	return &TriviaRound{
		scorecard: scorecard{env: env},
		gate:      feedbackGate{now: env.Now, delay: env.feedbackDelay(triviaFeedback)},
		questions: p.Questions,
	}, nil
}

// TriviaRound is a live trivia round.
type TriviaRound struct {
	scorecard
	gate           feedbackGate
	questions      []TriviaQuestion
	current        int
	correct        int
	advancePending bool
}

// Spec returns the variant metadata.
func (r *TriviaRound) Spec() Spec { return (&TriviaGame{}).Spec() }

// Question returns the item currently shown, or false when none remains.
func (r *TriviaRound) Question() (TriviaQuestion, bool) {
	r.flushAdvance()
	if r.current >= len(r.questions) {
		return TriviaQuestion{}, false
	}
	return r.questions[r.current], true
}

// Correct returns the running count of correct answers.
func (r *TriviaRound) Correct() int { return r.correct }

// Choose selects option i for the current question and reports whether it
// was the correct one.
func (r *TriviaRound) Choose(i int) bool {
	if r.submitted || r.gate.locked() {
		return false
	}
	r.flushAdvance()
	if r.current >= len(r.questions) {
		return false
	}
	ok := i == r.questions[r.current].Answer
	if ok {
		r.correct++
	}
	if r.current+1 >= len(r.questions) {
		r.current++
		r.submit(r.correct * 20)
		return ok
	}
	r.gate.lock()
	r.advancePending = true
	return ok
}

// Expire records partial credit for the answers given before time ran out.
func (r *TriviaRound) Expire() {
	r.submit(r.correct * 20)
}

func (r *TriviaRound) flushAdvance() {
	if r.advancePending && !r.gate.locked() {
		r.current++
		r.advancePending = false
	}
}
