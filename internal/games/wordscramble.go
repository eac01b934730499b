package games

import (
	"encoding/json"
	"math"
	"strings"
)

// WordScrambleGame implements the unscramble variant: a single exact-match
// guess, scored by remaining time; unsolved rounds score 0.
type WordScrambleGame struct{}

// Spec returns metadata about the word scramble game.
func (g *WordScrambleGame) Spec() Spec {
	return Spec{ID: "word_scramble", Name: "Word Scramble"}
}

type wordScramblePayload struct {
	Word      string `json:"word"`
	Scrambled string `json:"scrambled"`
}

// NewRound decodes the payload and returns a playable round.
func (g *WordScrambleGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p wordScramblePayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	if p.Word == "" {
		return nil, errMissingField(g.Spec().ID, "word")
	}
	return &WordScrambleRound{
		scorecard: scorecard{env: env.normalized()},
		word:      p.Word,
		scrambled: p.Scrambled,
	}, nil
}

// WordScrambleRound is a live unscramble round.
type WordScrambleRound struct {
	scorecard
	word      string
	scrambled string
	resolved  bool
	solved    bool
}

// Spec returns the variant metadata.
func (r *WordScrambleRound) Spec() Spec { return (&WordScrambleGame{}).Spec() }

// Scrambled returns the shuffled letters shown to the player.
func (r *WordScrambleRound) Scrambled() string { return r.scrambled }

// Guess checks the player's single attempt against the target word.
// Solved rounds score round((timeLeft/30)*80) + 20.
func (r *WordScrambleRound) Guess(answer string) bool {
	if r.submitted || r.resolved {
		return false
	}
	guess := strings.TrimSpace(answer)
	if guess == "" {
		return false
	}
	r.resolved = true
	r.solved = guess == r.word
	if r.solved {
		left := r.env.TimeLeft()
		r.submit(int(math.Round(float64(left)/30*80)) + 20)
	}
	return r.solved
}

// Expire records 0; partial letters carry no defined partial credit.
func (r *WordScrambleRound) Expire() {
	r.submit(0)
}
