package games

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// LogicPuzzleGame implements the riddle variant: one free-text guess,
// flat 50 points without the hint, 30 with it, 0 otherwise.
type LogicPuzzleGame struct{}

// Spec returns metadata about the logic puzzle game.
func (g *LogicPuzzleGame) Spec() Spec {
	return Spec{ID: "logic_puzzle", Name: "Logic Puzzle"}
}

// LogicPuzzle is one riddle with its expected answer and an optional hint.
type LogicPuzzle struct {
	Q      string `json:"q"`
	Answer string `json:"answer"`
	Hint   string `json:"hint"`
}

type logicPuzzlePayload struct {
	Puzzle LogicPuzzle `json:"puzzle"`
}

// NewRound decodes the payload and returns a playable round.
func (g *LogicPuzzleGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p logicPuzzlePayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	return &LogicPuzzleRound{
		scorecard: scorecard{env: env.normalized()},
		puzzle:    p.Puzzle,
	}, nil
}

// LogicPuzzleRound is a live riddle round.
type LogicPuzzleRound struct {
	scorecard
	puzzle   LogicPuzzle
	hintUsed bool
	resolved bool
	solved   bool
}

// Spec returns the variant metadata.
func (r *LogicPuzzleRound) Spec() Spec { return (&LogicPuzzleGame{}).Spec() }

// Hint reveals the hint, reducing the solve reward from 50 to 30.
func (r *LogicPuzzleRound) Hint() string {
	if !r.submitted && !r.resolved {
		r.hintUsed = true
	}
	return r.puzzle.Hint
}

// HintUsed reports whether the hint has been revealed.
func (r *LogicPuzzleRound) HintUsed() bool { return r.hintUsed }

// Guess checks the player's single attempt. Matching is deliberately
// lenient: case-insensitive substring containment in either direction.
// Guesses shorter than two runes are rejected outright so a trivial
// fragment cannot ride the containment check. A wrong guess ends the
// attempt; the round then scores 0 at timeout.
func (r *LogicPuzzleRound) Guess(answer string) bool {
	if r.submitted || r.resolved {
		return false
	}
	guess := strings.ToLower(strings.TrimSpace(answer))
	if utf8.RuneCountInString(guess) < 2 {
		return false
	}
	want := strings.ToLower(strings.TrimSpace(r.puzzle.Answer))
	r.resolved = true
	r.solved = strings.Contains(guess, want) || strings.Contains(want, guess)
	if r.solved {
		if r.hintUsed {
			r.submit(30)
		} else {
			r.submit(50)
		}
	}
	return r.solved
}

// Expire records 0 when the riddle was not solved in time. Partial text
// input has no defined partial credit.
func (r *LogicPuzzleRound) Expire() {
	r.submit(0)
}
