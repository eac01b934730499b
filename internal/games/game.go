// Package games holds the mini-game contract and its ten variants. Every
// variant decodes its own round payload, consumes player input through typed
// methods on its round instance, and reports exactly one score per round
// through the submit callback.
package games

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Spec returns metadata about a mini-game variant.
type Spec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubmitFunc delivers the single score for a round. Calling it more than
// once per round is a no-op; the scorecard enforces that locally and the
// session-level guard enforces it again at the boundary.
type SubmitFunc func(points int)

// Env is the slice of the session a round instance is allowed to see:
// the submit callback, the shared countdown, and a time source. The zero
// value is usable; missing fields fall back to safe defaults.
type Env struct {
	Submit   SubmitFunc
	TimeLeft func() int
	Now      func() time.Time

	// FeedbackDelay overrides the variant's per-item feedback window.
	// Zero keeps the variant default.
	FeedbackDelay time.Duration
}

func (e Env) normalized() Env {
	if e.Submit == nil {
		e.Submit = func(int) {}
	}
	if e.TimeLeft == nil {
		e.TimeLeft = func() int { return 0 }
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	return e
}

func (e Env) feedbackDelay(def time.Duration) time.Duration {
	if e.FeedbackDelay > 0 {
		return e.FeedbackDelay
	}
	return def
}

// Round is a live instance of a mini-game for a single round.
// Variant-specific input methods live on the concrete types.
type Round interface {
	Spec() Spec
	// Submitted reports whether this round's score has been recorded.
	// Once true, all further input is inert.
	Submitted() bool
	// Expire is invoked when the round clock reaches zero. The instance
	// must record a terminal score for the work done so far; variants
	// without a defined partial credit submit 0.
	Expire()
}

// Game builds round instances from an opaque round payload.
type Game interface {
	Spec() Spec
	NewRound(payload json.RawMessage, env Env) (Round, error)
}

// Registry of all known variants, keyed by id. Closed set; populated at init.
var registry = make(map[string]Game)

func register(g Game) {
	registry[g.Spec().ID] = g
}

// Get returns the registered game for an id.
func Get(id string) (Game, bool) {
	g, ok := registry[id]
	return g, ok
}

// ListGames returns the specs of all registered variants, sorted by id.
func ListGames() []Spec {
	specs := make([]Spec, 0, len(registry))
	for _, g := range registry {
		specs = append(specs, g.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })
	return specs
}

func init() {
	register(&SpeedMathGame{})
	register(&TriviaGame{})
	register(&MemoryGridGame{})
	register(&ReactionClickGame{})
	register(&LogicPuzzleGame{})
	register(&WordScrambleGame{})
	register(&ColorMatchGame{})
	register(&PatternRecGame{})
	register(&TypingSpeedGame{})
	register(&OddOneOutGame{})
}

func decodePayload(payload json.RawMessage, id string, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%s: empty round payload", id)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%s: decode round payload: %w", id, err)
	}
	return nil
}

func errMissingField(id, field string) error {
	return fmt.Errorf("%s: round payload missing %q", id, field)
}

// scorecard is the shared single-submission bookkeeping embedded by every
// round instance.
type scorecard struct {
	env       Env
	submitted bool
	points    int
}

func (s *scorecard) submit(points int) {
	if s.submitted {
		return
	}
	s.submitted = true
	s.points = points
	s.env.Submit(points)
}

// Submitted reports whether the round's score has been recorded.
func (s *scorecard) Submitted() bool { return s.submitted }

// Points returns the recorded score. Only meaningful once Submitted is true.
func (s *scorecard) Points() int { return s.points }

// feedbackGate models the short non-interruptible window after an answered
// item during which feedback is shown and input is inert.
type feedbackGate struct {
	now   func() time.Time
	delay time.Duration
	until time.Time
}

func (g *feedbackGate) locked() bool {
	return g.now().Before(g.until)
}

func (g *feedbackGate) lock() {
	g.until = g.now().Add(g.delay)
}
