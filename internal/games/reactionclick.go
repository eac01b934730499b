package games

import (
	"encoding/json"
	"math"
	"time"
)

const reactionRestDelay = 800 * time.Millisecond

// ReactionClickGame implements the reaction time variant: a fixed series of
// trials, each arming after a payload-defined delay. The score is
// max(0, round(100 - averageReactionMs/20)), recorded at round timeout.
type ReactionClickGame struct{}

// Spec returns metadata about the reaction click game.
func (g *ReactionClickGame) Spec() Spec {
	return Spec{ID: "reaction_click", Name: "Reaction Click"}
}

type reactionClickPayload struct {
	// DelayMs holds per-trial arming delays in milliseconds.
	DelayMs []int `json:"delays"`
}

// NewRound decodes the payload and returns a playable round.
func (g *ReactionClickGame) NewRound(payload json.RawMessage, env Env) (Round, error) {
	var p reactionClickPayload
	if err := decodePayload(payload, g.Spec().ID, &p); err != nil {
		return nil, err
	}
	env = env.normalized()
	r := &ReactionClickRound{
		scorecard: scorecard{env: env},
		rest:      env.feedbackDelay(reactionRestDelay),
		delays:    p.DelayMs,
	}
	if len(r.delays) > 0 {
		r.readyAt = env.Now().Add(time.Duration(r.delays[0]) * time.Millisecond)
	} else {
		r.done = true
	}
	return r, nil
}

// ReactionClickRound is a live reaction time round.
type ReactionClickRound struct {
	scorecard
	rest    time.Duration
	delays  []int
	trial   int
	readyAt time.Time
	done    bool
	samples []int
}

// Spec returns the variant metadata.
func (r *ReactionClickRound) Spec() Spec { return (&ReactionClickGame{}).Spec() }

// Samples returns the recorded reaction times in milliseconds.
func (r *ReactionClickRound) Samples() []int { return r.samples }

// Done reports whether all trials have been completed.
func (r *ReactionClickRound) Done() bool { return r.done }

// Click registers a press. Pressing before the trial arms is ignored;
// pressing after records the reaction time and schedules the next trial.
func (r *ReactionClickRound) Click() bool {
	if r.submitted || r.done {
		return false
	}
	now := r.env.Now()
	if now.Before(r.readyAt) {
		// Too early; the trial is still arming.
		return false
	}
	rt := int(now.Sub(r.readyAt) / time.Millisecond)
	r.samples = append(r.samples, rt)
	r.trial++
	if r.trial >= len(r.delays) {
		r.done = true
		return true
	}
	r.readyAt = now.Add(r.rest + time.Duration(r.delays[r.trial])*time.Millisecond)
	return true
}

// Expire records the score from the average of the completed trials.
// A round with no completed trials scores 0.
func (r *ReactionClickRound) Expire() {
	avg := 9999.0
	if len(r.samples) > 0 {
		sum := 0
		for _, s := range r.samples {
			sum += s
		}
		avg = float64(sum) / float64(len(r.samples))
	}
	score := int(math.Round(100 - avg/20))
	if score < 0 {
		score = 0
	}
	r.submit(score)
}
