package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"partyblitz/internal/games"
	"partyblitz/internal/transport"
)

// State is the orchestrator's position in the round lifecycle.
type State int

const (
	// StateIdle: no round data received yet.
	StateIdle State = iota
	// StateRoundActive: a round is running and accepting input.
	StateRoundActive
	// StateRoundSettling: the round's score is in; waiting for the server
	// to start the next round or publish results.
	StateRoundSettling
	// StateSessionComplete: final results received.
	StateSessionComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRoundActive:
		return "round_active"
	case StateRoundSettling:
		return "round_settling"
	case StateSessionComplete:
		return "session_complete"
	default:
		return "unknown"
	}
}

// Submitter is the outbound half of the transport the orchestrator needs.
type Submitter interface {
	SubmitScore(roomCode string, points int) error
}

// ActiveRound is the round currently on screen.
type ActiveRound struct {
	Index       int
	GameID      string
	Duration    int
	TotalRounds int
	// Instance is nil for a no-op round: unknown game id or a payload
	// that failed to decode. Such a round renders nothing and never
	// submits; the session still advances on the next round start.
	Instance games.Round
}

// Config wires an orchestrator.
type Config struct {
	Session *Session
	Out     Submitter
	Logger  zerolog.Logger
	// OnResults fires once when the final score list arrives.
	OnResults func(transport.Results)
	// ManualClock disables the wall-clock ticker; the host drives the
	// countdown through Clock().Advance. Tests run this way.
	ManualClock bool
	// Now overrides the time source handed to mini-game rounds.
	Now func() time.Time
	// FeedbackDelay overrides every variant's per-item feedback window.
	FeedbackDelay time.Duration
}

// Orchestrator drives one session through its rounds from transport events.
// The client never advances rounds on its own: every transition into a new
// round comes from a round-start notification, and the session completes
// only on a results notification.
type Orchestrator struct {
	mu       sync.Mutex
	sess     *Session
	guard    *ScoreGuard
	clock    *RoundClock
	presence *PresenceMonitor
	out      Submitter
	log      zerolog.Logger

	onResults     func(transport.Results)
	now           func() time.Time
	feedbackDelay time.Duration

	state State
	round *ActiveRound
}

// NewOrchestrator builds the round state machine for one session.
func NewOrchestrator(cfg Config) *Orchestrator {
	o := &Orchestrator{
		sess:          cfg.Session,
		guard:         NewScoreGuard(),
		presence:      NewPresenceMonitor(),
		out:           cfg.Out,
		log:           cfg.Logger,
		onResults:     cfg.OnResults,
		now:           cfg.Now,
		feedbackDelay: cfg.FeedbackDelay,
		state:         StateIdle,
	}
	if o.now == nil {
		o.now = time.Now
	}
	o.clock = NewRoundClock(cfg.ManualClock, nil, o.expire)
	return o
}

// Run consumes transport events until the context ends or the event stream
// closes. Events are processed strictly in arrival order.
func (o *Orchestrator) Run(ctx context.Context, events <-chan transport.Event) {
	defer o.clock.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			o.Handle(ev)
		}
	}
}

// Handle processes one inbound event.
func (o *Orchestrator) Handle(ev transport.Event) {
	switch ev.Kind {
	case transport.EventRoundStart:
		o.handleRoundStart(*ev.RoundStart)
	case transport.EventScoresUpdated:
		o.mu.Lock()
		o.sess.ApplyScores(ev.Scores.Players)
		o.mu.Unlock()
	case transport.EventResults:
		o.handleResults(*ev.Results)
	case transport.EventPlayerOffline:
		o.presence.MarkUnreachable(ev.Offline.PlayerID)
		o.mu.Lock()
		for i := range o.sess.Players {
			if o.sess.Players[i].ID == ev.Offline.PlayerID {
				o.sess.Players[i].Unreachable = true
			}
		}
		o.mu.Unlock()
		o.log.Info().Str("player", ev.Offline.PlayerID).Msg("player unreachable")
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Current returns the active round, when one exists.
func (o *Orchestrator) Current() (ActiveRound, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.round == nil {
		return ActiveRound{}, false
	}
	return *o.round, true
}

// Clock exposes the shared round countdown.
func (o *Orchestrator) Clock() *RoundClock { return o.clock }

// Presence exposes the unreachable-player bookkeeping.
func (o *Orchestrator) Presence() *PresenceMonitor { return o.presence }

// Guard exposes the submission guard.
func (o *Orchestrator) Guard() *ScoreGuard { return o.guard }

// Session returns a copy of the session value, roster mirror included.
func (o *Orchestrator) Session() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := *o.sess
	s.Players = append([]Player(nil), o.sess.Players...)
	return s
}

func (o *Orchestrator) handleRoundStart(rs transport.RoundStart) {
	o.mu.Lock()
	if o.state == StateSessionComplete {
		o.mu.Unlock()
		o.log.Warn().Int("round", rs.RoundIndex).Msg("round start after session complete, ignoring")
		return
	}
	if o.round != nil && rs.RoundIndex < o.round.Index {
		o.mu.Unlock()
		o.log.Warn().Int("round", rs.RoundIndex).Msg("out of order round start, ignoring")
		return
	}
	if o.round != nil {
		// A fresher round-start supersedes whatever is on screen, whether
		// it is the next round or a re-send of the current one after a
		// reconnect. The old instance's timers die with the clock reset.
		o.log.Debug().Int("stale", o.round.Index).Int("fresh", rs.RoundIndex).Msg("superseding round payload")
	}

	idx := rs.RoundIndex
	env := games.Env{
		Submit:        func(points int) { o.submit(idx, points) },
		TimeLeft:      o.clock.TimeLeft,
		Now:           o.now,
		FeedbackDelay: o.feedbackDelay,
	}

	round := &ActiveRound{
		Index:       rs.RoundIndex,
		GameID:      rs.GameID,
		Duration:    rs.Duration,
		TotalRounds: rs.TotalRounds,
	}
	if g, ok := games.Get(rs.GameID); ok {
		inst, err := g.NewRound(json.RawMessage(rs.RoundData), env)
		if err != nil {
			o.log.Warn().Err(err).Str("game", rs.GameID).Int("round", idx).Msg("bad round payload, round is a no-op")
		} else {
			round.Instance = inst
		}
	} else {
		o.log.Warn().Str("game", rs.GameID).Int("round", idx).Msg("unknown mini-game, round is a no-op")
	}

	o.round = round
	o.state = StateRoundActive
	o.mu.Unlock()

	o.clock.Reset(idx, rs.Duration)
	o.log.Info().Int("round", idx).Str("game", rs.GameID).Int("seconds", rs.Duration).Msg("round started")
}

// submit is the single path from a mini-game to the outside world. The
// guard admits the first call per round index; everything later is a no-op.
func (o *Orchestrator) submit(roundIndex, points int) {
	o.mu.Lock()
	if o.round == nil || o.round.Index != roundIndex {
		o.mu.Unlock()
		o.log.Debug().Int("round", roundIndex).Msg("submission for superseded round dropped")
		return
	}
	if !o.guard.Admit(roundIndex) {
		o.mu.Unlock()
		return
	}
	o.state = StateRoundSettling
	roomCode := o.sess.RoomCode
	o.mu.Unlock()

	o.log.Info().Int("round", roundIndex).Int("points", points).Msg("score submitted")
	if o.out == nil {
		return
	}
	// Fire and forget: no retry, no acknowledgment. The at-most-once
	// guarantee lives in the guard, not in delivery.
	if err := o.out.SubmitScore(roomCode, points); err != nil {
		o.log.Error().Err(err).Int("round", roundIndex).Msg("score submission failed")
	}
}

// expire runs when the round clock hits zero. The active instance must
// record its terminal partial-credit score; a no-op round has nothing to say.
func (o *Orchestrator) expire(roundIndex int) {
	o.mu.Lock()
	if o.round == nil || o.round.Index != roundIndex {
		o.mu.Unlock()
		return
	}
	inst := o.round.Instance
	if o.state == StateRoundActive {
		o.state = StateRoundSettling
	}
	o.mu.Unlock()

	if inst != nil && !inst.Submitted() {
		inst.Expire()
	}
}

func (o *Orchestrator) handleResults(res transport.Results) {
	o.mu.Lock()
	if o.state == StateSessionComplete {
		o.mu.Unlock()
		return
	}
	o.state = StateSessionComplete
	o.sess.ApplyScores(res.Players)
	cb := o.onResults
	o.mu.Unlock()

	o.clock.Stop()
	o.log.Info().Int("players", len(res.Players)).Msg("session complete")
	if cb != nil {
		cb(res)
	}
}
