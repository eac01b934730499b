// Package results turns a session's final scores into standings and rewards:
// rank order, experience, currency, and the local player's level progression.
package results

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"partyblitz/internal/leveling"
	"partyblitz/internal/profile"
	"partyblitz/internal/session"
	"partyblitz/internal/transport"
)

// Award is one player's line on the final standings.
type Award struct {
	PlayerID string          `json:"playerId"`
	Name     string          `json:"name"`
	Rank     int             `json:"rank"` // 0-based, 0 = winner
	Score    int             `json:"score"`
	XP       int             `json:"xp"`
	Coins    decimal.Decimal `json:"coins"`
}

// Progression is the local player's movement on the leveling curve.
type Progression struct {
	Before    leveling.Progress `json:"before"`
	After     leveling.Progress `json:"after"`
	LeveledUp bool              `json:"leveledUp"`
	Tier      leveling.Tier     `json:"tier"`
}

// Outcome is everything the results screen needs for one finished session.
type Outcome struct {
	RoomCode string  `json:"roomCode"`
	Awards   []Award `json:"awards"`
	// Local is the persisted progression of the local player; nil when no
	// store is wired or persistence failed.
	Local *Progression `json:"local,omitempty"`
}

// Config wires a results engine.
type Config struct {
	// Store persists the local player's document. Optional; without it the
	// engine still ranks and computes awards.
	Store profile.Store
	// LocalPlayerID selects whose document the outcome is merged into.
	LocalPlayerID string
	Logger        zerolog.Logger
}

// Engine finalizes sessions. Finalize is idempotent per room code: the
// rewards of a session are computed and persisted at most once, and every
// later call returns the cached outcome.
type Engine struct {
	mu        sync.Mutex
	store     profile.Store
	localID   string
	log       zerolog.Logger
	finalized map[string]Outcome
}

// NewEngine builds a results engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		store:     cfg.Store,
		localID:   cfg.LocalPlayerID,
		log:       cfg.Logger,
		finalized: make(map[string]Outcome),
	}
}

// Rank orders a score snapshot into final standings: score descending, ties
// broken by player id so every client derives the same order.
func Rank(scores []transport.PlayerScore) []transport.PlayerScore {
	ranked := append([]transport.PlayerScore(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// Finalize computes standings and rewards for a finished session and merges
// the local player's share into the profile store. Persistence failures are
// logged and the computed outcome is still returned.
func (e *Engine) Finalize(sess session.Session, finalScores []transport.PlayerScore) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if out, ok := e.finalized[sess.RoomCode]; ok {
		return out
	}

	ranked := Rank(finalScores)
	out := Outcome{
		RoomCode: sess.RoomCode,
		Awards:   make([]Award, 0, len(ranked)),
	}
	for rank, ps := range ranked {
		award := Award{
			PlayerID: ps.ID,
			Rank:     rank,
			Score:    ps.Score,
			XP:       leveling.MatchXP(rank, ps.Score),
			Coins:    coinAward(&sess, rank),
		}
		if p, ok := sess.PlayerByID(ps.ID); ok {
			award.Name = p.Name
		}
		out.Awards = append(out.Awards, award)
	}

	out.Local = e.persist(&sess, out.Awards)
	e.finalized[sess.RoomCode] = out
	return out
}

// coinAward picks the currency for one rank. A wagered session is
// winner-take-all: the whole pot to first place, nothing below. Otherwise
// the flat schedule pays the top three and a consolation amount below.
func coinAward(sess *session.Session, rank int) decimal.Decimal {
	if sess.Wager > 0 {
		if rank == 0 {
			return decimal.NewFromInt(sess.Pot())
		}
		return decimal.Zero
	}
	switch rank {
	case 0:
		return decimal.NewFromInt(200)
	case 1:
		return decimal.NewFromInt(100)
	case 2:
		return decimal.NewFromInt(50)
	default:
		return decimal.NewFromInt(20)
	}
}

func (e *Engine) persist(sess *session.Session, awards []Award) *Progression {
	if e.store == nil || e.localID == "" {
		return nil
	}
	var mine *Award
	for i := range awards {
		if awards[i].PlayerID == e.localID {
			mine = &awards[i]
			break
		}
	}
	if mine == nil {
		return nil
	}

	name := mine.Name
	if name == "" {
		name = e.localID
	}
	before, err := e.store.GetOrCreatePlayer(e.localID, name)
	if err != nil {
		e.log.Error().Err(err).Str("player", e.localID).Msg("failed to load player document, rewards not persisted")
		return nil
	}

	after, err := e.store.ApplyMatchOutcome(e.localID, profile.MatchOutcome{
		Rank:  mine.Rank,
		Score: mine.Score,
		XP:    mine.XP,
		Coins: mine.Coins,
	})
	if err != nil {
		e.log.Error().Err(err).Str("player", e.localID).Msg("failed to persist match outcome")
		return nil
	}

	prog := Progression{
		Before: leveling.Level(before.XP),
		After:  leveling.Level(after.XP),
	}
	prog.LeveledUp = prog.After.Level > prog.Before.Level
	prog.Tier = leveling.TierOf(prog.After.Level)
	if prog.LeveledUp {
		e.log.Info().Str("player", e.localID).Int("level", prog.After.Level).Msg("level up")
	}
	return &prog
}
