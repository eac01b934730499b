// Package leveling maps accumulated experience to levels and cosmetic tiers,
// and computes the experience awarded for a finished match.
package leveling

// MaxLevel caps progression; XP beyond the cap accumulates but never levels.
const MaxLevel = 100

const (
	baseLevelCost = 100
	levelCostStep = 50
)

// Progress describes where a total XP amount lands on the curve.
type Progress struct {
	Level     int `json:"level"`
	XPInLevel int `json:"xpInLevel"`
	XPNeeded  int `json:"xpNeeded"`
}

// Level walks the per-level requirement: level 1→2 costs 100 XP and every
// following level costs 50 more than the previous one.
func Level(totalXP int) Progress {
	level := 1
	needed := baseLevelCost
	remaining := totalXP
	for remaining >= needed && level < MaxLevel {
		remaining -= needed
		level++
		needed += levelCostStep
	}
	return Progress{Level: level, XPInLevel: remaining, XPNeeded: needed}
}

// Tier is a cosmetic band derived from level. Never persisted.
type Tier struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// TierOf buckets a level into one of four bands with thresholds at 20/50/80.
func TierOf(level int) Tier {
	switch {
	case level >= 80:
		return Tier{Label: "Legend", Color: "#f59e0b", Icon: "🔱"}
	case level >= 50:
		return Tier{Label: "Expert", Color: "#a855f7", Icon: "💎"}
	case level >= 20:
		return Tier{Label: "Skilled", Color: "#06b6d4", Icon: "⚡"}
	default:
		return Tier{Label: "Rookie", Color: "#64748b", Icon: "🌱"}
	}
}

// MatchXP computes the experience earned for one finished match.
// Rank is 0-based (0 = winner).
func MatchXP(rank, score int) int {
	return rankBonus(rank) + score/10
}

func rankBonus(rank int) int {
	switch rank {
	case 0:
		return 100
	case 1:
		return 60
	case 2:
		return 40
	default:
		return 20
	}
}
