package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelCurve(t *testing.T) {
	tests := []struct {
		name      string
		totalXP   int
		level     int
		xpInLevel int
		xpNeeded  int
	}{
		{"zero", 0, 1, 0, 100},
		{"just below first threshold", 99, 1, 99, 100},
		{"exact first threshold", 100, 2, 0, 150},
		{"mid second level", 180, 2, 80, 150},
		{"exact second threshold", 250, 3, 0, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Level(tt.totalXP)
			assert.Equal(t, tt.level, p.Level)
			assert.Equal(t, tt.xpInLevel, p.XPInLevel)
			assert.Equal(t, tt.xpNeeded, p.XPNeeded)
		})
	}
}

func TestLevelMonotonicAndCapped(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 2_000_000; xp += 1713 {
		p := Level(xp)
		require.GreaterOrEqual(t, p.Level, prev, "level decreased at xp=%d", xp)
		require.LessOrEqual(t, p.Level, MaxLevel)
		prev = p.Level
	}
	assert.Equal(t, MaxLevel, Level(2_000_000).Level)
}

func TestTierBands(t *testing.T) {
	assert.Equal(t, "Rookie", TierOf(1).Label)
	assert.Equal(t, "Rookie", TierOf(19).Label)
	assert.Equal(t, "Skilled", TierOf(20).Label)
	assert.Equal(t, "Expert", TierOf(50).Label)
	assert.Equal(t, "Legend", TierOf(80).Label)
	assert.Equal(t, "Legend", TierOf(MaxLevel).Label)
}

func TestMatchXP(t *testing.T) {
	assert.Equal(t, 130, MatchXP(0, 300))
	assert.Equal(t, 90, MatchXP(1, 300))
	assert.Equal(t, 55, MatchXP(2, 150))
	assert.Equal(t, 25, MatchXP(3, 50))
	assert.Equal(t, 20, MatchXP(7, 5))
}
