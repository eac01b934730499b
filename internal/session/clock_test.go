package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundClockCountsDownAndExpiresOnce(t *testing.T) {
	var ticks []int
	var expired []int
	c := NewRoundClock(true,
		func(round, left int) { ticks = append(ticks, left) },
		func(round int) { expired = append(expired, round) })

	c.Reset(3, 3)
	require.Equal(t, 3, c.TimeLeft())
	require.Equal(t, 3, c.Round())

	c.Advance(2)
	assert.Equal(t, 1, c.TimeLeft())
	assert.Empty(t, expired)

	// Overshooting past zero must not fire expire twice.
	c.Advance(5)
	assert.Equal(t, 0, c.TimeLeft())
	assert.Equal(t, []int{2, 1, 0}, ticks)
	assert.Equal(t, []int{3}, expired)
}

func TestRoundClockResetSupersedesOldRound(t *testing.T) {
	var expired []int
	c := NewRoundClock(true, nil, func(round int) { expired = append(expired, round) })

	c.Reset(0, 10)
	c.Advance(4)
	c.Reset(1, 5)
	require.Equal(t, 5, c.TimeLeft())
	require.Equal(t, 1, c.Round())

	c.Advance(5)
	assert.Equal(t, []int{1}, expired, "only the fresh round may expire")
}

func TestRoundClockStopSilencesAdvance(t *testing.T) {
	expired := 0
	c := NewRoundClock(true, nil, func(int) { expired++ })
	c.Reset(0, 5)
	c.Stop()

	c.Advance(10)
	assert.Zero(t, expired)
	assert.Zero(t, c.TimeLeft())
}

func TestRoundClockExpireHandlerMayReadClock(t *testing.T) {
	var c *RoundClock
	seen := -1
	c = NewRoundClock(true, nil, func(int) { seen = c.TimeLeft() })
	c.Reset(0, 2)
	c.Advance(2)
	assert.Equal(t, 0, seen)
}
