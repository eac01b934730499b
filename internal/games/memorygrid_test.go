package games

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryPayload(pairs int) string {
	cards := ""
	for i := 0; i < pairs; i++ {
		if i > 0 {
			cards += ","
		}
		cards += fmt.Sprintf(`{"id":%d,"emoji":"s%d"},{"id":%d,"emoji":"s%d"}`, 2*i, i, 2*i+1, i)
	}
	return `{"cards":[` + cards + `]}`
}

func newMemoryRound(t *testing.T, e *testEnv, payload string) *MemoryGridRound {
	t.Helper()
	r, err := (&MemoryGridGame{}).NewRound(json.RawMessage(payload), e.env())
	require.NoError(t, err)
	return r.(*MemoryGridRound)
}

func TestMemoryGridPerfectSolveWithExtraMoves(t *testing.T) {
	e := newTestEnv()
	r := newMemoryRound(t, e, memoryPayload(8))

	// Two wasted moves: mismatched flips.
	r.Flip(0)
	r.Flip(2)
	e.advance(time.Second)
	r.Flip(0)
	r.Flip(4)
	e.advance(time.Second)

	// Then solve all 8 pairs in 8 moves: 10 moves total.
	for i := 0; i < 8; i++ {
		assert.True(t, r.Flip(2*i))
		assert.True(t, r.Flip(2*i+1))
	}

	require.True(t, r.Submitted())
	assert.Equal(t, 10, r.Moves())
	assert.Equal(t, []int{50}, e.scores) // max(10, 100 - 10*5)
}

func TestMemoryGridFloorAtTen(t *testing.T) {
	e := newTestEnv()
	r := newMemoryRound(t, e, memoryPayload(2))

	// Burn 20 mismatch moves before solving.
	for i := 0; i < 20; i++ {
		r.Flip(0)
		r.Flip(2)
		e.advance(time.Second)
	}
	r.Flip(0)
	r.Flip(1)
	r.Flip(2)
	r.Flip(3)

	require.True(t, r.Submitted())
	assert.Equal(t, []int{10}, e.scores)
}

func TestMemoryGridTimeoutPartialCredit(t *testing.T) {
	e := newTestEnv()
	r := newMemoryRound(t, e, memoryPayload(4))

	r.Flip(0)
	r.Flip(1) // one matched pair in one move
	r.Flip(2)
	r.Flip(4) // mismatch
	e.advance(time.Second)
	r.Expire()

	// max(0, 1*15 - 2*2) = 11
	assert.Equal(t, []int{11}, e.scores)
}

func TestMemoryGridMismatchWindowBlocksFlips(t *testing.T) {
	e := newTestEnv()
	r := newMemoryRound(t, e, memoryPayload(2))

	r.Flip(0)
	r.Flip(2)
	// Mismatch shown; flips during the window are inert.
	assert.False(t, r.Flip(1))
	e.advance(time.Second)
	assert.True(t, r.Flip(1))
}

func TestMemoryGridRejectsUnknownAndRepeatedCards(t *testing.T) {
	e := newTestEnv()
	r := newMemoryRound(t, e, memoryPayload(2))

	assert.False(t, r.Flip(99))
	assert.True(t, r.Flip(0))
	assert.False(t, r.Flip(0)) // same card twice in one move
	assert.True(t, r.Flip(1))
	assert.False(t, r.Flip(0)) // already matched
	assert.Equal(t, 1, r.MatchedPairs())
}
