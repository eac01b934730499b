package games

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpeedMathRound(t *testing.T, e *testEnv, payload string) *SpeedMathRound {
	t.Helper()
	r, err := (&SpeedMathGame{}).NewRound(json.RawMessage(payload), e.env())
	require.NoError(t, err)
	return r.(*SpeedMathRound)
}

const speedMathThree = `{"questions":[
	{"a":2,"b":3,"op":"+","answer":5},
	{"a":7,"b":4,"op":"-","answer":3},
	{"a":6,"b":6,"op":"*","answer":36}]}`

func TestSpeedMathFullRun(t *testing.T) {
	e := newTestEnv()
	r := newSpeedMathRound(t, e, speedMathThree)

	assert.True(t, r.Answer(5))
	e.advance(700 * time.Millisecond)
	assert.True(t, r.Answer(3))
	e.advance(700 * time.Millisecond)
	assert.False(t, r.Answer(35)) // wrong on the last question

	require.True(t, r.Submitted())
	assert.Equal(t, []int{20}, e.scores) // 2 correct × 10
}

func TestSpeedMathFeedbackWindowBlocksInput(t *testing.T) {
	e := newTestEnv()
	r := newSpeedMathRound(t, e, speedMathThree)

	assert.True(t, r.Answer(5))
	// Still inside the feedback window: input is inert.
	assert.False(t, r.Answer(3))
	assert.Equal(t, 1, r.Correct())

	e.advance(700 * time.Millisecond)
	assert.True(t, r.Answer(3))
	assert.Equal(t, 2, r.Correct())
}

func TestSpeedMathTimeoutPartialCredit(t *testing.T) {
	e := newTestEnv()
	r := newSpeedMathRound(t, e, speedMathThree)

	r.Answer(5)
	r.Expire()
	assert.Equal(t, []int{10}, e.scores)
}

func TestSpeedMathEmptyQuestionsNeverScoresAboveZero(t *testing.T) {
	e := newTestEnv()
	r := newSpeedMathRound(t, e, `{"questions":[]}`)
	assert.False(t, r.Answer(1))
	r.Expire()
	assert.Equal(t, []int{0}, e.scores)
}
