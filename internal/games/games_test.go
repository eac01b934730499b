package games

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv drives a round with a manual clock and records submissions.
type testEnv struct {
	now      time.Time
	timeLeft int
	scores   []int
}

func newTestEnv() *testEnv {
	return &testEnv{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), timeLeft: 30}
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func (e *testEnv) env() Env {
	return Env{
		Submit:   func(p int) { e.scores = append(e.scores, p) },
		TimeLeft: func() int { return e.timeLeft },
		Now:      func() time.Time { return e.now },
	}
}

var samplePayloads = map[string]string{
	"speed_math":     `{"questions":[{"a":2,"b":3,"op":"+","answer":5},{"a":4,"b":2,"op":"-","answer":2}]}`,
	"trivia":         `{"questions":[{"q":"?","options":["a","b"],"answer":1}]}`,
	"memory_grid":    `{"cards":[{"id":0,"emoji":"🍕"},{"id":1,"emoji":"🍕"}]}`,
	"reaction_click": `{"delays":[1000,1500]}`,
	"logic_puzzle":   `{"puzzle":{"q":"?","answer":"shadow","hint":"follows you"}}`,
	"word_scramble":  `{"word":"planet","scrambled":"tenalp"}`,
	"color_match":    `{"rounds":[{"displayColor":"#ff0000","options":["red","blue"],"answer":"red"}]}`,
	"pattern_rec":    `{"patterns":[{"sequence":[1,2,3],"answer":4}]}`,
	"typing_speed":   `{"text":"go fast"}`,
	"odd_one_out":    `{"rounds":[{"items":["cat","dog","car"],"odd":2,"reason":"not an animal"}]}`,
}

func TestRegistryCoversAllVariants(t *testing.T) {
	specs := ListGames()
	require.Len(t, specs, 10)
	for id := range samplePayloads {
		g, ok := Get(id)
		require.True(t, ok, "variant %s not registered", id)
		assert.Equal(t, id, g.Spec().ID)
	}
}

func TestNewRoundRejectsMalformedPayload(t *testing.T) {
	for id := range samplePayloads {
		g, ok := Get(id)
		require.True(t, ok)
		if _, err := g.NewRound(nil, Env{}); err == nil {
			t.Errorf("%s: expected error for empty payload", id)
		}
		if _, err := g.NewRound(json.RawMessage(`{broken`), Env{}); err == nil {
			t.Errorf("%s: expected error for malformed payload", id)
		}
	}
}

// Expiring twice, or expiring after a normal submission, must never change
// the recorded score.
func TestSubmitOncePerRound(t *testing.T) {
	for id, payload := range samplePayloads {
		e := newTestEnv()
		g, _ := Get(id)
		r, err := g.NewRound(json.RawMessage(payload), e.env())
		require.NoError(t, err, id)

		r.Expire()
		require.True(t, r.Submitted(), id)
		first := append([]int(nil), e.scores...)
		r.Expire()
		r.Expire()
		assert.Equal(t, first, e.scores, "%s: duplicate submission leaked", id)
	}
}

func TestInputInertAfterSubmission(t *testing.T) {
	e := newTestEnv()
	g, _ := Get("trivia")
	r, err := g.NewRound(json.RawMessage(samplePayloads["trivia"]), e.env())
	require.NoError(t, err)
	tr := r.(*TriviaRound)

	assert.True(t, tr.Choose(1))
	require.True(t, tr.Submitted())
	assert.Equal(t, []int{20}, e.scores)

	assert.False(t, tr.Choose(1))
	tr.Expire()
	assert.Equal(t, []int{20}, e.scores)
}
