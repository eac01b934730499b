package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEventKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind string
	}{
		{
			"round start",
			`{"event":"game:round_start","data":{"roundIndex":2,"gameId":"trivia","duration":30,"totalRounds":5,"roundData":{"questions":[]}}}`,
			EventRoundStart,
		},
		{
			"scores updated",
			`{"event":"room:scores_updated","data":{"players":[{"id":"p1","name":"Ada","score":40}]}}`,
			EventScoresUpdated,
		},
		{
			"results",
			`{"event":"game:results","data":{"players":[{"id":"p1","name":"Ada","score":120}],"roomCode":"XK42"}}`,
			EventResults,
		},
		{
			"player offline",
			`{"event":"room:player_offline","data":{"playerId":"p2","playerName":"Linus"}}`,
			EventPlayerOffline,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &env))
			ev, err := decodeEvent(env)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ev.Kind)
		})
	}
}

func TestDecodeEventRoundStartFields(t *testing.T) {
	env := Envelope{
		Event: EventRoundStart,
		Data:  json.RawMessage(`{"roundIndex":1,"gameId":"speed_math","duration":25,"totalRounds":4,"roundData":{"questions":[{"a":1,"b":1,"op":"+","answer":2}]}}`),
	}
	ev, err := decodeEvent(env)
	require.NoError(t, err)
	require.NotNil(t, ev.RoundStart)
	assert.Equal(t, 1, ev.RoundStart.RoundIndex)
	assert.Equal(t, "speed_math", ev.RoundStart.GameID)
	assert.Equal(t, 25, ev.RoundStart.Duration)
	assert.Equal(t, 4, ev.RoundStart.TotalRounds)
	assert.NotEmpty(t, ev.RoundStart.RoundData)
}

func TestDecodeEventUnknownKindIgnored(t *testing.T) {
	ev, err := decodeEvent(Envelope{Event: "room:chat", Data: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Empty(t, ev.Kind)
}

func TestDecodeEventBadDataFails(t *testing.T) {
	_, err := decodeEvent(Envelope{Event: EventResults, Data: json.RawMessage(`[`)})
	assert.Error(t, err)
}
