package results

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyblitz/internal/profile"
	"partyblitz/internal/session"
	"partyblitz/internal/transport"
)

func fourPlayerSession(wager int64) session.Session {
	return session.Session{
		RoomCode: "BLITZ1",
		Wager:    wager,
		Players: []session.Player{
			{ID: "a", Name: "Ana"},
			{ID: "b", Name: "Bo"},
			{ID: "c", Name: "Cy"},
			{ID: "d", Name: "Di"},
		},
	}
}

var fourScores = []transport.PlayerScore{
	{ID: "b", Score: 300},
	{ID: "a", Score: 300},
	{ID: "c", Score: 150},
	{ID: "d", Score: 50},
}

func TestRankBreaksTiesByPlayerID(t *testing.T) {
	ranked := Rank(fourScores)
	got := make([]string, len(ranked))
	for i, ps := range ranked {
		got[i] = ps.ID
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestFinalizeFlatRewards(t *testing.T) {
	e := NewEngine(Config{Logger: zerolog.Nop()})
	out := e.Finalize(fourPlayerSession(0), fourScores)

	require.Len(t, out.Awards, 4)
	xp := make([]int, 4)
	coins := make([]int64, 4)
	for i, a := range out.Awards {
		assert.Equal(t, i, a.Rank)
		xp[i] = a.XP
		coins[i] = a.Coins.IntPart()
	}
	assert.Equal(t, []int{130, 90, 55, 25}, xp)
	assert.Equal(t, []int64{200, 100, 50, 20}, coins)
	assert.Equal(t, "Ana", out.Awards[0].Name)
	assert.Nil(t, out.Local, "no store wired")
}

func TestFinalizeWageredSessionIsWinnerTakeAll(t *testing.T) {
	e := NewEngine(Config{Logger: zerolog.Nop()})
	out := e.Finalize(fourPlayerSession(75), fourScores)

	assert.True(t, out.Awards[0].Coins.Equal(decimal.NewFromInt(300)), "winner takes wager x players")
	for _, a := range out.Awards[1:] {
		assert.True(t, a.Coins.IsZero())
	}
	// Experience is independent of the wager.
	assert.Equal(t, 130, out.Awards[0].XP)
}

func TestFinalizeBeyondFourthPlace(t *testing.T) {
	sess := fourPlayerSession(0)
	sess.Players = append(sess.Players, session.Player{ID: "e", Name: "Ed"})
	scores := append(append([]transport.PlayerScore(nil), fourScores...),
		transport.PlayerScore{ID: "e", Score: 10})

	e := NewEngine(Config{Logger: zerolog.Nop()})
	out := e.Finalize(sess, scores)
	require.Len(t, out.Awards, 5)
	last := out.Awards[4]
	assert.Equal(t, 21, last.XP)
	assert.Equal(t, int64(20), last.Coins.IntPart())
}

func TestFinalizePersistsLocalPlayerOnce(t *testing.T) {
	store, err := profile.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate())

	e := NewEngine(Config{Store: store, LocalPlayerID: "c", Logger: zerolog.Nop()})
	out := e.Finalize(fourPlayerSession(0), fourScores)

	require.NotNil(t, out.Local)
	assert.Equal(t, 1, out.Local.Before.Level)
	assert.Equal(t, 1, out.Local.After.Level, "55 XP is not enough for level 2")
	assert.False(t, out.Local.LeveledUp)
	assert.Equal(t, "Rookie", out.Local.Tier.Label)

	doc, err := store.GetPlayer("c")
	require.NoError(t, err)
	assert.Equal(t, 55, doc.XP)
	assert.True(t, doc.Coins.Equal(decimal.NewFromInt(1050)))
	assert.Equal(t, 1, doc.TotalMatches)
	assert.Equal(t, 1, doc.ThirdPlace)

	// Replaying the same session must not double-pay.
	again := e.Finalize(fourPlayerSession(0), fourScores)
	assert.Equal(t, out, again)
	doc, err = store.GetPlayer("c")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.TotalMatches)
}

func TestFinalizeLevelUpDetection(t *testing.T) {
	store, err := profile.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate())

	doc, err := store.GetOrCreatePlayer("a", "Ana")
	require.NoError(t, err)
	doc.XP = 90 // 10 short of level 2
	require.NoError(t, store.PutPlayer(doc))

	e := NewEngine(Config{Store: store, LocalPlayerID: "a", Logger: zerolog.Nop()})
	out := e.Finalize(fourPlayerSession(0), fourScores)

	require.NotNil(t, out.Local)
	assert.True(t, out.Local.LeveledUp)
	assert.Equal(t, 2, out.Local.After.Level)
}

func TestFinalizeSurvivesStoreFailure(t *testing.T) {
	store, err := profile.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate())
	store.Close() // every later query fails

	e := NewEngine(Config{Store: store, LocalPlayerID: "a", Logger: zerolog.Nop()})
	out := e.Finalize(fourPlayerSession(0), fourScores)

	assert.Nil(t, out.Local)
	require.Len(t, out.Awards, 4, "awards are computed even when persistence fails")
}
