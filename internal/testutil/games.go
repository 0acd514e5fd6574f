package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/drawguess/internal/model"
)

// Epoch is the fixed start time used by game fixtures
var Epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// NewPlayer builds a player with a fixed id and the token "token-<id>"
func NewPlayer(t testing.TB, id, name string) model.Player {
	t.Helper()
	n, err := model.NewPlayerName(name)
	require.NoError(t, err)
	p, err := model.NewPlayerWithID(model.PlayerID(id), n)
	require.NoError(t, err)
	p.Token = model.PlayerToken("token-" + id)
	return p
}

// NewWaitingGame builds a waiting game created at createdAt whose creator is
// the player "alice"
func NewWaitingGame(t testing.TB, id string, createdAt time.Time) *model.Game {
	t.Helper()
	settings, err := model.NewGameSettings(60, 2, 4)
	require.NoError(t, err)
	g, err := model.NewGame(model.GameID(id), settings, NewPlayer(t, "alice", "Alice"), createdAt)
	require.NoError(t, err)
	return g
}

// NewDrawingGame builds a playing game with alice drawing "ねこ" and bob and
// carol guessing
func NewDrawingGame(t testing.TB, id string, createdAt time.Time) *model.Game {
	t.Helper()
	g := NewWaitingGame(t, id, createdAt)
	at := createdAt.Add(time.Second)
	require.NoError(t, g.AddPlayer(NewPlayer(t, "bob", "Bob"), at))
	require.NoError(t, g.AddPlayer(NewPlayer(t, "carol", "Carol"), at))
	for _, p := range g.Players() {
		require.NoError(t, g.UpdatePlayerReadyStatus(p.ID, true, at))
	}
	require.NoError(t, g.StartGame(at))
	require.NoError(t, g.SetAnswer("alice", "ねこ", at))
	return g
}
