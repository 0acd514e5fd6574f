package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/drawguess/internal/api"
	"github.com/mcoot/drawguess/internal/api/apierr"
	"github.com/mcoot/drawguess/internal/api/middleware"
	"github.com/mcoot/drawguess/internal/api/response"
	"github.com/mcoot/drawguess/internal/factory"
	internalmw "github.com/mcoot/drawguess/internal/middleware"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.PlayerHeader, token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func assertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rr.Code, rr.Body.String())
	resp := decodeBody[apierr.ErrorResponse](t, rr)
	assert.Equal(t, code, resp.Error.Code)
}

// createGame creates a three player game and returns its id and the creator's token
func (ts *testServer) createGame(t *testing.T) (string, string) {
	t.Helper()
	body := map[string]any{"player_name": "Alice", "time_limit_seconds": 60, "round_count": 1, "player_count": 3}
	rr := ts.request(http.MethodPost, "/api/v1/games", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decodeBody[response.JoinResponse](t, rr)
	return resp.Game.ID, resp.PlayerToken
}

// join adds a player and returns the new player's token
func (ts *testServer) join(t *testing.T, gameID, name string) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/players", map[string]string{"player_name": name}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeBody[response.JoinResponse](t, rr).PlayerToken
}

// startedGame returns a playing game and its players' tokens in join order
func (ts *testServer) startedGame(t *testing.T) (string, []string) {
	t.Helper()
	gameID, alice := ts.createGame(t)
	players := []string{alice, ts.join(t, gameID, "Bob"), ts.join(t, gameID, "Carol")}
	for _, p := range players {
		rr := ts.request(http.MethodPut, "/api/v1/games/"+gameID+"/ready", map[string]bool{"ready": true}, p)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/start", nil, alice)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return gameID, players
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get(internalmw.RequestIDHeader))
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/games", map[string]string{"player_name": "Alice"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decodeBody[response.JoinResponse](t, rr)
	assert.NotEmpty(t, resp.PlayerID)
	assert.NotEmpty(t, resp.PlayerToken)
	assert.NotEqual(t, resp.PlayerID, resp.PlayerToken)
	assert.Equal(t, "/api/v1/games/"+resp.Game.ID, rr.Header().Get("Location"))
	assert.Equal(t, "waiting", resp.Game.Status)
	require.Len(t, resp.Game.Players, 1)
	assert.Equal(t, "Alice", resp.Game.Players[0].Name)
	assert.Equal(t, resp.PlayerID, resp.Game.CurrentRound.CurrentTurn.DrawerID)
	assert.Positive(t, resp.Game.Settings.TimeLimitSeconds)
}

func TestCreateGameValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"empty name", map[string]string{"player_name": "  "}, http.StatusBadRequest, "PLAYER_NAME_EMPTY"},
		{"bad time limit", map[string]any{"player_name": "A", "time_limit_seconds": -1}, http.StatusBadRequest, "INVALID_TIME_LIMIT"},
		{"unknown field", map[string]any{"player_name": "A", "colour": "red"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"not an object", []string{"A"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/games", tt.body, "")
			assertErrorCode(t, rr, tt.status, tt.code)
		})
	}
}

func TestListAndGetGames(t *testing.T) {
	ts := newTestServer(t)
	first, _ := ts.createGame(t)
	second, _ := ts.createGame(t)

	rr := ts.request(http.MethodGet, "/api/v1/games", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeBody[response.GameList](t, rr)
	require.Len(t, list.Games, 2)
	ids := []string{list.Games[0].ID, list.Games[1].ID}
	assert.ElementsMatch(t, []string{first, second}, ids)
	assert.Equal(t, 1, list.Games[0].PlayerCount)
	assert.Equal(t, 3, list.Games[0].MaxPlayers)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+first, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, first, decodeBody[response.Game](t, rr).ID)

	rr = ts.request(http.MethodGet, "/api/v1/games/missing", nil, "")
	assertErrorCode(t, rr, http.StatusNotFound, "GAME_NOT_FOUND")
}

func TestDeleteGame(t *testing.T) {
	ts := newTestServer(t)
	gameID, alice := ts.createGame(t)
	bob := ts.join(t, gameID, "Bob")

	rr := ts.request(http.MethodDelete, "/api/v1/games/"+gameID, nil, "")
	assertErrorCode(t, rr, http.StatusUnauthorized, apierr.CodeUnauthorized)

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+gameID, nil, bob)
	assertErrorCode(t, rr, http.StatusForbidden, "NOT_CREATOR")

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+gameID, nil, alice)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+gameID, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestJoinGame(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := ts.createGame(t)

	ts.join(t, gameID, "Bob")
	ts.join(t, gameID, "Carol")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/players", map[string]string{"player_name": "Dave"}, "")
	assertErrorCode(t, rr, http.StatusConflict, "PLAYER_LIMIT_EXCEEDED")

	rr = ts.request(http.MethodPost, "/api/v1/games/missing/players", map[string]string{"player_name": "Dave"}, "")
	assertErrorCode(t, rr, http.StatusNotFound, "GAME_NOT_FOUND")
}

func TestActionsRequireIdentity(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := ts.createGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/start", nil, "")
	assertErrorCode(t, rr, http.StatusUnauthorized, apierr.CodeUnauthorized)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/start", nil, "stranger")
	assertErrorCode(t, rr, http.StatusUnauthorized, "INVALID_PLAYER_TOKEN")

	rr = ts.request(http.MethodPost, "/api/v1/games/missing/start", nil, "stranger")
	assertErrorCode(t, rr, http.StatusNotFound, "GAME_NOT_FOUND")
}

func TestTokenOnlyWorksForItsGame(t *testing.T) {
	ts := newTestServer(t)
	first, alice := ts.createGame(t)
	second, _ := ts.createGame(t)

	rr := ts.request(http.MethodPut, "/api/v1/games/"+first+"/ready", map[string]bool{"ready": true}, alice)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPut, "/api/v1/games/"+second+"/ready", map[string]bool{"ready": true}, alice)
	assertErrorCode(t, rr, http.StatusUnauthorized, "INVALID_PLAYER_TOKEN")
}

func TestPlayerIDsAreNotCredentials(t *testing.T) {
	ts := newTestServer(t)
	gameID, tokens := ts.startedGame(t)
	drawer, guesser := tokens[0], tokens[1]
	base := "/api/v1/games/" + gameID

	rr := ts.request(http.MethodPost, base+"/answer", map[string]string{"answer": "ねこ"}, drawer)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	public := decodeBody[response.Game](t, rr)
	assert.Nil(t, public.CurrentRound.CurrentTurn.Answer)
	for _, token := range tokens {
		assert.NotContains(t, rr.Body.String(), token)
	}

	// Replaying the public drawer id gets nowhere
	drawerID := public.CurrentRound.CurrentTurn.DrawerID
	rr = ts.request(http.MethodGet, base, nil, drawerID)
	assertErrorCode(t, rr, http.StatusUnauthorized, "INVALID_PLAYER_TOKEN")
	rr = ts.request(http.MethodPost, base+"/end", nil, drawerID)
	assertErrorCode(t, rr, http.StatusUnauthorized, "INVALID_PLAYER_TOKEN")

	rr = ts.request(http.MethodGet, base, nil, guesser)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decodeBody[response.Game](t, rr).CurrentRound.CurrentTurn.Answer)

	rr = ts.request(http.MethodGet, base, nil, drawer)
	require.Equal(t, http.StatusOK, rr.Code)
	answer := decodeBody[response.Game](t, rr).CurrentRound.CurrentTurn.Answer
	require.NotNil(t, answer)
	assert.Equal(t, "ねこ", *answer)
}

func TestStartRequiresReadyPlayers(t *testing.T) {
	ts := newTestServer(t)
	gameID, alice := ts.createGame(t)
	ts.join(t, gameID, "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/start", nil, alice)
	assertErrorCode(t, rr, http.StatusConflict, "NOT_ALL_PLAYERS_READY")
}

func TestAnswerHiddenFromGuessers(t *testing.T) {
	ts := newTestServer(t)
	gameID, players := ts.startedGame(t)
	drawer, guesser := players[0], players[1]

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/answer", map[string]string{"answer": "ねこ"}, guesser)
	assertErrorCode(t, rr, http.StatusForbidden, "NOT_DRAWER")

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/answer", map[string]string{"answer": "cat"}, drawer)
	assertErrorCode(t, rr, http.StatusBadRequest, "ANSWER_INVALID_CHARACTERS")

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/answer", map[string]string{"answer": "ねこ"}, drawer)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	drawerView := decodeBody[response.Game](t, rr)
	require.NotNil(t, drawerView.CurrentRound.CurrentTurn.Answer)
	assert.Equal(t, "ねこ", *drawerView.CurrentRound.CurrentTurn.Answer)
	assert.Equal(t, "drawing", drawerView.CurrentRound.CurrentTurn.Status)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+gameID, nil, guesser)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decodeBody[response.Game](t, rr).CurrentRound.CurrentTurn.Answer)
}

func TestGuessing(t *testing.T) {
	ts := newTestServer(t)
	gameID, players := ts.startedGame(t)
	drawer, bob, carol := players[0], players[1], players[2]
	guessPath := "/api/v1/games/" + gameID + "/guesses"

	rr := ts.request(http.MethodPost, guessPath, map[string]string{"guess": "ねこ"}, bob)
	assertErrorCode(t, rr, http.StatusConflict, "TURN_NOT_DRAWING")

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/answer", map[string]string{"answer": "りんご"}, drawer)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, guessPath, map[string]string{"guess": "りんご"}, drawer)
	assertErrorCode(t, rr, http.StatusForbidden, "DRAWER_CANNOT_GUESS")

	rr = ts.request(http.MethodPost, guessPath, map[string]string{"guess": "りんこ"}, carol)
	require.Equal(t, http.StatusOK, rr.Code)
	miss := decodeBody[response.GuessResponse](t, rr)
	assert.False(t, miss.Correct)
	assert.True(t, miss.Close)
	assert.Zero(t, miss.Points)

	rr = ts.request(http.MethodPost, guessPath, map[string]string{"guess": "りんご"}, bob)
	require.Equal(t, http.StatusOK, rr.Code)
	hit := decodeBody[response.GuessResponse](t, rr)
	assert.True(t, hit.Correct)
	assert.Positive(t, hit.Points)
	assert.Equal(t, hit.Points, hit.Score)
	assert.Equal(t, "finished", hit.Game.CurrentRound.CurrentTurn.Status)
	require.NotNil(t, hit.Game.CurrentRound.CurrentTurn.Answer)
	assert.Equal(t, "りんご", *hit.Game.CurrentRound.CurrentTurn.Answer)
}

func TestFullGameOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	gameID, players := ts.startedGame(t)
	base := "/api/v1/games/" + gameID

	var game response.Game
	for i, drawer := range players {
		rr := ts.request(http.MethodPost, base+"/answer", map[string]string{"answer": "さかな"}, drawer)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		guesser := players[(i+1)%len(players)]
		rr = ts.request(http.MethodPost, base+"/guesses", map[string]string{"guess": "さかな"}, guesser)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.True(t, decodeBody[response.GuessResponse](t, rr).Correct)

		rr = ts.request(http.MethodPost, base+"/advance", nil, guesser)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		game = decodeBody[response.Game](t, rr)
	}

	assert.Equal(t, "finished", game.Status)
	assert.Len(t, game.ScoreHistories, 3)

	rr := ts.request(http.MethodGet, base+"/scores", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	board := decodeBody[response.Scoreboard](t, rr)
	assert.Equal(t, "finished", board.Status)
	assert.Len(t, board.Standings, 3)
	for _, st := range board.Standings {
		assert.Equal(t, 1, st.CorrectAnswers)
	}

	rr = ts.request(http.MethodPost, base+"/end", nil, players[0])
	assertErrorCode(t, rr, http.StatusConflict, "ALREADY_ENDED")
}

func TestEndGame(t *testing.T) {
	ts := newTestServer(t)
	gameID, players := ts.startedGame(t)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/end", nil, players[2])
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "finished", decodeBody[response.Game](t, rr).Status)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/advance", nil, players[0])
	assertErrorCode(t, rr, http.StatusConflict, "GAME_NOT_PLAYING")
}
