package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/drawguess/internal/api/middleware"
	"github.com/mcoot/drawguess/internal/api/request"
	"github.com/mcoot/drawguess/internal/api/response"
	"github.com/mcoot/drawguess/internal/model"
	"github.com/mcoot/drawguess/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController game.ControllerInterface
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController game.ControllerInterface) *GameHandler {
	return &GameHandler{gameController: gameController}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if !decode(w, r, &req) {
		return
	}

	defaults := model.DefaultGameSettings()
	if req.TimeLimitSeconds == 0 {
		req.TimeLimitSeconds = defaults.TimeLimitSeconds()
	}
	if req.RoundCount == 0 {
		req.RoundCount = defaults.RoundCount()
	}
	if req.PlayerCount == 0 {
		req.PlayerCount = defaults.PlayerCount()
	}
	settings, err := model.NewGameSettings(req.TimeLimitSeconds, req.RoundCount, req.PlayerCount)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, creator, err := h.gameController.CreateGame(r.Context(), req.PlayerName, settings)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/games/"+string(g.ID()), response.JoinFromModel(g, creator))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameListFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(g, middleware.GetPlayerID(r.Context())))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	if err := h.gameController.DeleteGame(r.Context(), gameID(r), playerID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Join handles POST /api/v1/games/{id}/players
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinGameRequest
	if !decode(w, r, &req) {
		return
	}

	g, player, err := h.gameController.JoinGame(r.Context(), gameID(r), req.PlayerName)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.JoinFromModel(g, player))
}

// SetReady handles PUT /api/v1/games/{id}/ready
func (h *GameHandler) SetReady(w http.ResponseWriter, r *http.Request) {
	var req request.SetReadyRequest
	if !decode(w, r, &req) {
		return
	}
	playerID := middleware.GetPlayerID(r.Context())

	g, err := h.gameController.SetReady(r.Context(), gameID(r), playerID, req.Ready)
	h.writeGame(w, g, playerID, err)
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	g, err := h.gameController.StartGame(r.Context(), gameID(r), playerID)
	h.writeGame(w, g, playerID, err)
}

// SetAnswer handles POST /api/v1/games/{id}/answer
func (h *GameHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	var req request.SetAnswerRequest
	if !decode(w, r, &req) {
		return
	}
	playerID := middleware.GetPlayerID(r.Context())

	g, err := h.gameController.SetAnswer(r.Context(), gameID(r), playerID, req.Answer)
	h.writeGame(w, g, playerID, err)
}

// Guess handles POST /api/v1/games/{id}/guesses
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req request.GuessRequest
	if !decode(w, r, &req) {
		return
	}
	playerID := middleware.GetPlayerID(r.Context())

	result, err := h.gameController.SubmitGuess(r.Context(), gameID(r), playerID, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GuessFromResult(result, playerID))
}

// Advance handles POST /api/v1/games/{id}/advance
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	g, err := h.gameController.AdvanceTurn(r.Context(), gameID(r), playerID)
	h.writeGame(w, g, playerID, err)
}

// End handles POST /api/v1/games/{id}/end
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.GetPlayerID(r.Context())
	g, err := h.gameController.EndGame(r.Context(), gameID(r), playerID)
	h.writeGame(w, g, playerID, err)
}

// Scores handles GET /api/v1/games/{id}/scores
func (h *GameHandler) Scores(w http.ResponseWriter, r *http.Request) {
	summary, err := h.gameController.GetSummary(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ScoreboardFromSummary(summary))
}

func (h *GameHandler) writeGame(w http.ResponseWriter, g *model.Game, viewer model.PlayerID, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(g, viewer))
}
