package response

import (
	"time"

	"github.com/mcoot/drawguess/internal/model"
	"github.com/mcoot/drawguess/internal/services/game"
	"github.com/mcoot/drawguess/internal/services/scoring"
)

// Settings represents game settings
type Settings struct {
	TimeLimitSeconds int `json:"time_limit_seconds"`
	RoundCount       int `json:"round_count"`
	PlayerCount      int `json:"player_count"`
}

// Player represents a player in API responses
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	IsReady  bool   `json:"is_ready"`
	IsDrawer bool   `json:"is_drawer"`
}

// Turn represents the current turn. Answer is only present for the drawer
// or once the turn has finished.
type Turn struct {
	TurnNumber       int        `json:"turn_number"`
	DrawerID         string     `json:"drawer_id"`
	Status           string     `json:"status"`
	Answer           *string    `json:"answer,omitempty"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	Deadline         time.Time  `json:"deadline"`
	CorrectPlayerIDs []string   `json:"correct_player_ids"`
}

// Round represents the current round
type Round struct {
	RoundNumber int        `json:"round_number"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	CurrentTurn Turn       `json:"current_turn"`
}

// ScoreEntry represents one score history record
type ScoreEntry struct {
	PlayerID    string    `json:"player_id"`
	RoundNumber int       `json:"round_number"`
	TurnNumber  int       `json:"turn_number"`
	Points      int       `json:"points"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// Game is the full view of a game
type Game struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	Settings       Settings     `json:"settings"`
	CurrentRound   Round        `json:"current_round"`
	Players        []Player     `json:"players"`
	ScoreHistories []ScoreEntry `json:"score_histories"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Version        int64        `json:"version"`
}

// GameListItem is the compact view used in listings
type GameListItem struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	PlayerCount int       `json:"player_count"`
	MaxPlayers  int       `json:"max_players"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameList wraps a listing
type GameList struct {
	Games []GameListItem `json:"games"`
}

// JoinResponse is returned when a player creates or joins a game. The token
// appears only here; every later request presents it as X-Player-Token.
type JoinResponse struct {
	PlayerID    string `json:"player_id"`
	PlayerToken string `json:"player_token"`
	Game        Game   `json:"game"`
}

// JoinFromModel builds the response for the player who just joined
func JoinFromModel(g *model.Game, p model.Player) JoinResponse {
	return JoinResponse{
		PlayerID:    string(p.ID),
		PlayerToken: string(p.Token),
		Game:        GameFromModel(g, p.ID),
	}
}

// GuessResponse reports the outcome of a guess
type GuessResponse struct {
	Correct bool `json:"correct"`
	Close   bool `json:"close"`
	Points  int  `json:"points"`
	Score   int  `json:"score"`
	Expired bool `json:"expired"`
	Game    Game `json:"game"`
}

// Standing is one row of the scoreboard
type Standing struct {
	Rank           int    `json:"rank"`
	PlayerID       string `json:"player_id"`
	Name           string `json:"name"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
	Penalties      int    `json:"penalties"`
}

// Scoreboard represents the standings of a game
type Scoreboard struct {
	GameID    string     `json:"game_id"`
	Status    string     `json:"status"`
	Standings []Standing `json:"standings"`
	Winner    *string    `json:"winner"`
}

// GameFromModel converts a game for the given viewer
func GameFromModel(g *model.Game, viewer model.PlayerID) Game {
	s := g.Settings()
	resp := Game{
		ID:     string(g.ID()),
		Status: string(g.Status()),
		Settings: Settings{
			TimeLimitSeconds: s.TimeLimitSeconds(),
			RoundCount:       s.RoundCount(),
			PlayerCount:      s.PlayerCount(),
		},
		CurrentRound:   roundFromModel(g, viewer),
		Players:        make([]Player, 0, len(g.Players())),
		ScoreHistories: make([]ScoreEntry, 0, len(g.ScoreHistories())),
		CreatedAt:      g.CreatedAt(),
		UpdatedAt:      g.UpdatedAt(),
		Version:        g.Version(),
	}
	for _, p := range g.Players() {
		resp.Players = append(resp.Players, Player{
			ID:       string(p.ID),
			Name:     p.Name.String(),
			Status:   string(p.Status()),
			IsReady:  p.Ready,
			IsDrawer: p.IsDrawer,
		})
	}
	for _, sh := range g.ScoreHistories() {
		resp.ScoreHistories = append(resp.ScoreHistories, ScoreEntry{
			PlayerID:    string(sh.PlayerID()),
			RoundNumber: sh.RoundNumber(),
			TurnNumber:  sh.TurnNumber(),
			Points:      sh.SignedPoints(),
			Reason:      string(sh.Reason()),
			Timestamp:   sh.Timestamp(),
		})
	}
	return resp
}

func roundFromModel(g *model.Game, viewer model.PlayerID) Round {
	r := g.CurrentRound()
	t := g.CurrentTurn()
	st := t.State()

	turn := Turn{
		TurnNumber:       st.TurnNumber,
		DrawerID:         string(st.DrawerID),
		Status:           string(st.Status),
		TimeLimitSeconds: st.TimeLimitSeconds,
		StartedAt:        st.StartedAt,
		EndedAt:          st.EndedAt,
		Deadline:         t.Deadline(),
		CorrectPlayerIDs: make([]string, 0, len(st.CorrectPlayerIDs)),
	}
	for _, id := range st.CorrectPlayerIDs {
		turn.CorrectPlayerIDs = append(turn.CorrectPlayerIDs, string(id))
	}
	revealed := viewer == st.DrawerID ||
		st.Status == model.TurnStatusFinished ||
		g.Status() == model.GameStatusFinished
	if st.Answer != nil && revealed {
		a := st.Answer.String()
		turn.Answer = &a
	}

	round := Round{
		RoundNumber: r.RoundNumber(),
		StartedAt:   r.StartedAt(),
		CurrentTurn: turn,
	}
	if ended, ok := r.EndedAt(); ok {
		round.EndedAt = &ended
	}
	return round
}

// GameListFromModel converts a listing
func GameListFromModel(games []*model.Game) GameList {
	list := GameList{Games: make([]GameListItem, 0, len(games))}
	for _, g := range games {
		list.Games = append(list.Games, GameListItem{
			ID:          string(g.ID()),
			Status:      string(g.Status()),
			PlayerCount: len(g.Players()),
			MaxPlayers:  g.Settings().PlayerCount(),
			CreatedAt:   g.CreatedAt(),
		})
	}
	return list
}

// GuessFromResult converts a guess outcome for the guesser
func GuessFromResult(r *game.GuessResult, viewer model.PlayerID) GuessResponse {
	return GuessResponse{
		Correct: r.Correct,
		Close:   r.Close,
		Points:  r.Points,
		Score:   r.Score,
		Expired: r.Expired,
		Game:    GameFromModel(r.Game, viewer),
	}
}

// ScoreboardFromSummary converts a scoring summary
func ScoreboardFromSummary(s scoring.Summary) Scoreboard {
	board := Scoreboard{
		GameID:    string(s.GameID),
		Status:    string(s.Status),
		Standings: make([]Standing, 0, len(s.Standings)),
	}
	for _, st := range s.Standings {
		board.Standings = append(board.Standings, Standing{
			Rank:           st.Rank,
			PlayerID:       string(st.PlayerID),
			Name:           st.Name,
			Score:          st.Score,
			CorrectAnswers: st.CorrectAnswers,
			Penalties:      st.Penalties,
		})
	}
	if s.Winner != "" {
		w := string(s.Winner)
		board.Winner = &w
	}
	return board
}
