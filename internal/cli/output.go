package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case JoinResult:
		o.printJoinResult(v)
	case GuessResult:
		o.printGuessResult(v)
	case Scoreboard:
		o.printScoreboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Settings response type (matches API)
type Settings struct {
	TimeLimitSeconds int `json:"time_limit_seconds"`
	RoundCount       int `json:"round_count"`
	PlayerCount      int `json:"player_count"`
}

// Player response type
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	IsReady  bool   `json:"is_ready"`
	IsDrawer bool   `json:"is_drawer"`
}

// Turn response type
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

// Round response type
type Round struct {
	RoundNumber int        `json:"round_number"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	CurrentTurn Turn       `json:"current_turn"`
}

// ScoreEntry response type
type ScoreEntry struct {
	PlayerID    string    `json:"player_id"`
	RoundNumber int       `json:"round_number"`
	TurnNumber  int       `json:"turn_number"`
	Points      int       `json:"points"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// Game response type
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

// GameListItem response type
type GameListItem struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	PlayerCount int       `json:"player_count"`
	MaxPlayers  int       `json:"max_players"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameList response type
type GameList struct {
	Games []GameListItem `json:"games"`
}

// JoinResult is returned when creating or joining a game
type JoinResult struct {
	PlayerID    string `json:"player_id"`
	PlayerToken string `json:"player_token"`
	Game        Game   `json:"game"`
}

// GuessResult response type
type GuessResult struct {
	Correct bool `json:"correct"`
	Close   bool `json:"close"`
	Points  int  `json:"points"`
	Score   int  `json:"score"`
	Expired bool `json:"expired"`
	Game    Game `json:"game"`
}

// Standing response type
type Standing struct {
	Rank           int    `json:"rank"`
	PlayerID       string `json:"player_id"`
	Name           string `json:"name"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
	Penalties      int    `json:"penalties"`
}

// Scoreboard response type
type Scoreboard struct {
	GameID    string     `json:"game_id"`
	Status    string     `json:"status"`
	Standings []Standing `json:"standings"`
	Winner    *string    `json:"winner"`
}

// HealthResult is the health response plus what the client measured
type HealthResult struct {
	Status    string `json:"status"`
	Server    string `json:"server"`
	LatencyMS int64  `json:"latency_ms"`
}

func (g Game) playerName(id string) string {
	for _, p := range g.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func (o *Output) printGame(g Game) {
	o.printf("Game: %s\n", g.ID)
	o.printf("Status: %s\n", g.Status)
	o.printf("Settings: %ds per turn, %d rounds, up to %d players\n",
		g.Settings.TimeLimitSeconds, g.Settings.RoundCount, g.Settings.PlayerCount)

	o.printf("Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		var tags []string
		if p.IsReady {
			tags = append(tags, "ready")
		}
		if p.IsDrawer {
			tags = append(tags, "drawing")
		}
		tagStr := ""
		if len(tags) > 0 {
			tagStr = " [" + strings.Join(tags, ", ") + "]"
		}
		o.printf("  - %s (%s)%s\n", p.Name, p.ID, tagStr)
	}

	if g.Status == "waiting" {
		return
	}

	turn := g.CurrentRound.CurrentTurn
	o.printf("\nRound %d, turn %d\n", g.CurrentRound.RoundNumber, turn.TurnNumber)
	o.printf("Drawer: %s\n", g.playerName(turn.DrawerID))
	o.printf("Turn status: %s\n", turn.Status)
	if turn.Answer != nil {
		o.printf("Answer: %s\n", *turn.Answer)
	}
	if turn.Status == "drawing" {
		o.printf("Deadline: %s\n", turn.Deadline.Local().Format("15:04:05"))
	}
	if len(turn.CorrectPlayerIDs) > 0 {
		names := make([]string, 0, len(turn.CorrectPlayerIDs))
		for _, id := range turn.CorrectPlayerIDs {
			names = append(names, g.playerName(id))
		}
		o.printf("Guessed: %s\n", strings.Join(names, ", "))
	}
}

func (o *Output) printGameList(l GameList) {
	if len(l.Games) == 0 {
		o.printf("No games\n")
		return
	}
	for _, g := range l.Games {
		o.printf("%s  %-8s  %d/%d players\n", g.ID, g.Status, g.PlayerCount, g.MaxPlayers)
	}
}

func (o *Output) printJoinResult(j JoinResult) {
	o.printf("Player id: %s\n", j.PlayerID)
	o.printf("Player token: %s\n", j.PlayerToken)
	o.printGame(j.Game)
}

func (o *Output) printGuessResult(g GuessResult) {
	switch {
	case g.Expired:
		o.printf("Too late, the turn has timed out\n")
	case g.Correct:
		o.printf("Correct! +%d points (total %d)\n", g.Points, g.Score)
	case g.Close:
		o.printf("Close, but not quite\n")
	default:
		o.printf("Wrong\n")
	}
}

func (o *Output) printScoreboard(s Scoreboard) {
	o.printf("Game: %s (%s)\n", s.GameID, s.Status)
	for _, st := range s.Standings {
		o.printf("  %d. %s: %d points (%d correct, %d penalties)\n",
			st.Rank, st.Name, st.Score, st.CorrectAnswers, st.Penalties)
	}
	if s.Winner != nil {
		name := *s.Winner
		for _, st := range s.Standings {
			if st.PlayerID == *s.Winner {
				name = st.Name
			}
		}
		o.printf("\nWinner: %s\n", name)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("%s is %s (%dms)\n", h.Server, h.Status, h.LatencyMS)
}
