// Package codec converts Game aggregates to and from the versioned JSON
// document shared by every storage adapter.
//
// Enumerations are written with the fixed string vocabulary of the model
// package. An absent answer is written as null and an empty string is
// rejected on decode, so the two never collapse into each other.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mcoot/drawguess/internal/model"
)

// SchemaVersion is written into every document
const SchemaVersion = 1

// ErrUnsupportedSchema is returned for documents from an unknown schema version
var ErrUnsupportedSchema = errors.New("unsupported game document schema version")

type gameDocument struct {
	SchemaVersion  int                    `json:"schema_version"`
	ID             string                 `json:"id"`
	Status         string                 `json:"status"`
	Settings       settingsDocument       `json:"settings"`
	CurrentRound   *roundDocument         `json:"current_round"`
	Players        []playerDocument       `json:"players"`
	ScoreHistories []scoreHistoryDocument `json:"score_histories"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int64                  `json:"version"`
}

type settingsDocument struct {
	TimeLimitSeconds int `json:"time_limit_seconds"`
	RoundCount       int `json:"round_count"`
	PlayerCount      int `json:"player_count"`
}

type roundDocument struct {
	RoundNumber int           `json:"round_number"`
	CurrentTurn *turnDocument `json:"current_turn"`
	StartedAt   time.Time     `json:"started_at"`
	EndedAt     *time.Time    `json:"ended_at"`
}

type turnDocument struct {
	TurnNumber       int        `json:"turn_number"`
	DrawerID         string     `json:"drawer_id"`
	Answer           *string    `json:"answer"`
	Status           string     `json:"status"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at"`
	CorrectPlayerIDs []string   `json:"correct_player_ids"`
}

// playerDocument carries both status and is_ready for readers of the
// document; is_ready is authoritative on decode
type playerDocument struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Token    string `json:"token,omitempty"`
	Status   string `json:"status"`
	IsReady  bool   `json:"is_ready"`
	IsDrawer bool   `json:"is_drawer"`
}

type scoreHistoryDocument struct {
	PlayerID    string    `json:"player_id"`
	RoundNumber int       `json:"round_number"`
	TurnNumber  int       `json:"turn_number"`
	Points      int       `json:"points"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// Encode serializes a game
func Encode(g *model.Game) ([]byte, error) {
	if g == nil {
		return nil, model.ErrGameRequired
	}
	return json.Marshal(fromGame(g))
}

// Decode deserializes a game, running it through the model's validating constructors
func Decode(data []byte) (*model.Game, error) {
	var doc gameDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode game document: %w", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, doc.SchemaVersion)
	}
	g, err := doc.toGame()
	if err != nil {
		return nil, fmt.Errorf("restore game %q: %w", doc.ID, err)
	}
	return g, nil
}

func fromGame(g *model.Game) gameDocument {
	s := g.Settings()
	doc := gameDocument{
		SchemaVersion: SchemaVersion,
		ID:            string(g.ID()),
		Status:        string(g.Status()),
		Settings: settingsDocument{
			TimeLimitSeconds: s.TimeLimitSeconds(),
			RoundCount:       s.RoundCount(),
			PlayerCount:      s.PlayerCount(),
		},
		CurrentRound:   fromRound(g.CurrentRound()),
		Players:        make([]playerDocument, 0, len(g.Players())),
		ScoreHistories: make([]scoreHistoryDocument, 0, len(g.ScoreHistories())),
		CreatedAt:      g.CreatedAt(),
		UpdatedAt:      g.UpdatedAt(),
		Version:        g.Version(),
	}
	for _, p := range g.Players() {
		doc.Players = append(doc.Players, playerDocument{
			ID:       string(p.ID),
			Name:     p.Name.String(),
			Token:    string(p.Token),
			Status:   string(p.Status()),
			IsReady:  p.Ready,
			IsDrawer: p.IsDrawer,
		})
	}
	for _, sh := range g.ScoreHistories() {
		doc.ScoreHistories = append(doc.ScoreHistories, scoreHistoryDocument{
			PlayerID:    string(sh.PlayerID()),
			RoundNumber: sh.RoundNumber(),
			TurnNumber:  sh.TurnNumber(),
			Points:      sh.Points(),
			Reason:      string(sh.Reason()),
			Timestamp:   sh.Timestamp(),
		})
	}
	return doc
}

func fromRound(r *model.Round) *roundDocument {
	doc := &roundDocument{
		RoundNumber: r.RoundNumber(),
		CurrentTurn: fromTurn(r.CurrentTurn()),
		StartedAt:   r.StartedAt(),
	}
	if ended, ok := r.EndedAt(); ok {
		doc.EndedAt = &ended
	}
	return doc
}

func fromTurn(t *model.Turn) *turnDocument {
	st := t.State()
	doc := &turnDocument{
		TurnNumber:       st.TurnNumber,
		DrawerID:         string(st.DrawerID),
		Status:           string(st.Status),
		TimeLimitSeconds: st.TimeLimitSeconds,
		StartedAt:        st.StartedAt,
		EndedAt:          st.EndedAt,
		CorrectPlayerIDs: make([]string, 0, len(st.CorrectPlayerIDs)),
	}
	if st.Answer != nil {
		a := st.Answer.String()
		doc.Answer = &a
	}
	for _, id := range st.CorrectPlayerIDs {
		doc.CorrectPlayerIDs = append(doc.CorrectPlayerIDs, string(id))
	}
	return doc
}

func (doc gameDocument) toGame() (*model.Game, error) {
	status, err := model.ParseGameStatus(doc.Status)
	if err != nil {
		return nil, err
	}
	settings, err := model.NewGameSettings(doc.Settings.TimeLimitSeconds, doc.Settings.RoundCount, doc.Settings.PlayerCount)
	if err != nil {
		return nil, err
	}

	var round *model.Round
	if doc.CurrentRound != nil {
		if round, err = doc.CurrentRound.toRound(); err != nil {
			return nil, err
		}
	}

	var players []model.Player
	if doc.Players != nil {
		players = make([]model.Player, 0, len(doc.Players))
	}
	for _, pd := range doc.Players {
		p, err := pd.toPlayer()
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	var histories []model.ScoreHistory
	if doc.ScoreHistories != nil {
		histories = make([]model.ScoreHistory, 0, len(doc.ScoreHistories))
	}
	for _, sd := range doc.ScoreHistories {
		reason, err := model.ParseScoreReason(sd.Reason)
		if err != nil {
			return nil, err
		}
		sh, err := model.NewScoreHistory(model.PlayerID(sd.PlayerID), sd.RoundNumber, sd.TurnNumber, sd.Points, reason, sd.Timestamp)
		if err != nil {
			return nil, err
		}
		histories = append(histories, sh)
	}

	return model.RestoreGame(model.GameState{
		ID:             model.GameID(doc.ID),
		Status:         status,
		Settings:       settings,
		CurrentRound:   round,
		Players:        players,
		ScoreHistories: histories,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
		Version:        doc.Version,
	})
}

func (doc roundDocument) toRound() (*model.Round, error) {
	var turn *model.Turn
	if doc.CurrentTurn != nil {
		var err error
		if turn, err = doc.CurrentTurn.toTurn(); err != nil {
			return nil, err
		}
	}
	return model.NewRound(doc.RoundNumber, turn, doc.StartedAt, doc.EndedAt)
}

func (doc turnDocument) toTurn() (*model.Turn, error) {
	status, err := model.ParseTurnStatus(doc.Status)
	if err != nil {
		return nil, err
	}
	st := model.TurnState{
		TurnNumber:       doc.TurnNumber,
		DrawerID:         model.PlayerID(doc.DrawerID),
		Status:           status,
		TimeLimitSeconds: doc.TimeLimitSeconds,
		StartedAt:        doc.StartedAt,
		EndedAt:          doc.EndedAt,
	}
	if doc.Answer != nil {
		answer, err := model.NewAnswer(*doc.Answer)
		if err != nil {
			return nil, err
		}
		st.Answer = &answer
	}
	for _, id := range doc.CorrectPlayerIDs {
		st.CorrectPlayerIDs = append(st.CorrectPlayerIDs, model.PlayerID(id))
	}
	return model.RestoreTurn(st)
}

func (doc playerDocument) toPlayer() (model.Player, error) {
	if _, err := model.ParsePlayerStatus(doc.Status); err != nil {
		return model.Player{}, err
	}
	name, err := model.NewPlayerName(doc.Name)
	if err != nil {
		return model.Player{}, err
	}
	p, err := model.NewPlayerWithID(model.PlayerID(doc.ID), name)
	if err != nil {
		return model.Player{}, err
	}
	p.Token = model.PlayerToken(doc.Token)
	p.Ready = doc.IsReady
	p.IsDrawer = doc.IsDrawer
	return p, nil
}
