package model

import (
	"slices"
	"time"
)

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"  // Players joining and readying up
	GameStatusPlaying  GameStatus = "playing"  // Turns in progress
	GameStatusFinished GameStatus = "finished" // Terminal
)

// ParseGameStatus maps a stored value back to a GameStatus
func ParseGameStatus(s string) (GameStatus, error) {
	switch GameStatus(s) {
	case GameStatusWaiting, GameStatusPlaying, GameStatusFinished:
		return GameStatus(s), nil
	default:
		return "", validationError(CodeInvalidGameStatus, "unknown game status %q", s)
	}
}

// Game is the aggregate root. Every mutation goes through its methods, which
// validate first and mutate last, so a failed call leaves the game untouched.
// A Game performs no locking; callers serialize writes per GameID.
type Game struct {
	id             GameID
	status         GameStatus
	settings       GameSettings
	currentRound   *Round
	players        []Player // join order, first is the creator
	scoreHistories []ScoreHistory
	createdAt      time.Time
	updatedAt      time.Time
	version        int64
}

// GameState is the full field set of a Game, used to restore persisted games
type GameState struct {
	ID             GameID
	Status         GameStatus
	Settings       GameSettings
	CurrentRound   *Round
	Players        []Player
	ScoreHistories []ScoreHistory
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
}

// NewGame creates a waiting game whose only player is creator. Round 1 and
// turn 1 are pre-seeded with the creator as drawer.
func NewGame(id GameID, settings GameSettings, creator Player, now time.Time) (*Game, error) {
	if creator.ID.IsZero() {
		return nil, ErrPlayerIDRequired
	}
	if settings.IsZero() {
		return nil, ErrSettingsRequired
	}
	round, err := initialRound(creator.ID, settings, now)
	if err != nil {
		return nil, err
	}
	return RestoreGame(GameState{
		ID:             id,
		Status:         GameStatusWaiting,
		Settings:       settings,
		CurrentRound:   round,
		Players:        []Player{creator},
		ScoreHistories: []ScoreHistory{},
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// CreateNewGame creates a game with a fresh id and a fresh creator player
func CreateNewGame(settings GameSettings, creatorName PlayerName, now time.Time) (*Game, error) {
	return NewGame(NewGameID(), settings, NewPlayer(creatorName), now)
}

// RestoreGame validates a full field set and builds a Game from it
func RestoreGame(st GameState) (*Game, error) {
	if st.ID.IsZero() {
		return nil, ErrGameIDRequired
	}
	if st.Settings.IsZero() {
		return nil, ErrSettingsRequired
	}
	if st.CurrentRound == nil {
		return nil, ErrCurrentRoundRequired
	}
	if len(st.Players) == 0 {
		return nil, ErrPlayersRequired
	}
	if st.ScoreHistories == nil {
		return nil, ErrScoreHistoriesRequired
	}
	if _, err := ParseGameStatus(string(st.Status)); err != nil {
		return nil, err
	}
	if len(st.Players) > st.Settings.PlayerCount() {
		return nil, ErrPlayerLimitExceeded
	}

	seen := make(map[PlayerID]bool, len(st.Players))
	tokens := make(map[PlayerToken]bool, len(st.Players))
	drawers := 0
	for _, p := range st.Players {
		if p.ID.IsZero() {
			return nil, ErrPlayerIDRequired
		}
		if seen[p.ID] {
			return nil, validationError(CodeDuplicatePlayer, "player %s appears more than once", p.ID)
		}
		seen[p.ID] = true
		if !p.Token.IsZero() {
			if tokens[p.Token] {
				return nil, validationError(CodeDuplicatePlayer, "player %s shares a token with another player", p.ID)
			}
			tokens[p.Token] = true
		}
		if p.IsDrawer {
			drawers++
		}
	}
	if !seen[st.CurrentRound.CurrentTurn().DrawerID()] {
		return nil, ErrDrawerNotInGame
	}
	if st.Status == GameStatusPlaying && drawers != 1 {
		return nil, validationError(CodeInvalidDrawerID, "a playing game needs exactly one drawer, got %d", drawers)
	}

	return &Game{
		id:             st.ID,
		status:         st.Status,
		settings:       st.Settings,
		currentRound:   st.CurrentRound.clone(),
		players:        slices.Clone(st.Players),
		scoreHistories: slices.Clone(st.ScoreHistories),
		createdAt:      st.CreatedAt,
		updatedAt:      st.UpdatedAt,
		version:        st.Version,
	}, nil
}

func (g *Game) ID() GameID             { return g.id }
func (g *Game) Status() GameStatus     { return g.status }
func (g *Game) Settings() GameSettings { return g.settings }
func (g *Game) CreatedAt() time.Time   { return g.createdAt }
func (g *Game) UpdatedAt() time.Time   { return g.updatedAt }

// Version increments on every successful mutation
func (g *Game) Version() int64 { return g.version }

// CurrentRound returns a copy of the current round. Changing it does not
// change the game.
func (g *Game) CurrentRound() *Round { return g.currentRound.clone() }

// CurrentTurn returns a copy of the current turn
func (g *Game) CurrentTurn() *Turn { return g.currentRound.currentTurn.clone() }

// Players returns a copy of the players in join order
func (g *Game) Players() []Player { return slices.Clone(g.players) }

// ScoreHistories returns a copy of the score records in append order
func (g *Game) ScoreHistories() []ScoreHistory { return slices.Clone(g.scoreHistories) }

// Player looks up a player by id
func (g *Game) Player(id PlayerID) (Player, bool) {
	if i := g.playerIndex(id); i >= 0 {
		return g.players[i], true
	}
	return Player{}, false
}

// PlayerByToken finds the player holding token
func (g *Game) PlayerByToken(token PlayerToken) (Player, bool) {
	for _, p := range g.players {
		if p.Token.Matches(token) {
			return p, true
		}
	}
	return Player{}, false
}

// Creator is the first player to join, or false for a game restored without players
func (g *Game) Creator() (Player, bool) {
	if len(g.players) == 0 {
		return Player{}, false
	}
	return g.players[0], true
}

// Drawer returns the player flagged as drawer, if any
func (g *Game) Drawer() (Player, bool) {
	for _, p := range g.players {
		if p.IsDrawer {
			return p, true
		}
	}
	return Player{}, false
}

// Equal reports identity equality
func (g *Game) Equal(other *Game) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.id == other.id
}

// AddPlayer appends a player while the game is waiting
func (g *Game) AddPlayer(p Player, now time.Time) error {
	if p.ID.IsZero() {
		return ErrPlayerIDRequired
	}
	if g.status != GameStatusWaiting {
		return ErrCannotAddPlayerAfterStart
	}
	if len(g.players) >= g.settings.PlayerCount() {
		return ErrPlayerLimitExceeded
	}
	if g.playerIndex(p.ID) >= 0 {
		return ErrPlayerAlreadyJoined
	}
	if _, taken := g.PlayerByToken(p.Token); taken {
		return ErrPlayerAlreadyJoined
	}

	p.Ready = false
	p.IsDrawer = false
	g.players = append(g.players, p)
	g.touch(now)
	return nil
}

// UpdatePlayerReadyStatus sets a player's readiness in any status
func (g *Game) UpdatePlayerReadyStatus(playerID PlayerID, ready bool, now time.Time) error {
	i := g.playerIndex(playerID)
	if i < 0 {
		return ErrPlayerNotFound
	}
	g.players[i].Ready = ready
	g.touch(now)
	return nil
}

// StartGame makes the first player the sole drawer and replaces the current
// round with a fresh round 1 / turn 1
func (g *Game) StartGame(now time.Time) error {
	if g.status != GameStatusWaiting {
		return ErrAlreadyStarted
	}
	if len(g.players) < MinPlayerCount {
		return ErrInsufficientPlayers
	}
	for _, p := range g.players {
		if !p.Ready {
			return ErrNotAllPlayersReady
		}
	}

	drawer := g.players[0].ID
	round, err := initialRound(drawer, g.settings, now)
	if err != nil {
		return err
	}

	g.setDrawer(drawer)
	g.currentRound = round
	g.status = GameStatusPlaying
	g.touch(now)
	return nil
}

// EndGame moves the game to Finished. The current round and turn are left as is.
func (g *Game) EndGame(now time.Time) error {
	if g.status == GameStatusFinished {
		return ErrAlreadyEnded
	}
	g.status = GameStatusFinished
	g.touch(now)
	return nil
}

// AddScoreHistory appends a record in any status. The record is trusted to
// match the game's rounds and turns.
func (g *Game) AddScoreHistory(sh ScoreHistory, now time.Time) error {
	if sh.PlayerID().IsZero() {
		return ErrPlayerIDRequired
	}
	g.scoreHistories = append(g.scoreHistories, sh)
	g.touch(now)
	return nil
}

// SetAnswer lets the current drawer choose the word and start drawing
func (g *Game) SetAnswer(drawerID PlayerID, raw string, now time.Time) error {
	if g.status != GameStatusPlaying {
		return ErrGameNotPlaying
	}
	turn := g.currentRound.currentTurn
	if turn.DrawerID() != drawerID {
		return ErrNotDrawer
	}
	if turn.Status() != TurnStatusSettingAnswer {
		return ErrTurnNotAcceptingAnswer
	}
	if err := turn.SetAnswerAndStartDrawing(raw, now); err != nil {
		return err
	}
	g.touch(now)
	return nil
}

// SubmitGuess checks a guess against the current turn. A correct guess
// finishes the turn and records points for the guesser.
func (g *Game) SubmitGuess(playerID PlayerID, guess string, now time.Time) (bool, error) {
	if playerID.IsZero() {
		return false, ErrPlayerIDRequired
	}
	if g.status != GameStatusPlaying {
		return false, ErrGameNotPlaying
	}
	if g.playerIndex(playerID) < 0 {
		return false, ErrPlayerNotFound
	}
	turn := g.currentRound.currentTurn
	if turn.DrawerID() == playerID {
		return false, ErrDrawerCannotGuess
	}
	if turn.Status() != TurnStatusDrawing {
		return false, ErrTurnNotDrawing
	}

	answer, ok := turn.Answer()
	if !ok || !answer.Matches(guess) {
		return false, nil
	}

	score, err := NewScoreHistory(playerID, g.currentRound.RoundNumber(), turn.TurnNumber(),
		CorrectAnswerPoints(turn, now), ScoreReasonCorrectAnswer, now)
	if err != nil {
		return false, err
	}
	if _, err := turn.CheckAnswer(guess, playerID, now); err != nil {
		return false, err
	}
	g.scoreHistories = append(g.scoreHistories, score)
	g.touch(now)
	return true, nil
}

// FinishTurnByTimeout ends the current turn. If nobody guessed, the drawer
// takes a penalty. A turn that already finished is left alone.
func (g *Game) FinishTurnByTimeout(now time.Time) error {
	if g.status != GameStatusPlaying {
		return ErrGameNotPlaying
	}
	turn := g.currentRound.currentTurn
	if turn.Status() == TurnStatusFinished {
		return nil
	}

	var penalty *ScoreHistory
	if len(turn.correctPlayerIDs) == 0 {
		sh, err := NewScoreHistory(turn.DrawerID(), g.currentRound.RoundNumber(), turn.TurnNumber(),
			DrawerPenaltyPoints, ScoreReasonDrawerPenalty, now)
		if err != nil {
			return err
		}
		penalty = &sh
	}

	turn.FinishTurnByTimeout(now)
	if penalty != nil {
		g.scoreHistories = append(g.scoreHistories, *penalty)
	}
	g.touch(now)
	return nil
}

// AdvanceTurn hands the pen to the next player in join order. When everyone
// has drawn it opens the next round, and after the last round it ends the game.
func (g *Game) AdvanceTurn(now time.Time) error {
	if g.status != GameStatusPlaying {
		return ErrGameNotPlaying
	}
	turn := g.currentRound.currentTurn
	if turn.Status() != TurnStatusFinished {
		return ErrTurnNotFinished
	}

	next := turn.TurnNumber() + 1
	if next <= len(g.players) && next <= MaxTurnNumber {
		drawer := g.players[next-1].ID
		t, err := NewTurn(next, drawer, g.settings.TimeLimitSeconds(), now)
		if err != nil {
			return err
		}
		if err := g.currentRound.SetTurn(t); err != nil {
			return err
		}
		g.setDrawer(drawer)
		g.touch(now)
		return nil
	}

	if g.currentRound.RoundNumber() >= g.settings.RoundCount() {
		g.currentRound.SetEndTime(now)
		g.status = GameStatusFinished
		g.touch(now)
		return nil
	}

	drawer := g.players[0].ID
	t, err := CreateInitialTurn(drawer, g.settings.TimeLimitSeconds(), now)
	if err != nil {
		return err
	}
	round, err := NewRound(g.currentRound.RoundNumber()+1, t, now, nil)
	if err != nil {
		return err
	}
	g.currentRound.SetEndTime(now)
	g.currentRound = round
	g.setDrawer(drawer)
	g.touch(now)
	return nil
}

func (g *Game) playerIndex(id PlayerID) int {
	return slices.IndexFunc(g.players, func(p Player) bool { return p.ID == id })
}

func (g *Game) setDrawer(id PlayerID) {
	for i := range g.players {
		g.players[i].IsDrawer = g.players[i].ID == id
	}
}

// touch bumps the version and moves updatedAt forward, never backward
func (g *Game) touch(now time.Time) {
	if now.After(g.updatedAt) {
		g.updatedAt = now
	}
	g.version++
}

func initialRound(drawer PlayerID, settings GameSettings, now time.Time) (*Round, error) {
	turn, err := CreateInitialTurn(drawer, settings.TimeLimitSeconds(), now)
	if err != nil {
		return nil, err
	}
	return CreateInitialRound(turn, now)
}
