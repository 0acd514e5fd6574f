package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/mcoot/drawguess/internal/dependencies/clock"
	"github.com/mcoot/drawguess/internal/dependencies/random"
	"github.com/mcoot/drawguess/internal/model"
	"github.com/mcoot/drawguess/internal/services/scoring"
	"github.com/mcoot/drawguess/internal/storage"
)

// TurnScheduler is told when the current turn of a game should time out
type TurnScheduler interface {
	// Schedule replaces any pending timeout for the game
	Schedule(gameID model.GameID, deadline time.Time)
	Cancel(gameID model.GameID)
}

type noopScheduler struct{}

func (noopScheduler) Schedule(model.GameID, time.Time) {}
func (noopScheduler) Cancel(model.GameID)              {}

// GuessResult describes the outcome of a single guess
type GuessResult struct {
	Game    *model.Game
	Correct bool
	// Close is set for a wrong guess within a small edit distance of the answer
	Close bool
	// Points awarded to the guesser; zero unless Correct
	Points int
	// Expired is set when the guess arrived after the deadline and closed the turn instead
	Expired bool
	// Score is the guesser's running total after the guess
	Score int
}

// Controller runs the game lifecycle on top of the repository. Every
// mutation loads the game, applies one aggregate operation and saves it
// while holding that game's lock.
type Controller struct {
	repo           storage.GameRepository
	scoringService *scoring.Service
	scheduler      TurnScheduler
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
	locks          *gameLocks
}

// NewController creates a new GameController
func NewController(
	repo storage.GameRepository,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		repo:           repo,
		scoringService: scoringService,
		scheduler:      noopScheduler{},
		clock:          clock,
		random:         random,
		logger:         logger,
		locks:          newGameLocks(),
	}
}

// SetScheduler attaches the turn timeout scheduler
func (c *Controller) SetScheduler(s TurnScheduler) {
	if s == nil {
		s = noopScheduler{}
	}
	c.scheduler = s
}

// CreateGame creates a waiting game whose only player is the creator. The
// returned player carries the token the creator acts with.
func (c *Controller) CreateGame(ctx context.Context, creatorName string, settings model.GameSettings) (*model.Game, model.Player, error) {
	creator, err := c.newPlayer(creatorName)
	if err != nil {
		return nil, model.Player{}, err
	}
	game, err := model.NewGame(model.GameID(c.random.NewID()), settings, creator, c.clock.Now())
	if err != nil {
		return nil, model.Player{}, err
	}

	if err := c.repo.Save(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID())),
			slog.String("error", err.Error()),
		)
		return nil, model.Player{}, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID())),
		slog.String("creator_id", string(creator.ID)),
		slog.Int("time_limit_seconds", settings.TimeLimitSeconds()),
		slog.Int("round_count", settings.RoundCount()),
		slog.Int("player_count", settings.PlayerCount()),
	)
	return game, creator, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.load(ctx, gameID)
}

// ListGames returns every game, oldest first
func (c *Controller) ListGames(ctx context.Context) ([]*model.Game, error) {
	return c.repo.FindAll(ctx)
}

// Authenticate resolves a player token to the id of the player holding it
func (c *Controller) Authenticate(ctx context.Context, gameID model.GameID, token model.PlayerToken) (model.PlayerID, error) {
	game, err := c.load(ctx, gameID)
	if err != nil {
		return "", err
	}
	p, ok := game.PlayerByToken(token)
	if !ok {
		return "", model.ErrInvalidPlayerToken
	}
	return p.ID, nil
}

// DeleteGame removes a game and any pending timeout. Only the creator may
// delete a game.
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.load(ctx, gameID)
	if err != nil {
		return err
	}
	if err := requirePlayer(game, playerID); err != nil {
		return err
	}
	if creator, ok := game.Creator(); !ok || creator.ID != playerID {
		return model.ErrNotCreator
	}

	if err := c.repo.Delete(ctx, gameID); err != nil {
		return err
	}
	c.scheduler.Cancel(gameID)
	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	return nil
}

// JoinGame adds a new player to a waiting game. The returned player carries
// the token the new player acts with.
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, playerName string) (*model.Game, model.Player, error) {
	player, err := c.newPlayer(playerName)
	if err != nil {
		return nil, model.Player{}, err
	}

	game, err := c.mutate(ctx, gameID, "join", func(g *model.Game, now time.Time) error {
		return g.AddPlayer(player, now)
	})
	if err != nil {
		return nil, model.Player{}, err
	}

	c.logger.Info("player joined",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(player.ID)),
		slog.Int("player_count", len(game.Players())),
	)
	return game, player, nil
}

// SetReady records a player's readiness while the game is waiting
func (c *Controller) SetReady(ctx context.Context, gameID model.GameID, playerID model.PlayerID, ready bool) (*model.Game, error) {
	return c.mutate(ctx, gameID, "set_ready", func(g *model.Game, now time.Time) error {
		return g.UpdatePlayerReadyStatus(playerID, ready, now)
	})
}

// StartGame starts the game on behalf of one of its players
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.mutate(ctx, gameID, "start", func(g *model.Game, now time.Time) error {
		if err := requirePlayer(g, playerID); err != nil {
			return err
		}
		return g.StartGame(now)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("game_id", string(gameID)),
		slog.String("drawer_id", string(game.CurrentTurn().DrawerID())),
	)
	return game, nil
}

// SetAnswer lets the drawer choose the word, which starts the drawing clock
func (c *Controller) SetAnswer(ctx context.Context, gameID model.GameID, playerID model.PlayerID, answer string) (*model.Game, error) {
	return c.mutate(ctx, gameID, "set_answer", func(g *model.Game, now time.Time) error {
		return g.SetAnswer(playerID, answer, now)
	})
}

// SubmitGuess checks a guess. A guess that arrives after the deadline closes
// the turn by timeout instead of being scored.
func (c *Controller) SubmitGuess(ctx context.Context, gameID model.GameID, playerID model.PlayerID, guess string) (*GuessResult, error) {
	result := &GuessResult{}
	game, err := c.mutate(ctx, gameID, "guess", func(g *model.Game, now time.Time) error {
		if err := requirePlayer(g, playerID); err != nil {
			return err
		}
		turn := g.CurrentTurn()
		if g.Status() == model.GameStatusPlaying &&
			turn.Status() == model.TurnStatusDrawing &&
			turn.IsExpired(now) {
			result.Expired = true
			return g.FinishTurnByTimeout(now)
		}

		points := model.CorrectAnswerPoints(turn, now)
		correct, err := g.SubmitGuess(playerID, guess, now)
		if err != nil {
			return err
		}
		if correct {
			result.Correct = true
			result.Points = points
			return nil
		}
		if answer, ok := turn.Answer(); ok {
			result.Close = isCloseGuess(guess, answer.String())
		}
		// Wrong guesses leave the game untouched
		return errUnchanged
	})
	if err != nil {
		return nil, err
	}
	result.Game = game
	result.Score, _ = c.scoringService.ScoreFor(game, playerID)

	if result.Correct {
		c.logger.Info("correct guess",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
			slog.Int("points", result.Points),
			slog.Int("score", result.Score),
		)
	}
	return result, nil
}

// TimeoutTurn finishes the current turn once its deadline has passed. Early
// or stale calls, and calls for turns that already finished, are no-ops.
func (c *Controller) TimeoutTurn(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	timedOut := false
	game, err := c.mutate(ctx, gameID, "timeout", func(g *model.Game, now time.Time) error {
		if g.Status() != model.GameStatusPlaying {
			return errUnchanged
		}
		turn := g.CurrentTurn()
		if turn.Status() == model.TurnStatusFinished || !turn.IsExpired(now) {
			return errUnchanged
		}
		timedOut = true
		return g.FinishTurnByTimeout(now)
	})
	if err != nil || !timedOut {
		return game, err
	}

	c.logger.Info("turn timed out",
		slog.String("game_id", string(gameID)),
		slog.Int("round", game.CurrentRound().RoundNumber()),
		slog.Int("turn", game.CurrentTurn().TurnNumber()),
	)
	return game, nil
}

// AdvanceTurn moves a game with a finished turn to the next drawer, round or the end
func (c *Controller) AdvanceTurn(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.mutate(ctx, gameID, "advance", func(g *model.Game, now time.Time) error {
		if err := requirePlayer(g, playerID); err != nil {
			return err
		}
		return g.AdvanceTurn(now)
	})
	if err != nil {
		return nil, err
	}

	if game.Status() == model.GameStatusFinished {
		c.logger.Info("game completed",
			slog.String("game_id", string(gameID)),
			slog.Int("rounds", game.CurrentRound().RoundNumber()),
		)
	}
	return game, nil
}

// EndGame finishes the game early on behalf of one of its players
func (c *Controller) EndGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.mutate(ctx, gameID, "end", func(g *model.Game, now time.Time) error {
		if err := requirePlayer(g, playerID); err != nil {
			return err
		}
		return g.EndGame(now)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game ended", slog.String("game_id", string(gameID)))
	return game, nil
}

// GetSummary returns the standings and winner of a game in any status
func (c *Controller) GetSummary(ctx context.Context, gameID model.GameID) (scoring.Summary, error) {
	game, err := c.load(ctx, gameID)
	if err != nil {
		return scoring.Summary{}, err
	}
	return c.scoringService.Summarize(game), nil
}

// ResumeTimers reschedules timeouts for every game with a running turn,
// used after a restart
func (c *Controller) ResumeTimers(ctx context.Context) (int, error) {
	games, err := c.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, g := range games {
		if c.syncTimer(g) {
			n++
		}
	}
	return n, nil
}

// errUnchanged aborts a mutation without saving or reporting an error
var errUnchanged = errors.New("game unchanged")

func (c *Controller) load(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, found, err := c.repo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// mutate runs fn against a freshly loaded game under the game's lock and
// saves the result. Timers follow the saved state.
func (c *Controller) mutate(ctx context.Context, gameID model.GameID, op string, fn func(g *model.Game, now time.Time) error) (*model.Game, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.load(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := fn(game, c.clock.Now()); err != nil {
		if errors.Is(err, errUnchanged) {
			return game, nil
		}
		c.logger.Debug("game operation rejected",
			slog.String("game_id", string(gameID)),
			slog.String("op", op),
			slog.String("code", string(model.CodeOf(err))),
		)
		return nil, err
	}

	if err := c.repo.Save(ctx, game); err != nil {
		level := slog.LevelError
		if storage.IsCanceled(err) {
			level = slog.LevelWarn
		}
		c.logger.Log(ctx, level, "failed to save game",
			slog.String("game_id", string(gameID)),
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.syncTimer(game)
	return game, nil
}

// syncTimer schedules the running turn's deadline, or cancels it when no
// turn is running. It reports whether a timeout is now pending.
func (c *Controller) syncTimer(g *model.Game) bool {
	if g.Status() == model.GameStatusPlaying && g.CurrentTurn().Status() != model.TurnStatusFinished {
		c.scheduler.Schedule(g.ID(), g.CurrentTurn().Deadline())
		return true
	}
	c.scheduler.Cancel(g.ID())
	return false
}

func (c *Controller) newPlayer(rawName string) (model.Player, error) {
	name, err := model.NewPlayerName(rawName)
	if err != nil {
		return model.Player{}, err
	}
	p, err := model.NewPlayerWithID(model.PlayerID(c.random.NewID()), name)
	if err != nil {
		return model.Player{}, err
	}
	p.Token = model.PlayerToken(c.random.NewToken())
	return p, nil
}

func requirePlayer(g *model.Game, playerID model.PlayerID) error {
	if playerID.IsZero() {
		return model.ErrPlayerIDRequired
	}
	if _, ok := g.Player(playerID); !ok {
		return model.ErrPlayerNotFound
	}
	return nil
}

// isCloseGuess reports a near miss: one edit for short answers, two otherwise
func isCloseGuess(guess, answer string) bool {
	guess = strings.TrimSpace(guess)
	if guess == "" {
		return false
	}
	limit := 1
	if utf8.RuneCountInString(answer) > 4 {
		limit = 2
	}
	dist := levenshtein.ComputeDistance(guess, answer)
	return dist > 0 && dist <= limit
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, creatorName string, settings model.GameSettings) (*model.Game, model.Player, error)
	Authenticate(ctx context.Context, gameID model.GameID, token model.PlayerToken) (model.PlayerID, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	ListGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error
	JoinGame(ctx context.Context, gameID model.GameID, playerName string) (*model.Game, model.Player, error)
	SetReady(ctx context.Context, gameID model.GameID, playerID model.PlayerID, ready bool) (*model.Game, error)
	StartGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	SetAnswer(ctx context.Context, gameID model.GameID, playerID model.PlayerID, answer string) (*model.Game, error)
	SubmitGuess(ctx context.Context, gameID model.GameID, playerID model.PlayerID, guess string) (*GuessResult, error)
	TimeoutTurn(ctx context.Context, gameID model.GameID) (*model.Game, error)
	AdvanceTurn(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	EndGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	GetSummary(ctx context.Context, gameID model.GameID) (scoring.Summary, error)
}

var _ ControllerInterface = (*Controller)(nil)
