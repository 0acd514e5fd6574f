package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/drawguess/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) settings() model.GameSettings {
	settings, err := model.NewGameSettings(30, 1, 3)
	s.Require().NoError(err)
	return settings
}

// lobby creates game "GAME1" with host, p2 and p3 all ready
func (s *IntegrationSuite) lobby() {
	s.app.MockRandom.QueueID("host", "GAME1", "p2", "p3")

	_, _, err := s.app.GameController.CreateGame(s.ctx, "Host", s.settings())
	s.Require().NoError(err)
	_, _, err = s.app.GameController.JoinGame(s.ctx, "GAME1", "Player Two")
	s.Require().NoError(err)
	_, _, err = s.app.GameController.JoinGame(s.ctx, "GAME1", "Player Three")
	s.Require().NoError(err)

	for _, id := range []model.PlayerID{"host", "p2", "p3"} {
		_, err := s.app.GameController.SetReady(s.ctx, "GAME1", id, true)
		s.Require().NoError(err)
	}
}

// Test: Complete game flow from creation to final standings
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.lobby()

	game, err := s.app.GameController.StartGame(s.ctx, "GAME1", "host")
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, game.Status())
	s.Equal(model.PlayerID("host"), game.CurrentTurn().DrawerID())
	s.Equal(1, s.app.Scheduler.Pending())

	// Each player draws once; the next player guesses correctly
	drawers := []model.PlayerID{"host", "p2", "p3"}
	for i, drawer := range drawers {
		_, err := s.app.GameController.SetAnswer(s.ctx, "GAME1", drawer, "りんご")
		s.Require().NoError(err)

		s.app.MockClock.Advance(10 * time.Second)
		guesser := drawers[(i+1)%len(drawers)]
		result, err := s.app.GameController.SubmitGuess(s.ctx, "GAME1", guesser, "りんご")
		s.Require().NoError(err)
		s.Require().True(result.Correct)
		s.Positive(result.Points)

		game, err = s.app.GameController.AdvanceTurn(s.ctx, "GAME1", guesser)
		s.Require().NoError(err)
	}

	s.Equal(model.GameStatusFinished, game.Status())
	s.Zero(s.app.Scheduler.Pending())

	summary, err := s.app.GameController.GetSummary(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Len(summary.Standings, 3)
	first := summary.Standings[0].Score
	for _, st := range summary.Standings {
		s.Equal(first, st.Score)
		s.Equal(1, st.CorrectAnswers)
		s.Equal(1, st.Rank)
	}
	s.Equal(model.PlayerID(""), summary.Winner)
}

// Test: An unanswered turn is closed by the scheduler and penalizes the drawer
func (s *IntegrationSuite) TestSchedulerTimesOutTurn() {
	s.lobby()

	ctx, cancel := context.WithCancel(s.ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.app.Scheduler.Run(gctx) })

	_, err := s.app.GameController.StartGame(s.ctx, "GAME1", "host")
	s.Require().NoError(err)

	s.app.MockClock.Advance(30 * time.Second)

	s.Eventually(func() bool {
		stored, _, err := s.app.Storage.FindByID(s.ctx, "GAME1")
		return err == nil && stored.CurrentTurn().Status() == model.TurnStatusFinished
	}, time.Second, 5*time.Millisecond)

	summary, err := s.app.GameController.GetSummary(s.ctx, "GAME1")
	s.Require().NoError(err)
	for _, st := range summary.Standings {
		if st.PlayerID == "host" {
			s.Negative(st.Score)
			s.Equal(1, st.Penalties)
		} else {
			s.Zero(st.Score)
		}
	}

	cancel()
	s.NoError(g.Wait())
}

// Test: Games survive a restart when backed by sqlite
func (s *IntegrationSuite) TestSQLiteBackedAppPersistsGames() {
	path := filepath.Join(s.T().TempDir(), "games.db")

	app, err := New(Config{StorageType: StorageTypeSQLite, SQLitePath: path})
	s.Require().NoError(err)
	settings := s.settings()
	created, _, err := app.GameController.CreateGame(s.ctx, "Host", settings)
	s.Require().NoError(err)
	s.Require().NoError(app.Close())

	reopened, err := New(Config{StorageType: StorageTypeSQLite, SQLitePath: path})
	s.Require().NoError(err)
	defer func() { s.NoError(reopened.Close()) }()

	loaded, err := reopened.GameController.GetGame(s.ctx, created.ID())
	s.Require().NoError(err)
	s.Equal(created.ID(), loaded.ID())
	s.Equal(model.GameStatusWaiting, loaded.Status())
	s.Len(loaded.Players(), 1)
}

func TestNewRejectsInvalidStorageConfig(t *testing.T) {
	for name, cfg := range map[string]Config{
		"unknown type":        {StorageType: "postgres"},
		"redis without cfg":   {StorageType: StorageTypeRedis},
		"sqlite without path": {StorageType: StorageTypeSQLite},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := New(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
