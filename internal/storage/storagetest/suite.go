// Package storagetest holds the behaviour every GameRepository must share.
// Adapter packages embed RepositorySuite and set NewRepository in SetupTest.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/drawguess/internal/model"
	"github.com/mcoot/drawguess/internal/storage"
	"github.com/mcoot/drawguess/internal/testutil"
)

// RepositorySuite runs the GameRepository contract against Repo
type RepositorySuite struct {
	suite.Suite
	Repo storage.GameRepository
	Ctx  context.Context
}

func (s *RepositorySuite) TestSaveAndFindByID() {
	g := testutil.NewDrawingGame(s.T(), "game-1", testutil.Epoch)
	s.Require().NoError(s.Repo.Save(s.Ctx, g))

	found, ok, err := s.Repo.FindByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.True(g.Equal(found))
	s.Equal(g.Status(), found.Status())
	s.Equal(g.Players(), found.Players())
	s.Equal(g.CurrentTurn().State(), found.CurrentTurn().State())
	s.Equal(g.Version(), found.Version())
}

func (s *RepositorySuite) TestFindByIDMissing() {
	found, ok, err := s.Repo.FindByID(s.Ctx, "nope")
	s.Require().NoError(err)
	s.False(ok)
	s.Nil(found)
}

func (s *RepositorySuite) TestSaveOverwrites() {
	g := testutil.NewWaitingGame(s.T(), "game-1", testutil.Epoch)
	s.Require().NoError(s.Repo.Save(s.Ctx, g))

	s.Require().NoError(g.AddPlayer(testutil.NewPlayer(s.T(), "bob", "Bob"), testutil.Epoch.Add(time.Minute)))
	s.Require().NoError(s.Repo.Save(s.Ctx, g))

	found, ok, err := s.Repo.FindByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Len(found.Players(), 2)
	s.Equal(testutil.Epoch.Add(time.Minute), found.UpdatedAt())

	all, err := s.Repo.FindAll(s.Ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *RepositorySuite) TestSavedGameIsDetached() {
	g := testutil.NewWaitingGame(s.T(), "game-1", testutil.Epoch)
	s.Require().NoError(s.Repo.Save(s.Ctx, g))

	// Mutating the caller's copy must not leak into storage
	s.Require().NoError(g.AddPlayer(testutil.NewPlayer(s.T(), "bob", "Bob"), testutil.Epoch))

	found, _, err := s.Repo.FindByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Len(found.Players(), 1)
}

func (s *RepositorySuite) TestFindAllOrdersByCreation() {
	s.Require().NoError(s.Repo.Save(s.Ctx, testutil.NewWaitingGame(s.T(), "c", testutil.Epoch.Add(2*time.Hour))))
	s.Require().NoError(s.Repo.Save(s.Ctx, testutil.NewWaitingGame(s.T(), "a", testutil.Epoch)))
	s.Require().NoError(s.Repo.Save(s.Ctx, testutil.NewWaitingGame(s.T(), "b", testutil.Epoch.Add(time.Hour))))

	all, err := s.Repo.FindAll(s.Ctx)
	s.Require().NoError(err)
	ids := make([]model.GameID, 0, len(all))
	for _, g := range all {
		ids = append(ids, g.ID())
	}
	s.Equal([]model.GameID{"a", "b", "c"}, ids)
}

func (s *RepositorySuite) TestFindAllEmpty() {
	all, err := s.Repo.FindAll(s.Ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *RepositorySuite) TestDelete() {
	s.Require().NoError(s.Repo.Save(s.Ctx, testutil.NewWaitingGame(s.T(), "game-1", testutil.Epoch)))
	s.Require().NoError(s.Repo.Save(s.Ctx, testutil.NewWaitingGame(s.T(), "game-2", testutil.Epoch)))

	s.Require().NoError(s.Repo.Delete(s.Ctx, "game-1"))

	_, ok, err := s.Repo.FindByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.False(ok)

	all, err := s.Repo.FindAll(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(model.GameID("game-2"), all[0].ID())
}

func (s *RepositorySuite) TestDeleteMissingIsNoop() {
	s.NoError(s.Repo.Delete(s.Ctx, "nope"))
}

func (s *RepositorySuite) TestArgumentErrors() {
	s.ErrorIs(s.Repo.Save(s.Ctx, nil), storage.ErrGameRequired)

	_, _, err := s.Repo.FindByID(s.Ctx, "")
	s.ErrorIs(err, storage.ErrIDRequired)

	s.ErrorIs(s.Repo.Delete(s.Ctx, ""), storage.ErrIDRequired)
}

func (s *RepositorySuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.Ctx)
	cancel()

	g := testutil.NewWaitingGame(s.T(), "game-1", testutil.Epoch)
	s.ErrorIs(s.Repo.Save(ctx, g), context.Canceled)

	_, _, err := s.Repo.FindByID(ctx, "game-1")
	s.ErrorIs(err, context.Canceled)

	_, err = s.Repo.FindAll(ctx)
	s.ErrorIs(err, context.Canceled)

	s.ErrorIs(s.Repo.Delete(ctx, "game-1"), context.Canceled)
}
