package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/drawguess/internal/storage/storagetest"
	"github.com/mcoot/drawguess/internal/testutil"
)

type StoreSuite struct {
	storagetest.RepositorySuite
	path  string
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "games.db")
	store, err := Open(s.path)
	s.Require().NoError(err)
	s.store = store
	s.Repo = store
	s.Ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *StoreSuite) TestReopenKeepsGamesAndSkipsMigrations() {
	g := testutil.NewDrawingGame(s.T(), "game-1", testutil.Epoch)
	s.Require().NoError(s.store.Save(s.Ctx, g))
	s.Require().NoError(s.store.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.store = reopened

	found, ok, err := reopened.FindByID(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(g.CurrentTurn().State(), found.CurrentTurn().State())
}

// statuses reads the status column directly, keyed by game id
func (s *StoreSuite) statuses() map[string]string {
	rows, err := s.store.sqlDB.QueryContext(s.Ctx, `SELECT id, status FROM games`)
	s.Require().NoError(err)
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, status string
		s.Require().NoError(rows.Scan(&id, &status))
		out[id] = status
	}
	s.Require().NoError(rows.Err())
	return out
}

func (s *StoreSuite) TestStatusColumnFollowsSaves() {
	s.Require().NoError(s.store.Save(s.Ctx, testutil.NewWaitingGame(s.T(), "waiting", testutil.Epoch)))
	g := testutil.NewDrawingGame(s.T(), "game-1", testutil.Epoch)
	s.Require().NoError(s.store.Save(s.Ctx, g))
	s.Equal(map[string]string{"waiting": "waiting", "game-1": "playing"}, s.statuses())

	s.Require().NoError(g.EndGame(testutil.Epoch))
	s.Require().NoError(s.store.Save(s.Ctx, g))
	s.Equal(map[string]string{"waiting": "waiting", "game-1": "finished"}, s.statuses())
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestUpSection(t *testing.T) {
	require.Equal(t, "\nA\n", upSection("-- +migrate Up\nA\n-- +migrate Down\nB"))
	require.Equal(t, "plain", upSection("plain"))
}
