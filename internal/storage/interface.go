package storage

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/mcoot/drawguess/internal/model"
)

// ErrGameRequired is returned by Save when given a nil game
var ErrGameRequired = model.ErrGameRequired

// ErrIDRequired is returned when a lookup or delete is given an empty id
var ErrIDRequired = model.ErrGameIDRequired

//go:generate go tool mockgen -destination=./mocks/game_repository_mock.go -package=mocks . GameRepository

// GameRepository persists Game aggregates. Implementations must honour ctx
// cancellation and return storage errors unchanged apart from wrapping.
type GameRepository interface {
	// Save upserts the game keyed by its id
	Save(ctx context.Context, game *model.Game) error

	// FindByID reports found=false, with a nil error, when no game has the id
	FindByID(ctx context.Context, id model.GameID) (game *model.Game, found bool, err error)

	// FindAll returns every stored game, ordered by creation time
	FindAll(ctx context.Context) ([]*model.Game, error)

	// Delete removes the game; deleting an absent game is a no-op
	Delete(ctx context.Context, id model.GameID) error
}

// CheckSave validates Save arguments shared by every implementation
func CheckSave(ctx context.Context, game *model.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if game == nil {
		return ErrGameRequired
	}
	return nil
}

// CheckID validates id arguments shared by every implementation
func CheckID(ctx context.Context, id model.GameID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id.IsZero() {
		return ErrIDRequired
	}
	return nil
}

// IsCanceled reports whether err came from a cancelled or expired context
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// SortByCreation orders games by creation time, breaking ties by id
func SortByCreation(games []*model.Game) {
	slices.SortStableFunc(games, func(a, b *model.Game) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID()), string(b.ID()))
	})
}
