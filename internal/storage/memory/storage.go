package memory

import (
	"context"
	"sync"

	"github.com/mcoot/drawguess/internal/model"
	"github.com/mcoot/drawguess/internal/storage"
	"github.com/mcoot/drawguess/internal/storage/codec"
)

// Storage is an in-memory GameRepository. Games are held in their encoded
// form so callers never share state with the store.
type Storage struct {
	mu    sync.RWMutex
	games map[model.GameID][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games: make(map[model.GameID][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.GameRepository = (*Storage)(nil)

func (s *Storage) Save(ctx context.Context, game *model.Game) error {
	if err := storage.CheckSave(ctx, game); err != nil {
		return err
	}
	data, err := codec.Encode(game)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID()] = data
	return nil
}

func (s *Storage) FindByID(ctx context.Context, id model.GameID) (*model.Game, bool, error) {
	if err := storage.CheckID(ctx, id); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	data, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	game, err := codec.Decode(data)
	if err != nil {
		return nil, false, err
	}
	return game, true, nil
}

func (s *Storage) FindAll(ctx context.Context) ([]*model.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	docs := make([][]byte, 0, len(s.games))
	for _, data := range s.games {
		docs = append(docs, data)
	}
	s.mu.RUnlock()

	games := make([]*model.Game, 0, len(docs))
	for _, data := range docs {
		game, err := codec.Decode(data)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	storage.SortByCreation(games)
	return games, nil
}

func (s *Storage) Delete(ctx context.Context, id model.GameID) error {
	if err := storage.CheckID(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

// Len reports how many games are stored
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
