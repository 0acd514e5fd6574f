package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/drawguess/internal/model"
	"github.com/mcoot/drawguess/internal/storage"
	"github.com/mcoot/drawguess/internal/storage/codec"
)

// Storage is a Redis-backed GameRepository. Each game is a JSON document
// under its own key; a sorted set indexes ids by creation time.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
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

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(game.ID()), data, s.cfg.GameTTL)
		pipe.ZAdd(ctx, gamesIndexKey(), redis.Z{
			Score:  float64(game.CreatedAt().UnixMilli()),
			Member: string(game.ID()),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save game %s: %w", game.ID(), err)
	}
	return nil
}

func (s *Storage) FindByID(ctx context.Context, id model.GameID) (*model.Game, bool, error) {
	if err := storage.CheckID(ctx, id); err != nil {
		return nil, false, err
	}

	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get game %s: %w", id, err)
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

	ids, err := s.client.ZRange(ctx, gamesIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list game index: %w", err)
	}
	if len(ids) == 0 {
		return []*model.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get games: %w", err)
	}

	games := make([]*model.Game, 0, len(values))
	var expired []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Document expired; drop the dangling index entry below
			expired = append(expired, ids[i])
			continue
		}
		game, err := codec.Decode([]byte(str))
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, gamesIndexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("prune game index: %w", err)
		}
	}

	// Scores are millisecond precision, so settle ties and sub-millisecond order here
	storage.SortByCreation(games)
	return games, nil
}

func (s *Storage) Delete(ctx context.Context, id model.GameID) error {
	if err := storage.CheckID(ctx, id); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.ZRem(ctx, gamesIndexKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}
