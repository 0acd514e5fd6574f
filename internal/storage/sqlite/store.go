// Package sqlite provides a SQLite-backed GameRepository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/drawguess/internal/model"
	"github.com/mcoot/drawguess/internal/storage"
	"github.com/mcoot/drawguess/internal/storage/codec"
	"github.com/mcoot/drawguess/internal/storage/sqlite/migrations"
)

// Store persists games in SQLite, one row per game holding its JSON document.
// Status, version and timestamps are copied into columns for querying.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite game store and applies embedded migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between pooled connections
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ensure Store implements the interface
var _ storage.GameRepository = (*Store)(nil)

func (s *Store) Save(ctx context.Context, game *model.Game) error {
	if err := storage.CheckSave(ctx, game); err != nil {
		return err
	}
	data, err := codec.Encode(game)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO games (id, status, document, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   document = excluded.document,
		   version = excluded.version,
		   updated_at = excluded.updated_at`,
		string(game.ID()),
		string(game.Status()),
		data,
		game.Version(),
		toMillis(game.CreatedAt()),
		toMillis(game.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", game.ID(), err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id model.GameID) (*model.Game, bool, error) {
	if err := storage.CheckID(ctx, id); err != nil {
		return nil, false, err
	}

	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT document FROM games WHERE id = ?`, string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get game %s: %w", id, err)
	}

	game, err := codec.Decode(data)
	if err != nil {
		return nil, false, err
	}
	return game, true, nil
}

func (s *Store) FindAll(ctx context.Context) ([]*model.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT document FROM games ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := make([]*model.Game, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		game, err := codec.Decode(data)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	storage.SortByCreation(games)
	return games, nil
}

func (s *Store) Delete(ctx context.Context, id model.GameID) error {
	if err := storage.CheckID(ctx, id); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}
