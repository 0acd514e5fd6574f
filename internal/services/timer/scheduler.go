package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/drawguess/internal/dependencies/clock"
	"github.com/mcoot/drawguess/internal/model"
)

// Expirer finishes a game's current turn once its deadline has passed
type Expirer interface {
	TimeoutTurn(ctx context.Context, gameID model.GameID) (*model.Game, error)
}

// Scheduler keeps at most one pending timeout per game. Timers only queue the
// game id; Run drains the queue and calls the Expirer.
type Scheduler struct {
	clock   clock.Clock
	expirer Expirer
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[model.GameID]clock.Timer
	due     chan model.GameID
	done    chan struct{}
	once    sync.Once
}

// New creates a Scheduler. queueSize bounds how many expired games may wait
// for Run before timers block.
func New(clk clock.Clock, expirer Expirer, logger *slog.Logger, queueSize int) *Scheduler {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Scheduler{
		clock:   clk,
		expirer: expirer,
		logger:  logger,
		pending: make(map[model.GameID]clock.Timer),
		due:     make(chan model.GameID, queueSize),
		done:    make(chan struct{}),
	}
}

// Schedule replaces any pending timeout for the game
func (s *Scheduler) Schedule(gameID model.GameID, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[gameID]; ok {
		t.Stop()
	}

	delay := deadline.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}

	var t clock.Timer
	t = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.pending[gameID] == t {
			delete(s.pending, gameID)
		}
		s.mu.Unlock()
		select {
		case s.due <- gameID:
		case <-s.done:
		}
	})
	s.pending[gameID] = t
}

// Cancel drops the pending timeout for the game, if any
func (s *Scheduler) Cancel(gameID model.GameID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[gameID]; ok {
		t.Stop()
		delete(s.pending, gameID)
	}
}

// Pending reports how many games have a timeout scheduled
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Run expires due games until ctx is done, then stops every pending timer
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.stopAll()

	for {
		select {
		case <-ctx.Done():
			return nil
		case gameID := <-s.due:
			s.expire(ctx, gameID)
		}
	}
}

func (s *Scheduler) expire(ctx context.Context, gameID model.GameID) {
	game, err := s.expirer.TimeoutTurn(ctx, gameID)
	if err != nil {
		s.logger.Warn("failed to time out turn",
			slog.String("game_id", string(gameID)),
			slog.String("code", string(model.CodeOf(err))),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Debug("turn deadline handled",
		slog.String("game_id", string(gameID)),
		slog.String("turn_status", string(game.CurrentTurn().Status())),
	)
}

func (s *Scheduler) stopAll() {
	s.once.Do(func() { close(s.done) })
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}
