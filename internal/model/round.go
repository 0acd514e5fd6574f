package model

import "time"

// Bounds for Round
const (
	MinRoundNumber = 1
	MaxRoundNumber = 10
)

// Round is a numbered cycle holding the one active turn
type Round struct {
	roundNumber int
	currentTurn *Turn
	startedAt   time.Time
	endedAt     *time.Time
}

// NewRound validates the round number and requires a turn
func NewRound(roundNumber int, turn *Turn, startedAt time.Time, endedAt *time.Time) (*Round, error) {
	if roundNumber < MinRoundNumber || roundNumber > MaxRoundNumber {
		return nil, validationError(CodeInvalidRoundNumber,
			"round number must be between %d and %d, got %d", MinRoundNumber, MaxRoundNumber, roundNumber)
	}
	if turn == nil {
		return nil, ErrCurrentTurnRequired
	}
	r := &Round{roundNumber: roundNumber, currentTurn: turn, startedAt: startedAt}
	if endedAt != nil {
		e := *endedAt
		r.endedAt = &e
	}
	return r, nil
}

// CreateInitialRound wraps turn as round #1
func CreateInitialRound(turn *Turn, startedAt time.Time) (*Round, error) {
	return NewRound(MinRoundNumber, turn, startedAt, nil)
}

func (r *Round) RoundNumber() int     { return r.roundNumber }
func (r *Round) CurrentTurn() *Turn   { return r.currentTurn }
func (r *Round) StartedAt() time.Time { return r.startedAt }

// EndedAt returns when the round ended, if it has
func (r *Round) EndedAt() (time.Time, bool) {
	if r.endedAt == nil {
		return time.Time{}, false
	}
	return *r.endedAt, true
}

// SetTurn replaces the current turn
func (r *Round) SetTurn(turn *Turn) error {
	if turn == nil {
		return ErrCurrentTurnRequired
	}
	r.currentTurn = turn
	return nil
}

// SetStartTime overwrites startedAt
func (r *Round) SetStartTime(at time.Time) {
	r.startedAt = at
}

// SetEndTime marks the round ended
func (r *Round) SetEndTime(at time.Time) {
	r.endedAt = &at
}

// clone deep-copies the round and its turn
func (r *Round) clone() *Round {
	c := &Round{
		roundNumber: r.roundNumber,
		currentTurn: r.currentTurn.clone(),
		startedAt:   r.startedAt,
	}
	if r.endedAt != nil {
		e := *r.endedAt
		c.endedAt = &e
	}
	return c
}
