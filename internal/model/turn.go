package model

import (
	"slices"
	"time"
)

// Bounds for Turn
const (
	MinTurnNumber           = 1
	MaxTurnNumber           = 10
	MinTurnTimeLimitSeconds = 1
	MaxTurnTimeLimitSeconds = 300
)

// TurnStatus is the phase of a single draw/guess cycle
type TurnStatus string

const (
	TurnStatusNotStarted    TurnStatus = "not_started" // legacy, accepted on restore only
	TurnStatusSettingAnswer TurnStatus = "setting_answer"
	TurnStatusDrawing       TurnStatus = "drawing"
	TurnStatusFinished      TurnStatus = "finished"
)

// ParseTurnStatus maps a stored value back to a TurnStatus
func ParseTurnStatus(s string) (TurnStatus, error) {
	switch TurnStatus(s) {
	case TurnStatusNotStarted, TurnStatusSettingAnswer, TurnStatusDrawing, TurnStatusFinished:
		return TurnStatus(s), nil
	default:
		return "", validationError(CodeInvalidTurnStatus, "unknown turn status %q", s)
	}
}

// Turn is one drawer/answer cycle within a round
type Turn struct {
	turnNumber       int
	drawerID         PlayerID
	answer           *Answer
	status           TurnStatus
	timeLimitSeconds int
	startedAt        time.Time
	endedAt          *time.Time
	correctPlayerIDs []PlayerID // set semantics, kept in insertion order
}

// TurnState is the full field set of a Turn, used to restore persisted turns
type TurnState struct {
	TurnNumber       int
	DrawerID         PlayerID
	Answer           *Answer
	Status           TurnStatus
	TimeLimitSeconds int
	StartedAt        time.Time
	EndedAt          *time.Time
	CorrectPlayerIDs []PlayerID
}

// NewTurn creates a turn waiting for its drawer to set the answer
func NewTurn(turnNumber int, drawerID PlayerID, timeLimitSeconds int, startedAt time.Time) (*Turn, error) {
	return RestoreTurn(TurnState{
		TurnNumber:       turnNumber,
		DrawerID:         drawerID,
		Status:           TurnStatusSettingAnswer,
		TimeLimitSeconds: timeLimitSeconds,
		StartedAt:        startedAt,
	})
}

// CreateInitialTurn creates turn #1
func CreateInitialTurn(drawerID PlayerID, timeLimitSeconds int, startedAt time.Time) (*Turn, error) {
	return NewTurn(MinTurnNumber, drawerID, timeLimitSeconds, startedAt)
}

// RestoreTurn validates a full field set and builds a Turn from it
func RestoreTurn(st TurnState) (*Turn, error) {
	if st.TurnNumber < MinTurnNumber || st.TurnNumber > MaxTurnNumber {
		return nil, validationError(CodeInvalidTurnNumber,
			"turn number must be between %d and %d, got %d", MinTurnNumber, MaxTurnNumber, st.TurnNumber)
	}
	if st.DrawerID.IsZero() {
		return nil, ErrInvalidDrawerID
	}
	if st.TimeLimitSeconds < MinTurnTimeLimitSeconds || st.TimeLimitSeconds > MaxTurnTimeLimitSeconds {
		return nil, validationError(CodeInvalidTurnTimeLimit,
			"turn time limit must be between %d and %d seconds, got %d",
			MinTurnTimeLimitSeconds, MaxTurnTimeLimitSeconds, st.TimeLimitSeconds)
	}
	if _, err := ParseTurnStatus(string(st.Status)); err != nil {
		return nil, err
	}

	t := &Turn{
		turnNumber:       st.TurnNumber,
		drawerID:         st.DrawerID,
		status:           st.Status,
		timeLimitSeconds: st.TimeLimitSeconds,
		startedAt:        st.StartedAt,
	}
	if st.Answer != nil {
		a := *st.Answer
		t.answer = &a
	}
	if st.EndedAt != nil {
		e := *st.EndedAt
		t.endedAt = &e
	}
	for _, id := range st.CorrectPlayerIDs {
		if err := t.AddCorrectPlayer(id); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// State returns a copy of every field
func (t *Turn) State() TurnState {
	st := TurnState{
		TurnNumber:       t.turnNumber,
		DrawerID:         t.drawerID,
		Status:           t.status,
		TimeLimitSeconds: t.timeLimitSeconds,
		StartedAt:        t.startedAt,
		CorrectPlayerIDs: t.CorrectPlayerIDs(),
	}
	if t.answer != nil {
		a := *t.answer
		st.Answer = &a
	}
	if t.endedAt != nil {
		e := *t.endedAt
		st.EndedAt = &e
	}
	return st
}

func (t *Turn) TurnNumber() int       { return t.turnNumber }
func (t *Turn) DrawerID() PlayerID    { return t.drawerID }
func (t *Turn) Status() TurnStatus    { return t.status }
func (t *Turn) TimeLimitSeconds() int { return t.timeLimitSeconds }
func (t *Turn) StartedAt() time.Time  { return t.startedAt }

// Answer returns the secret word, if one has been set
func (t *Turn) Answer() (Answer, bool) {
	if t.answer == nil {
		return Answer{}, false
	}
	return *t.answer, true
}

// EndedAt returns when the turn finished, if it has
func (t *Turn) EndedAt() (time.Time, bool) {
	if t.endedAt == nil {
		return time.Time{}, false
	}
	return *t.endedAt, true
}

// CorrectPlayerIDs returns a copy of the players who guessed correctly
func (t *Turn) CorrectPlayerIDs() []PlayerID {
	return slices.Clone(t.correctPlayerIDs)
}

// HasCorrectPlayer reports whether id guessed correctly this turn
func (t *Turn) HasCorrectPlayer(id PlayerID) bool {
	return slices.Contains(t.correctPlayerIDs, id)
}

// Deadline is startedAt plus the time limit
func (t *Turn) Deadline() time.Time {
	return t.startedAt.Add(time.Duration(t.timeLimitSeconds) * time.Second)
}

// IsExpired reports whether at is on or past the deadline
func (t *Turn) IsExpired(at time.Time) bool {
	return !at.Before(t.Deadline())
}

// SetAnswerAndStartDrawing stores the answer, restarts the clock and moves to Drawing
func (t *Turn) SetAnswerAndStartDrawing(raw string, startTime time.Time) error {
	answer, err := NewAnswer(raw)
	if err != nil {
		return err
	}
	t.answer = &answer
	t.status = TurnStatusDrawing
	t.startedAt = startTime
	return nil
}

// CheckAnswer compares the trimmed guess to the answer. A match records the
// player and finishes the turn; anything else leaves the turn unchanged.
func (t *Turn) CheckAnswer(guess string, playerID PlayerID, at time.Time) (bool, error) {
	if playerID.IsZero() {
		return false, ErrPlayerIDRequired
	}
	if t.answer == nil || !t.answer.Matches(guess) {
		return false, nil
	}
	if err := t.AddCorrectPlayer(playerID); err != nil {
		return false, err
	}
	t.finish(at)
	return true, nil
}

// FinishTurnByTimeout forces the turn to Finished regardless of its status
func (t *Turn) FinishTurnByTimeout(at time.Time) {
	t.finish(at)
}

// AddCorrectPlayer is an idempotent set insert
func (t *Turn) AddCorrectPlayer(playerID PlayerID) error {
	if playerID.IsZero() {
		return ErrPlayerIDRequired
	}
	if !slices.Contains(t.correctPlayerIDs, playerID) {
		t.correctPlayerIDs = append(t.correctPlayerIDs, playerID)
	}
	return nil
}

func (t *Turn) finish(at time.Time) {
	t.status = TurnStatusFinished
	t.endedAt = &at
}

func (t *Turn) clone() *Turn {
	c := *t
	if t.answer != nil {
		a := *t.answer
		c.answer = &a
	}
	if t.endedAt != nil {
		e := *t.endedAt
		c.endedAt = &e
	}
	c.correctPlayerIDs = slices.Clone(t.correctPlayerIDs)
	return &c
}
