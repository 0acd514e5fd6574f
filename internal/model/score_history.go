package model

import "time"

// ScoreReason explains why points were recorded
type ScoreReason string

const (
	ScoreReasonCorrectAnswer ScoreReason = "correct_answer"
	ScoreReasonDrawerPenalty ScoreReason = "drawer_penalty"
)

// ParseScoreReason maps a stored value back to a ScoreReason
func ParseScoreReason(s string) (ScoreReason, error) {
	switch ScoreReason(s) {
	case ScoreReasonCorrectAnswer, ScoreReasonDrawerPenalty:
		return ScoreReason(s), nil
	default:
		return "", validationError(CodeInvalidScoreReason, "unknown score reason %q", s)
	}
}

// ScoreHistory is an immutable scoring event
type ScoreHistory struct {
	playerID    PlayerID
	roundNumber int
	turnNumber  int
	points      int
	reason      ScoreReason
	timestamp   time.Time
}

// NewScoreHistory validates every field. Points are a positive magnitude;
// the reason decides whether they add or subtract.
func NewScoreHistory(playerID PlayerID, roundNumber, turnNumber, points int, reason ScoreReason, at time.Time) (ScoreHistory, error) {
	if playerID.IsZero() {
		return ScoreHistory{}, ErrPlayerIDRequired
	}
	if roundNumber < MinRoundNumber || roundNumber > MaxRoundNumber {
		return ScoreHistory{}, validationError(CodeInvalidRoundNumber,
			"round number must be between %d and %d, got %d", MinRoundNumber, MaxRoundNumber, roundNumber)
	}
	if turnNumber < MinTurnNumber || turnNumber > MaxTurnNumber {
		return ScoreHistory{}, validationError(CodeInvalidTurnNumber,
			"turn number must be between %d and %d, got %d", MinTurnNumber, MaxTurnNumber, turnNumber)
	}
	if points < 1 {
		return ScoreHistory{}, validationError(CodeInvalidPoints, "points must be at least 1, got %d", points)
	}
	if _, err := ParseScoreReason(string(reason)); err != nil {
		return ScoreHistory{}, err
	}
	return ScoreHistory{
		playerID:    playerID,
		roundNumber: roundNumber,
		turnNumber:  turnNumber,
		points:      points,
		reason:      reason,
		timestamp:   at,
	}, nil
}

func (s ScoreHistory) PlayerID() PlayerID   { return s.playerID }
func (s ScoreHistory) RoundNumber() int     { return s.roundNumber }
func (s ScoreHistory) TurnNumber() int      { return s.turnNumber }
func (s ScoreHistory) Points() int          { return s.points }
func (s ScoreHistory) Reason() ScoreReason  { return s.reason }
func (s ScoreHistory) Timestamp() time.Time { return s.timestamp }

// SignedPoints is positive for correct answers and negative for penalties
func (s ScoreHistory) SignedPoints() int {
	if s.reason == ScoreReasonDrawerPenalty {
		return -s.points
	}
	return s.points
}
