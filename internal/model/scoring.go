package model

import "time"

const (
	// MaxCorrectAnswerPoints is awarded for a guess at the very start of drawing
	MaxCorrectAnswerPoints = 10
	// DrawerPenaltyPoints is recorded when a turn times out with no correct guess
	DrawerPenaltyPoints = 1
)

// CorrectAnswerPoints scales with the time left in the turn, from
// MaxCorrectAnswerPoints down to 1
func CorrectAnswerPoints(turn *Turn, at time.Time) int {
	limit := time.Duration(turn.TimeLimitSeconds()) * time.Second
	remaining := turn.Deadline().Sub(at)
	if remaining <= 0 {
		return 1
	}
	if remaining > limit {
		remaining = limit
	}
	return 1 + int(int64(MaxCorrectAnswerPoints-1)*int64(remaining)/int64(limit))
}
