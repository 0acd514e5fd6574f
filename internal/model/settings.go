package model

// Bounds for GameSettings
const (
	MinTimeLimitSeconds = 30
	MaxTimeLimitSeconds = 300
	MinRoundCount       = 1
	MaxRoundCount       = 10
	MinPlayerCount      = 2
	MaxPlayerCount      = 8
)

// GameSettings are fixed at creation and never mutated
type GameSettings struct {
	timeLimitSeconds int
	roundCount       int
	playerCount      int
}

// NewGameSettings validates each bound and returns the first violation
func NewGameSettings(timeLimitSeconds, roundCount, playerCount int) (GameSettings, error) {
	if timeLimitSeconds < MinTimeLimitSeconds || timeLimitSeconds > MaxTimeLimitSeconds {
		return GameSettings{}, validationError(CodeInvalidTimeLimit,
			"time limit must be between %d and %d seconds, got %d",
			MinTimeLimitSeconds, MaxTimeLimitSeconds, timeLimitSeconds)
	}
	if roundCount < MinRoundCount || roundCount > MaxRoundCount {
		return GameSettings{}, validationError(CodeInvalidRoundCount,
			"round count must be between %d and %d, got %d", MinRoundCount, MaxRoundCount, roundCount)
	}
	if playerCount < MinPlayerCount || playerCount > MaxPlayerCount {
		return GameSettings{}, validationError(CodeInvalidPlayerCount,
			"player count must be between %d and %d, got %d", MinPlayerCount, MaxPlayerCount, playerCount)
	}
	return GameSettings{
		timeLimitSeconds: timeLimitSeconds,
		roundCount:       roundCount,
		playerCount:      playerCount,
	}, nil
}

// DefaultGameSettings returns the lobby defaults (90s turns, 3 rounds, 8 players)
func DefaultGameSettings() GameSettings {
	return GameSettings{timeLimitSeconds: 90, roundCount: 3, playerCount: MaxPlayerCount}
}

func (s GameSettings) TimeLimitSeconds() int { return s.timeLimitSeconds }
func (s GameSettings) RoundCount() int       { return s.roundCount }
func (s GameSettings) PlayerCount() int      { return s.playerCount }

// IsZero reports whether the settings were never constructed
func (s GameSettings) IsZero() bool { return s == GameSettings{} }
