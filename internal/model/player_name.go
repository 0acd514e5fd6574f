package model

import (
	"strings"
	"unicode/utf8"
)

// MaxPlayerNameLength is counted in code points, not bytes
const MaxPlayerNameLength = 20

// PlayerName is a trimmed display name of 1-20 characters
type PlayerName struct {
	value string
}

// NewPlayerName validates and trims a display name
func NewPlayerName(raw string) (PlayerName, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return PlayerName{}, ErrPlayerNameEmpty
	}
	if n := utf8.RuneCountInString(v); n > MaxPlayerNameLength {
		return PlayerName{}, validationError(CodePlayerNameTooLong,
			"player name must be at most %d characters, got %d", MaxPlayerNameLength, n)
	}
	return PlayerName{value: v}, nil
}

func (n PlayerName) String() string { return n.value }
