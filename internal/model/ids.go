package model

import (
	"crypto/subtle"
	"strings"

	"github.com/google/uuid"
)

// GameID uniquely identifies a game
type GameID string

// PlayerID uniquely identifies a player within and across games
type PlayerID string

// NewGameID returns a fresh random game id. Uniqueness is statistical.
func NewGameID() GameID {
	return GameID(uuid.NewString())
}

// ParseGameID trims and validates a game id
func ParseGameID(raw string) (GameID, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ErrInvalidGameID
	}
	return GameID(v), nil
}

func (id GameID) String() string { return string(id) }

// IsZero reports whether the id is unset
func (id GameID) IsZero() bool { return id == "" }

// NewPlayerID returns a fresh random player id
func NewPlayerID() PlayerID {
	return PlayerID(uuid.NewString())
}

// ParsePlayerID trims and validates a player id
func ParsePlayerID(raw string) (PlayerID, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ErrInvalidPlayerID
	}
	return PlayerID(v), nil
}

func (id PlayerID) String() string { return string(id) }

// IsZero reports whether the id is unset
func (id PlayerID) IsZero() bool { return id == "" }

// PlayerToken is the secret a player presents to act in a game. Unlike the
// PlayerID it is never shown to other players.
type PlayerToken string

// IsZero reports whether the token is unset
func (t PlayerToken) IsZero() bool { return t == "" }

// Matches compares tokens in constant time. An empty token matches nothing.
func (t PlayerToken) Matches(other PlayerToken) bool {
	if t.IsZero() || other.IsZero() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(t), []byte(other)) == 1
}
