package model

import "fmt"

// PlayerStatus is the wire form of a player's readiness
type PlayerStatus string

const (
	PlayerStatusNotReady PlayerStatus = "not_ready"
	PlayerStatusReady    PlayerStatus = "ready"
)

// ParsePlayerStatus maps a stored value back to a PlayerStatus
func ParsePlayerStatus(s string) (PlayerStatus, error) {
	switch PlayerStatus(s) {
	case PlayerStatusNotReady, PlayerStatusReady:
		return PlayerStatus(s), nil
	default:
		return "", validationError(CodeInvalidPlayerStatus, "unknown player status %q", s)
	}
}

// Player is a game participant. Equality is by ID only (see Equal).
// Readiness and drawer flags change only through the owning Game.
type Player struct {
	ID       PlayerID
	Name     PlayerName
	Token    PlayerToken
	Ready    bool
	IsDrawer bool
}

// NewPlayer creates a not-ready, non-drawing player with a fresh id
func NewPlayer(name PlayerName) Player {
	return Player{ID: NewPlayerID(), Name: name}
}

// NewPlayerWithID creates a not-ready, non-drawing player with the given id
func NewPlayerWithID(id PlayerID, name PlayerName) (Player, error) {
	if id.IsZero() {
		return Player{}, ErrPlayerIDRequired
	}
	if name.String() == "" {
		return Player{}, ErrPlayerNameEmpty
	}
	return Player{ID: id, Name: name}, nil
}

// Status derives the readiness enum from Ready
func (p Player) Status() PlayerStatus {
	if p.Ready {
		return PlayerStatusReady
	}
	return PlayerStatusNotReady
}

// Equal reports identity equality
func (p Player) Equal(other Player) bool {
	return p.ID == other.ID
}

func (p Player) String() string {
	return fmt.Sprintf("%s(%s)", p.Name, p.ID)
}
