package redis

import (
	"fmt"

	"github.com/mcoot/drawguess/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "drawguess"

// gameKey returns the Redis key for a Game document
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the sorted set of game ids, scored
// by creation time in milliseconds
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}
