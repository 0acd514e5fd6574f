package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes bounds every JSON request body
const MaxBodyBytes = 64 << 10

// CreateGameRequest is the request body for creating a game. Zero settings
// fall back to the defaults.
type CreateGameRequest struct {
	PlayerName       string `json:"player_name"`
	TimeLimitSeconds int    `json:"time_limit_seconds,omitempty"`
	RoundCount       int    `json:"round_count,omitempty"`
	PlayerCount      int    `json:"player_count,omitempty"`
}

// JoinGameRequest is the request body for joining a game
type JoinGameRequest struct {
	PlayerName string `json:"player_name"`
}

// SetReadyRequest is the request body for changing readiness
type SetReadyRequest struct {
	Ready bool `json:"ready"`
}

// SetAnswerRequest is the request body for the drawer choosing the word
type SetAnswerRequest struct {
	Answer string `json:"answer"`
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	Guess string `json:"guess"`
}

// Decode reads a JSON body into v, rejecting unknown fields and trailing data
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
