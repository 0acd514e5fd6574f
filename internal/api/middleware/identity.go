package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/drawguess/internal/api/apierr"
	"github.com/mcoot/drawguess/internal/model"
)

// PlayerHeader carries the secret token issued when the caller created or
// joined the game. Player ids are public; only the token proves who is asking.
const PlayerHeader = "X-Player-Token"

type contextKey string

const playerContextKey contextKey = "player_id"

// Authenticator resolves a token to a player of one game
type Authenticator interface {
	Authenticate(ctx context.Context, gameID model.GameID, token model.PlayerToken) (model.PlayerID, error)
}

// Identity resolves X-Player-Token against the game named by the {id} route
// variable and stores the player id in the request context. Routes without a
// game id ignore the header. An unknown token is rejected outright.
func Identity(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := model.PlayerToken(strings.TrimSpace(r.Header.Get(PlayerHeader)))
			gameID := model.GameID(mux.Vars(r)["id"])
			if token.IsZero() || gameID.IsZero() {
				next.ServeHTTP(w, r)
				return
			}

			playerID, err := auth.Authenticate(r.Context(), gameID, token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPlayerID(r.Context(), playerID)))
		})
	}
}

// RequirePlayer rejects requests without a player identity
func RequirePlayer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetPlayerID(r.Context()).IsZero() {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPlayerID returns a context carrying id
func WithPlayerID(ctx context.Context, id model.PlayerID) context.Context {
	return context.WithValue(ctx, playerContextKey, id)
}

// GetPlayerID returns the caller's player id, or "" when anonymous
func GetPlayerID(ctx context.Context) model.PlayerID {
	id, _ := ctx.Value(playerContextKey).(model.PlayerID)
	return id
}
