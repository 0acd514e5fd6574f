package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/drawguess/internal/api/handler"
	apimiddleware "github.com/mcoot/drawguess/internal/api/middleware"
	"github.com/mcoot/drawguess/internal/middleware"
	"github.com/mcoot/drawguess/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController game.ControllerInterface
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController)

	// API subrouter with common middleware. Logging wraps recovery so
	// recovered panics are logged with their request id and final status.
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(apimiddleware.Identity(cfg.GameController))

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Anonymous game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/players", gameHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/scores", gameHandler.Scores).Methods(http.MethodGet)

	// Player actions require a valid player token
	requirePlayer := apimiddleware.RequirePlayer()
	api.Handle("/games/{id}", requirePlayer(http.HandlerFunc(gameHandler.Delete))).Methods(http.MethodDelete)

	actions := api.PathPrefix("/games/{id}").Subrouter()
	actions.Use(requirePlayer)
	actions.HandleFunc("/ready", gameHandler.SetReady).Methods(http.MethodPut)
	actions.HandleFunc("/start", gameHandler.Start).Methods(http.MethodPost)
	actions.HandleFunc("/answer", gameHandler.SetAnswer).Methods(http.MethodPost)
	actions.HandleFunc("/guesses", gameHandler.Guess).Methods(http.MethodPost)
	actions.HandleFunc("/advance", gameHandler.Advance).Methods(http.MethodPost)
	actions.HandleFunc("/end", gameHandler.End).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
