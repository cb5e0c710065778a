package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/handler"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/middleware"
	rootmw "github.com/Kemiem/schiffe-versenken-ms4/internal/middleware"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/web/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Status   handler.StatusSource
	Storage  storage.Storage
	Hub      *ws.Hub
	Sessions ws.MessageHandler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	lobbyHandler := handler.NewLobbyHandler(cfg.Status)
	gameHandler := handler.NewGameHandler(cfg.Storage)
	playerHandler := handler.NewPlayerHandler(cfg.Storage)

	// Create middleware
	loggingMiddleware := rootmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Live session
	api.HandleFunc("/health", lobbyHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/status", lobbyHandler.Status).Methods(http.MethodGet)
	api.Handle("/ws", ws.Handler(cfg.Hub, cfg.Sessions)).Methods(http.MethodGet)

	// Archive
	api.HandleFunc("/matches", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{name}/record", playerHandler.Record).Methods(http.MethodGet)

	// The game socket is also served at the root for plain clients
	r.Handle("/ws", ws.Handler(cfg.Hub, cfg.Sessions)).Methods(http.MethodGet)

	return r
}
