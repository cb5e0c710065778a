package handler

import (
	"net/http"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
)

// StatusSource reports the live lobby and match
type StatusSource interface {
	Status() model.Status
}

// LobbyHandler serves read-only views of the live session
type LobbyHandler struct {
	source StatusSource
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(source StatusSource) *LobbyHandler {
	return &LobbyHandler{
		source: source,
	}
}

// Health handles GET /api/v1/health
func (h *LobbyHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

// Status handles GET /api/v1/status
func (h *LobbyHandler) Status(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.StatusFromModel(h.source.Status()))
}
