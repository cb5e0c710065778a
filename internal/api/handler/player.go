package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage"
)

// PlayerHandler serves win/loss records by display name
type PlayerHandler struct {
	store storage.Storage
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(store storage.Storage) *PlayerHandler {
	return &PlayerHandler{
		store: store,
	}
}

// Record handles GET /api/v1/players/{name}/record
func (h *PlayerHandler) Record(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	record, err := h.store.GetPlayerRecord(r.Context(), name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerRecordFromModel(record))
}
