package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/storage"
)

// GameHandler serves the archive of finished matches
type GameHandler struct {
	store storage.Storage
}

// NewGameHandler creates a new game handler
func NewGameHandler(store storage.Storage) *GameHandler {
	return &GameHandler{
		store: store,
	}
}

// List handles GET /api/v1/matches?limit=N
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	summaries, err := h.store.ListMatchSummaries(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchHistoryFromModel(summaries))
}

// Get handles GET /api/v1/matches/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.MatchID(mux.Vars(r)["id"])

	summary, err := h.store.GetMatchSummary(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchSummaryFromModel(summary))
}
