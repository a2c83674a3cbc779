package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/lanoel/services"
)

// APIHandler serves the read-only JSON views of the aggregates.
type APIHandler struct {
	leaderboard services.LeaderboardService
	logger      *slog.Logger
}

func NewAPIHandler(leaderboard services.LeaderboardService, logger *slog.Logger) *APIHandler {
	return &APIHandler{leaderboard: leaderboard, logger: logger}
}

func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.leaderboard.Overview(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *APIHandler) Games(w http.ResponseWriter, r *http.Request) {
	games, err := h.leaderboard.GameVoteCounts(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}
