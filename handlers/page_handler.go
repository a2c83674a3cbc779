package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/services"
	"github.com/Dosada05/lanoel/session"
	"github.com/Dosada05/lanoel/views"
)

type PageHandler struct {
	htmlResponder
	leaderboard services.LeaderboardService
	votes       services.VoteService
}

func NewPageHandler(
	renderer *views.Renderer,
	sessions *session.Manager,
	leaderboard services.LeaderboardService,
	votes services.VoteService,
	logger *slog.Logger,
) *PageHandler {
	return &PageHandler{
		htmlResponder: htmlResponder{renderer: renderer, sessions: sessions, logger: logger},
		leaderboard:   leaderboard,
		votes:         votes,
	}
}

// Index shows games ranked by votes and the team leaderboard.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	overview, err := h.leaderboard.Overview(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	votesCount := 0
	if identity != nil {
		votesCount, err = h.votes.Count(r.Context(), identity.UserID)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
	}

	h.render(w, r, views.PageIndex, views.IndexPage{
		Page:        h.page(w, r, identity, ""),
		Games:       overview.Games,
		Leaderboard: overview.Leaderboard,
		VotesCount:  votesCount,
		MaxVotes:    services.MaxVotesPerUser,
	})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	page := views.ErrorPage{
		Page:    h.page(w, r, identity, "Not found"),
		Status:  http.StatusNotFound,
		Message: "This page does not exist.",
	}
	if err := h.renderer.Render(w, http.StatusNotFound, views.PageError, page); err != nil {
		h.serverError(w, r, err)
	}
}
