package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/services"
	"github.com/Dosada05/lanoel/session"
	"github.com/Dosada05/lanoel/views"
)

type VoteHandler struct {
	htmlResponder
	voteService services.VoteService
}

func NewVoteHandler(renderer *views.Renderer, sessions *session.Manager, voteService services.VoteService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{
		htmlResponder: htmlResponder{renderer: renderer, sessions: sessions, logger: logger},
		voteService:   voteService,
	}
}

// Show lists the games with the caller's current selections.
func (h *VoteHandler) Show(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	if identity == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	state, err := h.voteService.State(r.Context(), identity.UserID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, views.PageVote, views.VotePage{
		Page:  h.page(w, r, identity, "Vote"),
		State: state,
	})
}

// Toggle flips the caller's vote for a game and returns to the vote page.
// Reaching the cap is a silent no-op.
func (h *VoteHandler) Toggle(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgNotFound, "/vote")
		return
	}

	outcome, err := h.voteService.Toggle(r.Context(), identity, gameID)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.failForm(w, r, err, "/vote")
		return
	}

	h.logger.Debug("vote toggled",
		slog.Int("user_id", identity.UserID),
		slog.Int("game_id", gameID),
		slog.String("outcome", string(outcome)),
	)
	http.Redirect(w, r, "/vote", http.StatusSeeOther)
}

type voteResponse struct {
	Outcome    services.VoteOutcome `json:"outcome"`
	GameID     int                  `json:"game_id"`
	VotesCount int                  `json:"votes_count"`
	MaxVotes   int                  `json:"max_votes"`
}

// ToggleAPI is the JSON form of Toggle. A capped request answers 409 so
// clients can tell it apart from a toggle.
func (h *VoteHandler) ToggleAPI(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		errorResponse(w, r, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.voteService.Toggle(r.Context(), identity, gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, h.logger, err)
		return
	}

	count, err := h.voteService.Count(r.Context(), identity.UserID)
	if err != nil {
		serverErrorResponse(w, r, h.logger, err)
		return
	}

	status := http.StatusOK
	if outcome == services.VoteCapped {
		status = http.StatusConflict
	}
	resp := voteResponse{
		Outcome:    outcome,
		GameID:     gameID,
		VotesCount: count,
		MaxVotes:   services.MaxVotesPerUser,
	}
	if err := writeJSON(w, status, resp, nil); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}
