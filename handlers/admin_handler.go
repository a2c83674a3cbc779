package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/services"
	"github.com/Dosada05/lanoel/session"
	"github.com/Dosada05/lanoel/views"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	adminPath     = "/admin"
)

type AdminHandler struct {
	htmlResponder
	adminService  services.AdminService
	gameService   services.GameService
	teamService   services.TeamService
	resultService services.ResultService
}

func NewAdminHandler(
	renderer *views.Renderer,
	sessions *session.Manager,
	adminService services.AdminService,
	gameService services.GameService,
	teamService services.TeamService,
	resultService services.ResultService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		htmlResponder: htmlResponder{renderer: renderer, sessions: sessions, logger: logger},
		adminService:  adminService,
		gameService:   gameService,
		teamService:   teamService,
		resultService: resultService,
	}
}

// Dashboard lists games, teams, results and users. ?editResult=<id> preloads
// one result into the edit form.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	var editResultID *int
	if raw := r.URL.Query().Get("editResult"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			editResultID = &id
		}
	}

	dashboard, err := h.adminService.Dashboard(r.Context(), editResultID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, views.PageAdmin, views.AdminPage{
		Page:      h.page(w, r, identity, "Admin"),
		Dashboard: dashboard,
	})
}

// --- games ---

func (h *AdminHandler) CreateGame(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	input, closeFile, err := gameInputFromForm(w, r)
	if err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	defer closeFile()

	game, err := h.gameService.CreateGame(r.Context(), input)
	if err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.logger.Info("game created", slog.Int("game_id", game.ID))
	h.redirectWithFlash(w, r, session.FlashSuccess, "Game added", adminPath)
}

func (h *AdminHandler) UpdateGame(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgNotFound, adminPath)
		return
	}
	input, closeFile, err := gameInputFromForm(w, r)
	if err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	defer closeFile()

	if _, err := h.gameService.UpdateGame(r.Context(), id, input); err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.redirectWithFlash(w, r, session.FlashSuccess, "Game updated", adminPath)
}

func (h *AdminHandler) DeleteGame(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgNotFound, adminPath)
		return
	}
	if err := h.gameService.DeleteGame(r.Context(), id); err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.logger.Info("game deleted", slog.Int("game_id", id))
	h.redirectWithFlash(w, r, session.FlashSuccess, "Game deleted", adminPath)
}

// --- teams ---

func (h *AdminHandler) CreateTeam(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	input, err := teamInputFromForm(r)
	if err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	if _, err := h.teamService.CreateTeam(r.Context(), input); err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.redirectWithFlash(w, r, session.FlashSuccess, "Team added", adminPath)
}

func (h *AdminHandler) UpdateTeam(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgNotFound, adminPath)
		return
	}
	input, err := teamInputFromForm(r)
	if err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	if _, err := h.teamService.UpdateTeam(r.Context(), id, input); err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.redirectWithFlash(w, r, session.FlashSuccess, "Team updated", adminPath)
}

func (h *AdminHandler) DeleteTeam(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgNotFound, adminPath)
		return
	}
	if err := h.teamService.DeleteTeam(r.Context(), id); err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.redirectWithFlash(w, r, session.FlashSuccess, "Team deleted", adminPath)
}

// --- results ---

func (h *AdminHandler) CreateResult(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	input, err := resultInputFromForm(r)
	if err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	if _, err := h.resultService.CreateResult(r.Context(), input); err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.redirectWithFlash(w, r, session.FlashSuccess, "Result recorded", adminPath)
}

func (h *AdminHandler) UpdateResult(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgNotFound, adminPath)
		return
	}
	input, err := resultInputFromForm(r)
	if err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	if _, err := h.resultService.UpdateResult(r.Context(), id, input); err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.redirectWithFlash(w, r, session.FlashSuccess, "Result updated", adminPath)
}

func (h *AdminHandler) DeleteResult(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgNotFound, adminPath)
		return
	}
	if err := h.resultService.DeleteResult(r.Context(), id); err != nil {
		h.failForm(w, r, err, adminPath)
		return
	}
	h.redirectWithFlash(w, r, session.FlashSuccess, "Result deleted", adminPath)
}

// --- form decoding ---

// gameInputFromForm parses the multipart game form. The returned func closes
// the uploaded file, if any.
func gameInputFromForm(w http.ResponseWriter, r *http.Request) (services.GameInput, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return services.GameInput{}, noop, fmt.Errorf("%w: invalid game form: %v", services.ErrValidationFailed, err)
	}

	orderIndex, err := formInt(r, "order_index")
	if err != nil {
		return services.GameInput{}, noop, err
	}
	input := services.GameInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		OrderIndex:  orderIndex,
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return input, noop, nil
	case err != nil:
		return services.GameInput{}, noop, fmt.Errorf("%w: invalid image: %v", services.ErrValidationFailed, err)
	}
	if header.Size == 0 {
		file.Close()
		return input, noop, nil
	}

	input.Image = &services.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentTypeOf(header),
		Reader:      file,
	}
	return input, func() { file.Close() }, nil
}

func contentTypeOf(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func teamInputFromForm(r *http.Request) (services.TeamInput, error) {
	if err := r.ParseForm(); err != nil {
		return services.TeamInput{}, fmt.Errorf("%w: %v", services.ErrValidationFailed, err)
	}
	player1, err := formOptionalInt(r, "player1_id")
	if err != nil {
		return services.TeamInput{}, err
	}
	player2, err := formOptionalInt(r, "player2_id")
	if err != nil {
		return services.TeamInput{}, err
	}
	return services.TeamInput{
		Name:      r.PostFormValue("name"),
		Player1ID: player1,
		Player2ID: player2,
	}, nil
}

func resultInputFromForm(r *http.Request) (services.ResultInput, error) {
	if err := r.ParseForm(); err != nil {
		return services.ResultInput{}, fmt.Errorf("%w: %v", services.ErrValidationFailed, err)
	}
	gameID, err := formOptionalInt(r, "game_id")
	if err != nil {
		return services.ResultInput{}, err
	}
	teamID, err := formOptionalInt(r, "team_id")
	if err != nil {
		return services.ResultInput{}, err
	}
	score, err := formInt(r, "score")
	if err != nil {
		return services.ResultInput{}, err
	}
	points, err := formInt(r, "points")
	if err != nil {
		return services.ResultInput{}, err
	}
	return services.ResultInput{GameID: gameID, TeamID: teamID, Score: score, Points: points}, nil
}
