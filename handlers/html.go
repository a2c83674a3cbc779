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

const (
	msgFieldsRequired     = "All fields are required."
	msgHandleTaken        = "This handle is already taken."
	msgInvalidCredentials = "Invalid handle or password."
	msgNotFound           = "That item no longer exists."
	msgUploadFailed       = "The image could not be stored."
)

// htmlResponder holds what every server-rendered handler needs.
type htmlResponder struct {
	renderer *views.Renderer
	sessions *session.Manager
	logger   *slog.Logger
}

// page builds the layout data and consumes pending flash messages.
func (h *htmlResponder) page(w http.ResponseWriter, r *http.Request, identity *models.Identity, title string) views.Page {
	return views.Page{
		Title:    title,
		Identity: identity,
		Flashes:  h.sessions.PopFlashes(w, r),
	}
}

func (h *htmlResponder) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	if err := h.renderer.Render(w, http.StatusOK, name, data); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *htmlResponder) redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message, to string) {
	h.sessions.AddFlash(w, r, kind, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *htmlResponder) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	page := views.ErrorPage{
		Page:    views.Page{Title: "Error"},
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong. Please try again.",
	}
	if renderErr := h.renderer.Render(w, http.StatusInternalServerError, views.PageError, page); renderErr != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// failForm reports a failed form submission: user errors become a flash on
// redirect, anything else is a server error.
func (h *htmlResponder) failForm(w http.ResponseWriter, r *http.Request, err error, to string) {
	var message string
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		message = msgFieldsRequired
	case errors.Is(err, services.ErrHandleConflict):
		message = msgHandleTaken
	case errors.Is(err, services.ErrInvalidCredentials):
		message = msgInvalidCredentials
	case errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrResultNotFound):
		message = msgNotFound
	case errors.Is(err, services.ErrImageUploadFailed):
		h.logger.Warn("image upload failed", slog.Any("error", err))
		message = msgUploadFailed
	default:
		h.serverError(w, r, err)
		return
	}
	h.redirectWithFlash(w, r, session.FlashError, message, to)
}
