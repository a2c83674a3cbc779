package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/lanoel/models"
	"github.com/Dosada05/lanoel/services"
	"github.com/Dosada05/lanoel/session"
	"github.com/Dosada05/lanoel/views"
)

const msgRegistered = "Account created!"

type AuthHandler struct {
	htmlResponder
	authService services.AuthService
}

func NewAuthHandler(renderer *views.Renderer, sessions *session.Manager, authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		htmlResponder: htmlResponder{renderer: renderer, sessions: sessions, logger: logger},
		authService:   authService,
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	h.render(w, r, views.PageLogin, h.page(w, r, identity, "Log in"))
}

// Login establishes a session. Admins land on the dashboard, everyone else on
// the home page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgFieldsRequired, "/login")
		return
	}

	user, err := h.authService.Login(r.Context(), services.LoginInput{
		Handle:   handleField(r),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.failForm(w, r, err, "/login")
		return
	}

	if !h.establish(w, r, user) {
		return
	}
	h.logger.Info("user logged in", slog.Int("user_id", user.ID))

	target := "/"
	if user.IsAdmin {
		target = "/admin"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	h.sessions.Destroy(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	h.render(w, r, views.PageRegister, h.page(w, r, identity, "Register"))
}

// Register creates the account and logs the new user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ *models.Identity) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithFlash(w, r, session.FlashError, msgFieldsRequired, "/register")
		return
	}

	user, err := h.authService.Register(r.Context(), services.RegisterInput{
		Handle:   handleField(r),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		h.failForm(w, r, err, "/register")
		return
	}

	if !h.establish(w, r, user) {
		return
	}
	h.logger.Info("user registered", slog.Int("user_id", user.ID))
	h.redirectWithFlash(w, r, session.FlashSuccess, msgRegistered, "/")
}

func (h *AuthHandler) establish(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	err := h.sessions.Establish(w, models.Identity{
		UserID:  user.ID,
		Handle:  user.Handle,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		h.serverError(w, r, err)
		return false
	}
	return true
}

// handleField accepts the older "pseudo" field name used by existing forms.
func handleField(r *http.Request) string {
	if v := strings.TrimSpace(r.PostFormValue("handle")); v != "" {
		return v
	}
	return strings.TrimSpace(r.PostFormValue("pseudo"))
}
