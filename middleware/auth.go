package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/lanoel/session"
)

const (
	msgLoginRequired = "Please log in to vote."
	msgAdminRequired = "Access denied. Administrators only."
)

// LoadIdentity decodes the session cookie once per request and stores the
// identity in the request context. A missing or invalid cookie leaves the
// request anonymous.
func LoadIdentity(sessions *session.Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := sessions.Identity(r)
			if err != nil {
				logger.Debug("discarding invalid session", "path", r.URL.Path, "error", err)
				sessions.Destroy(w)
				identity = nil
			}
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireUser redirects anonymous requests to the login page.
func RequireUser(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()) == nil {
				sessions.AddFlash(w, r, session.FlashError, msgLoginRequired)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin lets through only sessions carrying the admin flag.
func RequireAdmin(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil || !identity.IsAdmin {
				sessions.AddFlash(w, r, session.FlashError, msgAdminRequired)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
